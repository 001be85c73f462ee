// Package inbox runs the batch spool: planners drop proposal files into a
// directory and receive result documents next to them.
//
// Layout under Dir:
//
//	<dir>/*.json                    pending batches
//	<dir>/processed/                validated inputs
//	<dir>/failed/                   inputs that could not be decoded
//	<out_dir>/<name>.result.json    results (out_dir defaults to <dir>/results)
package inbox
