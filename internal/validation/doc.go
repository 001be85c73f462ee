// Package validation inspects a batch of proposed schedule placements
// before they are committed.
//
// Each rule is an independent function over already-fetched snapshots that
// returns its own findings; Engine.Validate fetches the inputs concurrently,
// runs every applicable rule and merges the findings into one Result.
// Rules never short-circuit one another. The only fail-fast path is a
// missing user, since wake/sleep and time zone are needed by later rules.
//
// External calendar failures are fail-open: conflict detection is skipped
// and Result.ConflictCheck reports why.
package validation
