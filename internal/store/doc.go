// Package store provides the persistence layer behind the validation engine.
//
// It currently supports:
//   - User constraints, tasks and habits (the entity store)
//   - Synced external calendar events (the calendar source)
//   - Audit log appends (one entry per validation run)
package store
