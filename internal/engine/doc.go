// Package engine turns a configuration into per-frame polygon sets.
//
// An Engine publishes immutable snapshots. Each reconfiguration is
// validated and fully built before it replaces the current snapshot, so a
// reader holding a snapshot always sees one consistent configuration and
// a failed reconfiguration leaves the previous one in place.
//
// Frames are pure functions of a snapshot and a time, which lets callers
// compute them in any order and on any number of goroutines.
package engine
