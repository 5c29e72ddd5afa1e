// Package history records match runs in SQLite so earlier results can be
// listed and inspected after the console output is gone.
//
// A Run row carries the parameters and tally of one `weathertag match`
// invocation; Entry rows carry the per-photo outcome in processing order.
// Schema changes bump the version in schema.go; users delete history.db to
// adopt the new schema.
package history
