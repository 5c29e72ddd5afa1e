// Package matchrun drives one complete match invocation: load the
// measurement log, discover photos, tag them, and record the outcome in the
// run history.
//
// Runs that write metadata hold an exclusive flock on the state directory so
// two writers never edit the same photos concurrently. Preview runs take no
// lock. A log that cannot be opened aborts the run before any photo is
// touched; every other failure is reported per photo.
package matchrun
