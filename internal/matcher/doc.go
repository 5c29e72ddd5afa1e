// Package matcher pairs a photo's capture time with the closest reading in a
// weather series.
//
// FindMatch is a pure function over value inputs: it scans the whole series,
// keeps the reading with the smallest absolute time difference and classifies
// the outcome against a threshold in minutes. When two readings are equally
// close the earlier one wins. A missing capture time is reported as its own
// status and never triggers a search.
package matcher
