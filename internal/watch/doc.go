// Package watch re-runs the remap pipeline whenever one of its inputs (the
// source jar, the mapping file or a library jar) changes on disk. Rapid
// bursts of file events are debounced into a single run.
package watch
