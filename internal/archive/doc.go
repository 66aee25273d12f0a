// Package archive works on jar (zip) archives: it filters an archive down to
// a keep-set of entry names, lists entries, and reports how well a keep-set
// covers an archive.
//
// Entries are copied raw, so compressed bytes and header metadata
// (method, timestamps, extra fields, comments) survive unchanged.
package archive
