// Package mapping reads line-oriented class mapping files (SRG, TSRG and
// TSRG2) and derives the set of archive entry names a mapping covers.
//
// Only top-level lines take part: lines indented with a tab describe the
// members of the class above them and are skipped. The first space-delimited
// token of a top-level line is the obfuscated class name, which maps to the
// archive entry "<name>.class".
package mapping
