// Package remap produces remapped Minecraft jars by filtering a jar down to
// the classes a mapping file names and handing the result to an external
// remapping tool (SpecialSource or Vignette) running on a JVM.
//
// The work runs strictly in sequence:
//
//	parse mappings -> filter archive -> run tool -> copy result
//
// Intermediate archives live in a cache directory and are removed on every
// exit path. The caller owns the returned result file.
package remap
