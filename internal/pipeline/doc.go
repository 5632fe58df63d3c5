// Package pipeline renames the test files of one directory and reports the
// outcome.
//
// A run has four phases:
//
//   - Discover lists the immediate entries of the target directory and
//     classifies each with Lstat.
//   - Plan computes the new name for every regular file and refuses, up
//     front, renames that would collide with an existing entry or with
//     another file of the same batch.
//   - Execute runs every planned rename as an independent task on an
//     errgroup and joins them all before returning.
//   - Report prints one set_property directive per successful rename to the
//     output writer, logs failures, feeds the optional Recorder, and logs a
//     summary.
//
// A listing failure aborts the run with [ErrDirectoryRead]. Every other
// failure is confined to its file.
package pipeline
