// Package assembler builds a telescope model directory on disk: the array's
// global position and layout files plus one numbered subdirectory per
// station holding that station's rotated antenna layout and, in full
// rotation mode, its feed-element angle file.
//
// A build is a one-shot, non-incremental regeneration. Any pre-existing
// model directory of the same name is destroyed first, and every output
// file is created with exclusive-create semantics so nothing written earlier
// in the same run can be silently overwritten.
package assembler
