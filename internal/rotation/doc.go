// Package rotation implements the station rotation engine. It loads the
// per-station rotation-angle table and the reference station's local antenna
// layout, and produces each station's antenna coordinates by applying the
// rotation between that station and the reference station.
//
// Rotation angles are given in degrees East of North (clockwise positive).
// The downstream feed-element convention is counter-clockwise from the
// positive x axis; FeedAngleDeg converts between the two.
package rotation
