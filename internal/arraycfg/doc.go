// Package arraycfg is the array-configuration provider. It loads telescope
// array definitions from .hcl catalog files and resolves an array-size name
// into the array's reference location and its ordered station list with
// absolute geocentric positions.
//
// The provider is read-only: the assembler consumes it behind a narrow
// Resolve interface so the rotation and assembly logic stays testable with
// synthetic catalogs.
package arraycfg
