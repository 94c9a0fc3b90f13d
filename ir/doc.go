// Package ir defines the tile intermediate representation: an
// LLVM-shaped SSA form extended with first-class multi-dimensional tile
// types and the splat, broadcast and trans instructions that move
// values between scalar and tile land.
//
// A Context owns and interns all types, so type equality is pointer
// equality. A Module accumulates globals and functions; a Builder
// appends instructions at a forward-only cursor. The textual form
// produced by Module.String is stable and is what the golden tests
// pin down.
package ir
