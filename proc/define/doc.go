// Package define is the front half of the unit compiler: it classifies the
// parameters of a unit definition into roles, validates their reference
// shapes, maps input and output types to signal kinds and derives the
// ordered channel specs.
//
// Definitions come from two front ends: the source generator in package gen
// (go/ast) and the runtime builder in package unit (reflect). Both lower
// their input to a Definition and call Parse. Parse never guesses: every
// problem is a Diagnostic at the offending parameter, all diagnostics of a
// definition are returned together, and no Unit is produced if there is any.
package define
