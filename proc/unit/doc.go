// Package unit builds processing units at run time from a Go function and
// a role table, or from a struct whose fields carry proc tags.
//
// Both front ends validate the definition with package define and return a
// *Unit that implements processor.Processor. For every sample index the
// unit latches present input values into its held fields, calls the
// transform and writes the held output fields into the output buffers.
// An absent input keeps the previous value.
//
// Function units name their roles with State, Input and Output options,
// one per parameter in order; a processor.Env parameter is detected by
// type:
//
//	func addToCounter(counter *int64, a, b int64, out *int64) error {
//		*counter += a + b
//		*out = *counter
//		return nil
//	}
//
//	u, err := unit.FromFunc("addToCounter", addToCounter,
//		unit.State("counter"), unit.Input("a"), unit.Input("b"), unit.Output("out"))
//
// Struct units tag their fields and implement Updater:
//
//	type oscillator struct {
//		Phase float64 `proc:"state"`
//		Freq  float64 `proc:"input,freq"`
//		Out   float64 `proc:"output,out"`
//	}
//
//	u, err := unit.FromStruct(&oscillator{})
package unit
