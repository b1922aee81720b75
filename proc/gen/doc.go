// Package gen generates processing units from annotated Go source.
//
// A function or struct type marked with a //proc:unit directive is
// validated with package define and turned into a type implementing
// processor.Processor. Function units name their parameter roles in
// further directive lines:
//
//	//proc:unit strategy=persample
//	//proc:state counter
//	//proc:input a b
//	//proc:output out
//	func addToCounter(counter *int64, a, b int64, out *int64) error {
//		...
//	}
//
// The generated AddToCounter type holds one exported field per parameter,
// an Update method calling the function, the processor methods and an
// AddTo wiring helper. Struct units carry proc:"role[,name]" field tags
// and supply their own Update(processor.Env) error method; only the
// processor methods are generated.
//
// Directive arguments:
//
//	strategy=accumulate|persample  processing strategy (default accumulate)
//	name=Ident                     unit name and, for functions, type name
//
// Generation is all or nothing: every definition error of the file is
// reported as a define.Diagnostic and no source is returned.
// Output is produced with text/template and formatted with go/format.
package gen
