// Package zip walks several independently typed input and output channels
// in lockstep over one block.
//
// A Builder binds channels either with a checked element type (In, Out),
// which fails with signal.ErrTypeMismatch when the buffer holds another
// kind, or type-erased (InAny, OutAny), which exchanges signal.Value.
// Build returns an Iter that yields one index per sample. All handles read
// and write at the iterator's current index:
//
//	b := zip.New(in, out)
//	gain := zip.In[float64](b, 0)
//	dst := zip.Out[float64](b, 0)
//	it, err := b.Build()
//	if err != nil {
//		return err
//	}
//	for it.Next() {
//		v, _ := gain.Value()
//		dst.Set(v * 0.5)
//	}
//	return it.Err()
//
// Iteration is finite, forward-only and not restartable. If a bound buffer
// is shorter than the block, iteration stops at its end and Err reports
// processor.ErrLengthMismatch.
package zip
