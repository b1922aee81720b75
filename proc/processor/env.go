package processor

// Env is the environment handle passed to every Process and transform call.
// It is supplied fresh by the engine for each block.
type Env struct {
	// SampleRate is the engine sample rate in Hz.
	SampleRate float64
	// BlockSize is the number of samples in the current block.
	BlockSize int
	// Frame is the absolute index of the first sample of the block.
	Frame int64
}

// Time returns the time in seconds of sample i of the current block.
func (e Env) Time(i int) float64 {
	if e.SampleRate <= 0 {
		return 0
	}
	return float64(e.Frame+int64(i)) / e.SampleRate
}
