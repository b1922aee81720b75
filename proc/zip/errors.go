package zip

import "errors"

var (
	// ErrChannel is returned when a binding names a channel that does not
	// exist or an output that has no buffer.
	ErrChannel = errors.New("zip: no such channel")
	// ErrAliasedOutput is returned when two output views would share one
	// buffer within a block.
	ErrAliasedOutput = errors.New("zip: output buffer bound twice")
	// ErrRebuilt is returned by a second call to Build.
	ErrRebuilt = errors.New("zip: builder already built")
)
