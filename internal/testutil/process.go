package testutil

import (
	"testing"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

// Run processes one block of env.BlockSize samples through p with freshly
// created output buffers and returns them. A nil input is unconnected.
func Run(t *testing.T, p processor.Processor, env processor.Env, in ...signal.Buffer) []signal.Buffer {
	t.Helper()

	out := p.CreateOutputBuffers(env.BlockSize)
	RunInto(t, p, env, out, in...)
	return out
}

// RunInto is like Run but writes into out, so held output state carries
// across blocks.
func RunInto(t *testing.T, p processor.Processor, env processor.Env, out []signal.Buffer, in ...signal.Buffer) {
	t.Helper()

	err := p.Process(
		processor.Inputs{Specs: p.InputSpec(), Buffers: in, Env: env},
		processor.Outputs{Specs: p.OutputSpec(), Buffers: out},
	)
	if err != nil {
		t.Fatalf("%s: Process: %v", p.Name(), err)
	}
}

// Samples returns the samples of buf as T, failing t on a kind mismatch.
func Samples[T signal.Sample](t *testing.T, buf signal.Buffer) []T {
	t.Helper()

	blk, err := signal.As[T](buf)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	return blk.Samples()
}
