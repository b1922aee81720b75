package graph

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
	vecmath "github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
)

// Process runs one block through every node in topological order. Nodes of
// the same level run concurrently, bounded by Config.Concurrency. The first
// failing node cancels the rest of its level and the error is returned; the
// frame counter only advances on success.
func (g *Graph) Process(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.compile(); err != nil {
		return err
	}
	g.prepare()

	env := processor.Env{
		SampleRate: g.cfg.SampleRate,
		BlockSize:  g.cfg.BlockSize,
		Frame:      g.frame,
	}

	for depth, level := range g.levels {
		if err := g.runLevel(ctx, level, env); err != nil {
			g.log.V(1).Info("block failed", "frame", g.frame, "level", depth, "error", err.Error())
			return err
		}
	}

	g.frame += int64(env.BlockSize)
	return nil
}

// Run processes blocks until ctx is cancelled or a block fails. A non-nil
// after hook is called with the frame of each processed block while the
// graph is not locked.
func (g *Graph) Run(ctx context.Context, blocks int, after func(frame int64) error) error {
	for i := 0; blocks < 0 || i < blocks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := g.Frame()
		if err := g.Process(ctx); err != nil {
			return err
		}
		if after != nil {
			if err := after(frame); err != nil {
				return err
			}
		}
	}
	return nil
}

// prepare calls the allocation hooks of new nodes and brings every output
// buffer to the block size.
func (g *Graph) prepare() {
	sr, bs := g.cfg.SampleRate, g.cfg.BlockSize

	for _, level := range g.levels {
		for _, n := range level {
			switch {
			case !n.allocated:
				processor.Allocate(n.proc, sr, bs)
				n.outputs = n.proc.CreateOutputBuffers(bs)
				n.allocated = true
			case g.resize:
				processor.ResizeBuffers(n.proc, sr, bs)
				for _, buf := range n.outputs {
					if buf != nil {
						buf.Resize(bs)
					}
				}
			}
		}
	}

	if g.resize {
		g.log.V(1).Info("resized", "sampleRate", sr, "blockSize", bs)
	}
	g.resize = false
}

func (g *Graph) runLevel(ctx context.Context, level []*node, env processor.Env) error {
	if len(level) == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return g.runNode(level[0], env)
	}

	eg, ctx := errgroup.WithContext(ctx)
	if g.cfg.Concurrency > 0 {
		eg.SetLimit(g.cfg.Concurrency)
	}
	for _, n := range level {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.runNode(n, env)
		})
	}
	return eg.Wait()
}

func (g *Graph) runNode(n *node, env processor.Env) error {
	var scratch []*signal.Block[float64]
	defer func() {
		for _, b := range scratch {
			g.pool.Put(b)
		}
	}()

	for i, srcs := range n.srcs {
		switch len(srcs) {
		case 0:
			n.views[i] = nil
		case 1:
			n.views[i] = g.output(srcs[0])
		default:
			mix := g.pool.Get(env.BlockSize)
			scratch = append(scratch, mix)
			g.average(mix, srcs)
			n.views[i] = mix
		}
	}

	err := n.proc.Process(
		processor.Inputs{Specs: n.in, Buffers: n.views, Env: env},
		processor.Outputs{Specs: n.out, Buffers: n.outputs},
	)
	if err != nil {
		return fmt.Errorf("node %s (%s): %w", n.id, n.proc.Name(), err)
	}
	return nil
}

func (g *Graph) output(p processor.Port) signal.Buffer {
	return g.nodes[p.Node].outputs[p.Index]
}

// average writes the mean of the float sources into dst. An index is
// present if any source is present there; absent sources contribute zero.
func (g *Graph) average(dst *signal.Block[float64], srcs []processor.Port) {
	samples, present := dst.Samples(), dst.Present()
	clear(samples)
	clear(present)

	for _, p := range srcs {
		src, err := signal.As[float64](g.output(p))
		if err != nil || src == nil {
			continue
		}
		n := min(len(samples), src.Len())
		vecmath.AddBlockInPlace(samples[:n], src.Samples()[:n])
		for i, ok := range src.Present()[:n] {
			if ok {
				present[i] = true
			}
		}
	}

	vecmath.ScaleBlockInPlace(samples, 1/float64(len(srcs)))
}
