package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/cwbudde/algo-proc/proc/define"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/unit"
)

const counterSrc = `package counter

//proc:unit
//proc:state counter
//proc:input a b
//proc:output out
func addToCounter(counter *int64, a, b int64, out *int64) error {
	*counter += a + b
	*out = *counter
	return nil
}
`

// generate runs Generate on src and type-checks the result together with
// src.
func generate(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()

	res, err := Generate("unit.go", []byte(src), opts...)
	assert.NoError(t, err)
	typecheck(t, []byte(src), res.Source)
	return res
}

var (
	checkMu  sync.Mutex
	checkSet = token.NewFileSet()
	checkImp = importer.ForCompiler(checkSet, "source", nil)
)

func typecheck(t *testing.T, src, generated []byte) {
	t.Helper()

	checkMu.Lock()
	defer checkMu.Unlock()

	var files []*ast.File
	for _, f := range []struct {
		name string
		text []byte
	}{{"unit.go", src}, {"unit_proc.go", generated}} {
		file, err := parser.ParseFile(checkSet, f.name, f.text, 0)
		assert.NoError(t, err)
		files = append(files, file)
	}

	conf := types.Config{Importer: checkImp}
	_, err := conf.Check("unit", checkSet, files, nil)
	assert.NoError(t, err, "generated source:\n%s", generated)
}

func TestGenerateCounter(t *testing.T) {
	res := generate(t, counterSrc)
	out := string(res.Source)

	assert.True(t, strings.HasPrefix(out, "// Code generated by procgen from unit.go. DO NOT EDIT.\n"))
	assert.Contains(t, out, "package counter\n")
	assert.Contains(t, out, "type AddToCounter struct {")
	assert.Contains(t, out, "func (u *AddToCounter) Update(env processor.Env) error {\n\treturn addToCounter(&u.Counter, u.A, u.B, &u.Out)\n}")
	assert.Contains(t, out, `return "AddToCounter"`)
	assert.Contains(t, out, `{Name: "a", Kind: signal.KindInt},`)
	assert.Contains(t, out, `{Name: "b", Kind: signal.KindInt},`)
	assert.Contains(t, out, `{Name: "out", Kind: signal.KindInt},`)
	assert.Contains(t, out, "signal.NewBlock[int64](size),")
	assert.Contains(t, out, "in0 := zip.In[int64](b, 0).Block()")
	assert.Contains(t, out, "if v, ok := in1.At(i); ok {\n\t\t\tu.B = v\n\t\t}")
	assert.Contains(t, out, "out0.Set(i, u.Out)")
	assert.Contains(t, out, "func (u *AddToCounter) AddTo(g processor.Graph, a, b processor.Source) (processor.NodeID, error) {")
	assert.Contains(t, out, "var _ processor.Processor = (*AddToCounter)(nil)")

	assert.Equal(t, 1, len(res.Units))
	u := res.Units[0]
	assert.Equal(t, []string{"a", "b"}, []string{u.InputSpec()[0].Name, u.InputSpec()[1].Name})
}

func TestGeneratePerSample(t *testing.T) {
	src := strings.Replace(counterSrc, "//proc:unit", "//proc:unit strategy=persample name=Accumulator", 1)
	out := string(generate(t, src).Source)

	assert.Contains(t, out, "type Accumulator struct {")
	assert.Contains(t, out, `return "Accumulator"`)
	assert.Contains(t, out, "in0 := zip.In[int64](b, 0)\n")
	assert.Contains(t, out, "out0 := zip.Out[int64](b, 0)\n")
	assert.Contains(t, out, "if v, ok := in0.Value(); ok {")
	assert.Contains(t, out, "out0.Set(u.Out)")
	assert.NotContains(t, out, ".Block()")
}

func TestGenerateDefaultStrategy(t *testing.T) {
	out := string(generate(t, counterSrc, WithStrategy(unit.PerSample), WithCommand("gen-test")).Source)

	assert.Contains(t, out, "// Code generated by gen-test from unit.go.")
	assert.Contains(t, out, "in0.Value()")
}

func TestGenerateEnvAndAliases(t *testing.T) {
	src := `package synth

import (
	proc "github.com/cwbudde/algo-proc/proc/processor"
	sig "github.com/cwbudde/algo-proc/proc/signal"
	"time"
)

//proc:unit
//proc:state since
//proc:input note
//proc:output gate level
func envelope(env proc.Env, since *time.Duration, note sig.Midi, gate *bool, level *float32) {
}
`
	res := generate(t, src)
	out := string(res.Source)

	assert.Contains(t, out, "\"time\"\n")
	assert.Contains(t, out, "envelope(env, &u.Since, u.Note, &u.Gate, &u.Level)\n\treturn nil")
	assert.Contains(t, out, "signal.Midi")
	assert.Contains(t, out, "out1.Set(i, float64(u.Level))")
	assert.Contains(t, out, `{Name: "note", Kind: signal.KindMidi},`)
	assert.Contains(t, out, `{Name: "level", Kind: signal.KindFloat},`)
	assert.Contains(t, out, "signal.NewBlock[bool](size),")
	assert.Equal(t, 0, res.Units[0].EnvIndex)
}

func TestGenerateFloat32Input(t *testing.T) {
	src := `package fx

//proc:unit
//proc:input x
//proc:output y
func Halve(x float32, y *float32) { *y = x / 2 }
`
	out := string(generate(t, src).Source)

	assert.Contains(t, out, "type HalveUnit struct {")
	assert.Contains(t, out, "u.X = float32(v)")
	assert.Contains(t, out, `return "Halve"`)
}

func TestGenerateGeneric(t *testing.T) {
	src := `package fx

//proc:unit
//proc:state history
//proc:input x
//proc:output y
func smooth[T any, U any](history *[]T, x float64, y *float64) {}
`
	res := generate(t, src)
	out := string(res.Source)

	assert.Contains(t, out, "type Smooth[T any, U any] struct {")
	assert.Contains(t, out, "_       [0]U")
	assert.Contains(t, out, "func (u *Smooth[T, U]) Update(env processor.Env) error {")
	assert.Contains(t, out, "smooth[T, U](&u.History, u.X, &u.Y)")
	assert.NotContains(t, out, "var _ processor.Processor")
	assert.Equal(t, 1, len(res.Units[0].Phantom))
}

func TestGenerateStruct(t *testing.T) {
	src := `package fx

import "github.com/cwbudde/algo-proc/proc/processor"

// gate opens on note on.
//
//proc:unit strategy=persample
type gate struct {
	Open  bool    ` + "`proc:\"state\"`" + `
	Note  int64   ` + "`proc:\"input,note\"`" + `
	Level float64 ` + "`proc:\"output,level\"`" + `
	cache []int   ` + "`proc:\"-\"`" + `
}

func (g *gate) Update(env processor.Env) error { return nil }
`
	res := generate(t, src)
	out := string(res.Source)

	assert.NotContains(t, out, ") Update(")
	assert.Contains(t, out, "func (u *gate) Process(in processor.Inputs, out processor.Outputs) error {")
	assert.Contains(t, out, "u.Note = v")
	assert.Contains(t, out, "out0.Set(u.Level)")
	assert.Contains(t, out, `return "Gate"`)
	assert.Contains(t, out, "func (u *gate) AddTo(g processor.Graph, note processor.Source)")
	assert.Equal(t, signal.KindFloat, res.Units[0].OutputSpec()[0].Kind)
}

func TestGenerateZeroChannels(t *testing.T) {
	src := `package fx

//proc:unit
func tick() {}
`
	out := string(generate(t, src).Source)

	assert.Contains(t, out, "func (u *Tick) AddTo(g processor.Graph) (processor.NodeID, error) {")
	assert.Contains(t, out, "return processor.Wire(g, u)")
	assert.Contains(t, out, "return []signal.Buffer{}")
}

func TestGenerateCarriesOnlyEmittedImports(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		imports []string
		absent  []string
	}{
		{
			name: "struct state from another package",
			src: `package fx

import (
	"time"

	"github.com/cwbudde/algo-proc/proc/processor"
)

//proc:unit
type Hold struct {
	Elapsed time.Duration ` + "`proc:\"state,elapsed\"`" + `
	In      float64       ` + "`proc:\"input,in\"`" + `
	Out     float64       ` + "`proc:\"output,out\"`" + `
}

func (h *Hold) Update(env processor.Env) error {
	h.Elapsed += time.Second
	h.Out = h.In
	return nil
}
`,
			absent: []string{`"time"`},
		},
		{
			name: "generic struct with imported constraint",
			src: `package fx

import (
	"cmp"

	"github.com/cwbudde/algo-proc/proc/processor"
)

//proc:unit
type Max[T cmp.Ordered] struct {
	Key  func(float64) T ` + "`proc:\"-\"`" + `
	Best T               ` + "`proc:\"state,best\"`" + `
	In   float64         ` + "`proc:\"input,in\"`" + `
	Out  float64         ` + "`proc:\"output,out\"`" + `
}

func (m *Max[T]) Update(env processor.Env) error {
	if k := m.Key(m.In); k > m.Best {
		m.Best, m.Out = k, m.In
	}
	return nil
}
`,
			absent: []string{`"cmp"`},
		},
		{
			name: "function state from another package",
			src: `package fx

import (
	"errors"
	"time"

	"github.com/cwbudde/algo-proc/proc/processor"
)

//proc:unit
//proc:state total
//proc:input gate
//proc:output seconds
func elapsed(env processor.Env, total *time.Duration, gate bool, seconds *float64) error {
	if env.SampleRate <= 0 {
		return errors.New("no sample rate")
	}
	if gate {
		*total += time.Duration(float64(time.Second) / env.SampleRate)
	}
	*seconds = total.Seconds()
	return nil
}
`,
			imports: []string{`"time"`},
			absent:  []string{`"errors"`},
		},
		{
			name: "generic function with imported constraint",
			src: `package fx

import "cmp"

//proc:unit
//proc:state best
//proc:input x
//proc:output y
func track[T cmp.Ordered](best *T, x float64, y *float64) {}
`,
			imports: []string{`"cmp"`},
		},
		{
			name: "state typed by fmt",
			src: `package fx

import "fmt"

//proc:unit
//proc:state label
//proc:input x
//proc:output y
func describe(label *fmt.Stringer, x float64, y *float64) {}
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := string(generate(t, tc.src).Source)

			assert.Equal(t, 1, strings.Count(out, `"fmt"`))
			for _, imp := range tc.imports {
				assert.Contains(t, out, "\t"+imp+"\n")
			}
			for _, imp := range tc.absent {
				assert.NotContains(t, out, imp)
			}
		})
	}
}

func TestGenerateGroupsStdlibImports(t *testing.T) {
	src := `package fx

import (
	"time"

	"github.com/cwbudde/algo-proc/proc/signal"
)

//proc:unit
//proc:state since last
//proc:input x
//proc:output y
func stamp(since *time.Duration, last *signal.Midi, x float64, y *float64) {}
`
	out := string(generate(t, src).Source)

	assert.Contains(t, out, "import (\n\t\"fmt\"\n\t\"time\"\n\n\t\"github.com/cwbudde/algo-proc/proc/processor\"\n")
	assert.Equal(t, 1, strings.Count(out, `"github.com/cwbudde/algo-proc/proc/signal"`))
}

func TestGenerateImportCollision(t *testing.T) {
	src := `package fx

import "archive/zip"

//proc:unit
//proc:state archive
//proc:input x
//proc:output y
func pack(archive *zip.Writer, x float64, y *float64) {}
`
	_, err := Generate("unit.go", []byte(src))
	assert.IsError(t, err, ErrImport)
	assert.Contains(t, err.Error(), "unit.go:3:8: ")
}

func TestGenerateDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
		at   string
	}{
		{
			name: "bad strategy",
			src:  "package p\n\n//proc:unit strategy=fast\nfunc f() {}\n",
			want: define.ErrDirective,
			at:   "unit.go:3:1",
		},
		{
			name: "unknown argument",
			src:  "package p\n\n//proc:unit speed=1\nfunc f() {}\n",
			want: define.ErrDirective,
		},
		{
			name: "unknown role",
			src:  "package p\n\n//proc:unit\n//proc:sidechain x\nfunc f(x int64) {}\n",
			want: define.ErrUnknownRole,
			at:   "unit.go:4:1",
		},
		{
			name: "missing role",
			src:  "package p\n\n//proc:unit\nfunc f(x int64) {}\n",
			want: define.ErrMissingRole,
			at:   "unit.go:4:8",
		},
		{
			name: "input by pointer",
			src:  "package p\n\n//proc:unit\n//proc:input x\nfunc f(x *int64) {}\n",
			want: define.ErrInputShape,
			at:   "unit.go:5:8",
		},
		{
			name: "output by value",
			src:  "package p\n\n//proc:unit\n//proc:output y\nfunc f(y float64) {}\n",
			want: define.ErrOutputShape,
		},
		{
			name: "unmapped type",
			src:  "package p\n\n//proc:unit\n//proc:input x\nfunc f(x int) {}\n",
			want: define.ErrUnmappedType,
		},
		{
			name: "unknown parameter",
			src:  "package p\n\n//proc:unit\n//proc:input y\nfunc f() {}\n",
			want: define.ErrDirective,
		},
		{
			name: "tagged twice",
			src:  "package p\n\n//proc:unit\n//proc:input x\n//proc:output x\nfunc f(x int64) {}\n",
			want: define.ErrDirective,
		},
		{
			name: "method",
			src:  "package p\n\ntype T struct{}\n\n//proc:unit\nfunc (T) f() {}\n",
			want: define.ErrDirective,
		},
		{
			name: "not a struct",
			src:  "package p\n\n//proc:unit\ntype T int\n",
			want: define.ErrDirective,
		},
		{
			name: "role directive on struct",
			src:  "package p\n\n//proc:unit\n//proc:input x\ntype T struct{}\n",
			want: define.ErrDirective,
		},
		{
			name: "untagged field",
			src:  "package p\n\n//proc:unit\ntype T struct{ X float64 }\n",
			want: define.ErrMissingRole,
		},
		{
			name: "reserved field",
			src:  "package p\n\n//proc:unit\n//proc:input process\nfunc f(process int64) {}\n",
			want: define.ErrDuplicateName,
		},
		{
			name: "bad result",
			src:  "package p\n\n//proc:unit\nfunc f() (int, error) { return 0, nil }\n",
			want: define.ErrResult,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := Generate("unit.go", []byte(tc.src))
			assert.IsError(t, err, tc.want)
			assert.Zero(t, res)
			if tc.at != "" {
				assert.Contains(t, err.Error(), tc.at+": ")
			}
		})
	}
}

func TestGenerateReportsEveryDiagnostic(t *testing.T) {
	src := `package p

//proc:unit
//proc:input x
//proc:output y
func f(x *int64, y int64) {}

//proc:unit strategy=fast
func g() {}
`
	_, err := Generate("unit.go", []byte(src))
	diags := define.Diagnostics(err)
	assert.Equal(t, 3, len(diags))
}

func TestGenerateNoUnits(t *testing.T) {
	_, err := Generate("unit.go", []byte("package p\n\nfunc f() {}\n"))
	assert.IsError(t, err, ErrNoUnits)
}

func TestGenerateSyntaxError(t *testing.T) {
	_, err := Generate("unit.go", []byte("package p\n\nfunc f( {}\n"))
	assert.Error(t, err)
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.go")
	assert.NoError(t, os.WriteFile(path, []byte(counterSrc), 0o644))

	dst, err := GenerateFile(path)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "counter_proc.go"), dst)

	data, err := os.ReadFile(dst)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "from counter.go. DO NOT EDIT.")
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "x/counter_proc.go", OutputName("x/counter.go"))
	assert.Equal(t, "x/counter_proc_test.go", OutputName("x/counter_test.go"))
}
