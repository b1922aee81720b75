package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-proc/proc/define"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/unit"
)

var (
	// ErrNoUnits is returned when a file has no //proc:unit directive.
	ErrNoUnits = errors.New("gen: no units found")
	// ErrImport reports a source import the generated file cannot carry
	// because its name is taken by a generated import.
	ErrImport = errors.New("gen: import name collision")
)

// Result is the outcome of generating one file.
type Result struct {
	// Source is the generated, formatted Go source.
	Source []byte
	// Units are the validated definitions, in file order.
	Units []*define.Unit
}

// Generate parses src, the content of filename, and returns the generated
// source for every unit it defines. If any definition is invalid the
// returned error aggregates every diagnostic of the file.
func Generate(filename string, src []byte, opts ...Option) (*Result, error) {
	cfg := ApplyOptions(opts...)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	s := newSource(fset, file)
	s.scan()
	if s.errs == nil && len(s.units) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoUnits, filename)
	}
	std, other := s.outputImports()
	if s.errs != nil {
		return nil, s.errs
	}

	data := fileData{
		Command:    cfg.Command,
		Source:     filepath.Base(filename),
		Package:    s.packageName(),
		StdImports: std,
		Imports:    other,
	}
	res := &Result{}
	for _, u := range s.units {
		strategy := cfg.Strategy
		if u.args.hasStrategy {
			strategy = u.args.strategy
		}
		data.Units = append(data.Units, newUnitData(u, strategy))
		res.Units = append(res.Units, u.Unit)
		cfg.Logger.V(1).Info("unit generated", "file", filename, "unit", u.typeName,
			"strategy", strategy.String(), "inputs", len(u.Inputs), "outputs", len(u.Outputs))
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	res.Source = out
	return res, nil
}

// GenerateFile generates the units of the file at path and writes them
// next to it. It returns the path written.
func GenerateFile(path string, opts ...Option) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	res, err := Generate(path, src, opts...)
	if err != nil {
		return "", err
	}
	dst := OutputName(path)
	if err := os.WriteFile(dst, res.Source, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

// OutputName returns the generated file name for path: counter.go becomes
// counter_proc.go and counter_test.go becomes counter_proc_test.go.
func OutputName(path string) string {
	base := strings.TrimSuffix(path, ".go")
	if stem, ok := strings.CutSuffix(base, "_test"); ok {
		return stem + "_proc_test.go"
	}
	return base + "_proc.go"
}

type fileData struct {
	Command    string
	Source     string
	Package    string
	StdImports []string
	Imports    []string
	Units      []unitData
}

type unitData struct {
	Func         bool
	Generic      bool
	PerSample    bool
	Type         string
	TypeParams   string
	Recv         string
	Name         string
	Source       string
	Fields       []fieldData
	Phantom      []string
	Call         string
	ReturnsError bool
	Inputs       []chanData
	Outputs      []chanData
}

type fieldData struct {
	Name string
	Type string
}

type chanData struct {
	Index int
	Name  string
	Kind  string
	Elem  string
	Field string
	Load  string
	Store string
	Param string
}

var kindConsts = map[signal.Kind]string{
	signal.KindBool:  "signal.KindBool",
	signal.KindFloat: "signal.KindFloat",
	signal.KindInt:   "signal.KindInt",
	signal.KindMidi:  "signal.KindMidi",
}

func newUnitData(u *genUnit, strategy unit.Strategy) unitData {
	d := unitData{
		Func:         u.Variant == define.VariantFunc,
		Generic:      len(u.TypeParams) > 0,
		PerSample:    strategy == unit.PerSample,
		Type:         u.typeName,
		Recv:         u.typeName,
		Name:         u.Name,
		Source:       u.Source,
		ReturnsError: u.ReturnsError,
	}

	if d.Generic {
		params := make([]string, len(u.TypeParams))
		names := make([]string, len(u.TypeParams))
		for i, tp := range u.TypeParams {
			params[i] = tp.Name + " " + tp.Constraint
			names[i] = tp.Name
		}
		d.TypeParams = "[" + strings.Join(params, ", ") + "]"
		d.Recv += "[" + strings.Join(names, ", ") + "]"
	}

	if d.Func {
		for _, f := range u.Stored() {
			d.Fields = append(d.Fields, fieldData{Name: f.GoName, Type: f.Type})
		}
		for _, tp := range u.Phantom {
			d.Phantom = append(d.Phantom, tp.Name)
		}
		d.Call = call(u)
	}

	taken := map[string]bool{"g": true, "u": true}
	for i, f := range u.Inputs {
		c := channel(i, f)
		c.Load = "v"
		if f.Type == "float32" {
			c.Load = "float32(v)"
		}
		c.Param = f.Name
		if !token.IsIdentifier(c.Param) || token.IsKeyword(c.Param) || taken[c.Param] || isPredeclared(c.Param) {
			c.Param = fmt.Sprintf("src%d", i)
		}
		taken[c.Param] = true
		d.Inputs = append(d.Inputs, c)
	}
	for i, f := range u.Outputs {
		c := channel(i, f)
		c.Store = c.Field
		if f.Type == "float32" {
			c.Store = "float64(" + c.Field + ")"
		}
		d.Outputs = append(d.Outputs, c)
	}
	return d
}

func channel(i int, f define.Field) chanData {
	return chanData{
		Index: i,
		Name:  f.Name,
		Kind:  kindConsts[f.Kind],
		Elem:  define.ElemType(f.Kind),
		Field: "u." + f.GoName,
	}
}

// call renders the function call of a function unit's Update method.
func call(u *genUnit) string {
	args := make([]string, len(u.Params))
	for i, f := range u.Params {
		switch {
		case f.Role == define.RoleEnv:
			args[i] = "env"
		case f.Shape == define.ShapePointer:
			args[i] = "&u." + f.GoName
		default:
			args[i] = "u." + f.GoName
		}
	}

	fn := u.Source
	if len(u.TypeParams) > 0 {
		names := make([]string, len(u.TypeParams))
		for i, tp := range u.TypeParams {
			names[i] = tp.Name
		}
		fn += "[" + strings.Join(names, ", ") + "]"
	}
	return fn + "(" + strings.Join(args, ", ") + ")"
}

var predeclared = map[string]bool{
	"processor": true, "signal": true, "zip": true, "fmt": true,
	"any": true, "error": true, "nil": true, "true": true, "false": true,
}

func isPredeclared(name string) bool {
	return predeclared[name]
}
