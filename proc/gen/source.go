package gen

import (
	"cmp"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-proc/proc/define"
	"go.uber.org/multierr"
)

// Import paths of the packages generated code depends on.
const (
	ProcessorPath = "github.com/cwbudde/algo-proc/proc/processor"
	SignalPath    = "github.com/cwbudde/algo-proc/proc/signal"
	ZipPath       = "github.com/cwbudde/algo-proc/proc/zip"
)

var canonical = map[string]string{
	ProcessorPath: "processor",
	SignalPath:    "signal",
}

// fixedImports are imported by every generated file, by path.
var fixedImports = map[string]string{
	"fmt":         "fmt",
	ProcessorPath: "processor",
	SignalPath:    "signal",
	ZipPath:       "zip",
}

// reserved are the method names of generated function units.
var reserved = map[string]bool{
	"Update":              true,
	"Name":                true,
	"InputSpec":           true,
	"OutputSpec":          true,
	"CreateOutputBuffers": true,
	"Process":             true,
	"AddTo":               true,
}

// genUnit is one validated definition with its directive settings.
type genUnit struct {
	*define.Unit
	typeName string
	args     unitArgs
}

// source is one parsed Go file.
type source struct {
	fset    *token.FileSet
	file    *ast.File
	imports map[string]*ast.ImportSpec
	units   []*genUnit
	errs    error
}

func newSource(fset *token.FileSet, file *ast.File) *source {
	s := &source{
		fset:    fset,
		file:    file,
		imports: map[string]*ast.ImportSpec{},
	}
	for _, spec := range file.Imports {
		s.imports[importName(spec)] = spec
	}
	return s
}

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

// importName returns the name an import is referenced by. Without an
// explicit name it is guessed from the path.
func importName(spec *ast.ImportSpec) string {
	if spec.Name != nil {
		return spec.Name.Name
	}
	p, _ := strconv.Unquote(spec.Path.Value)
	name := path.Base(p)
	if versionSuffix.MatchString(name) && path.Dir(p) != "." {
		name = path.Base(path.Dir(p))
	}
	name = strings.TrimPrefix(name, "go-")
	if i := strings.IndexAny(name, ".-"); i > 0 {
		name = name[:i]
	}
	return name
}

func (s *source) report(pos token.Pos, param string, err error, format string, args ...any) {
	s.errs = multierr.Append(s.errs, define.Diagf(s.fset.Position(pos), param, err, format, args...))
}

func (s *source) scan() {
	for _, decl := range s.file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			dirs := directives(d.Doc)
			if hasUnit(dirs) {
				s.funcUnit(d, dirs)
			}
		case *ast.GenDecl:
			s.genDecl(d)
		}
	}
}

func (s *source) genDecl(d *ast.GenDecl) {
	if d.Tok != token.TYPE {
		if hasUnit(directives(d.Doc)) {
			s.report(d.Pos(), "", define.ErrDirective, "//proc:unit must precede a func or struct type")
		}
		return
	}
	for _, spec := range d.Specs {
		ts := spec.(*ast.TypeSpec)
		doc := ts.Doc
		if doc == nil && len(d.Specs) == 1 {
			doc = d.Doc
		}
		dirs := directives(doc)
		if hasUnit(dirs) {
			s.structUnit(ts, dirs)
		}
	}
}

func (s *source) unitDirective(dirs []directive) unitArgs {
	for _, d := range dirs {
		if d.verb == "unit" {
			return s.parseUnitArgs(d)
		}
	}
	return unitArgs{}
}

func (s *source) funcUnit(d *ast.FuncDecl, dirs []directive) {
	if d.Recv != nil {
		s.report(d.Pos(), "", define.ErrDirective, "method %s cannot be a unit", d.Name.Name)
		return
	}

	args := s.unitDirective(dirs)
	roles := s.parseRoles(dirs)

	def := define.Definition{
		Name:       d.Name.Name,
		Variant:    define.VariantFunc,
		TypeParams: s.typeParams(d.Type.TypeParams),
		Pos:        s.fset.Position(d.Name.Pos()),
	}

	if d.Type.Results != nil {
		for _, field := range d.Type.Results.List {
			n := max(len(field.Names), 1)
			for range n {
				def.Results = append(def.Results, s.typeString(field.Type))
			}
		}
	}

	for _, field := range d.Type.Params.List {
		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{{Name: "", NamePos: field.Type.Pos()}}
		}
		for _, id := range names {
			p := s.param(field.Type)
			p.Name = id.Name
			p.Pos = s.fset.Position(id.Pos())
			if r, ok := roles[id.Name]; ok && id.Name != "" {
				p.Tag = r.verb
				r.used = true
				roles[id.Name] = r
			}
			def.Params = append(def.Params, p)
		}
	}

	for _, name := range roles.names() {
		if r := roles[name]; !r.used {
			s.report(r.pos, name, define.ErrDirective, "%s has no parameter named %s", d.Name.Name, name)
		}
	}

	du, err := define.Parse(def)
	if err != nil {
		s.errs = multierr.Append(s.errs, err)
		return
	}

	typeName := du.Name
	if args.name != "" {
		typeName = args.name
	}
	if typeName == d.Name.Name {
		typeName += "Unit"
	}
	if !s.checkReserved(du, typeName) {
		return
	}

	s.units = append(s.units, &genUnit{Unit: du, typeName: typeName, args: args})
}

func (s *source) structUnit(ts *ast.TypeSpec, dirs []directive) {
	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		s.report(ts.Pos(), "", define.ErrDirective, "type %s is not a struct", ts.Name.Name)
		return
	}

	args := s.unitDirective(dirs)
	for _, d := range dirs {
		if d.verb != "unit" {
			s.report(d.pos, "", define.ErrDirective, "struct units take roles from proc field tags, not //proc:%s", d.verb)
		}
	}

	def := define.Definition{
		Name:       ts.Name.Name,
		Variant:    define.VariantStruct,
		TypeParams: s.typeParams(ts.TypeParams),
		Pos:        s.fset.Position(ts.Name.Pos()),
	}

	for _, field := range st.Fields.List {
		tag, tagged := "", false
		if field.Tag != nil {
			raw, err := strconv.Unquote(field.Tag.Value)
			if err == nil {
				tag, tagged = reflect.StructTag(raw).Lookup("proc")
			}
		}
		if tag == "-" {
			continue
		}
		role, channel, _ := strings.Cut(tag, ",")
		if !tagged {
			role = ""
		}

		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{{Name: "", NamePos: field.Type.Pos()}}
		}
		for _, id := range names {
			p := s.param(field.Type)
			p.Name, p.Field, p.Tag = id.Name, id.Name, role
			if channel != "" {
				p.Name = channel
			}
			p.Pos = s.fset.Position(id.Pos())
			def.Params = append(def.Params, p)
		}
	}

	du, err := define.Parse(def)
	if err != nil {
		s.errs = multierr.Append(s.errs, err)
		return
	}
	if args.name != "" {
		du.Name = args.name
	}
	if !s.checkReserved(du, ts.Name.Name) {
		return
	}

	s.units = append(s.units, &genUnit{Unit: du, typeName: ts.Name.Name, args: args})
}

func (s *source) checkReserved(du *define.Unit, typeName string) bool {
	ok := true
	for _, f := range du.Stored() {
		if reserved[f.GoName] {
			s.errs = multierr.Append(s.errs, define.Diagf(f.Pos, f.Name, define.ErrDuplicateName,
				"field %s of %s collides with a generated method", f.GoName, typeName))
			ok = false
		}
	}
	return ok
}

func (s *source) typeParams(list *ast.FieldList) []define.TypeParam {
	if list == nil {
		return nil
	}
	var out []define.TypeParam
	for _, field := range list.List {
		constraint := s.typeString(field.Type)
		for _, id := range field.Names {
			out = append(out, define.TypeParam{Name: id.Name, Constraint: constraint})
		}
	}
	return out
}

// param describes a declared type: one transparent parenthesis level and
// one pointer level are removed.
func (s *source) param(expr ast.Expr) define.Param {
	var p define.Param
	if paren, ok := expr.(*ast.ParenExpr); ok {
		expr, p.Wrapped = paren.X, true
	}
	if star, ok := expr.(*ast.StarExpr); ok {
		expr, p.Shape = star.X, define.ShapePointer
	}
	p.Type = s.typeString(expr)
	return p
}

// typeString prints a type expression. References to the processor and
// signal packages use their canonical names whatever the file imports
// them as.
func (s *source) typeString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		x, ok := e.X.(*ast.Ident)
		if !ok {
			break
		}
		if spec, ok := s.imports[x.Name]; ok {
			p, _ := strconv.Unquote(spec.Path.Value)
			if name, ok := canonical[p]; ok {
				return name + "." + e.Sel.Name
			}
		}
		return x.Name + "." + e.Sel.Name
	case *ast.StarExpr:
		return "*" + s.typeString(e.X)
	case *ast.ParenExpr:
		return "(" + s.typeString(e.X) + ")"
	case *ast.ArrayType:
		if e.Len == nil {
			return "[]" + s.typeString(e.Elt)
		}
		return "[" + types.ExprString(e.Len) + "]" + s.typeString(e.Elt)
	case *ast.MapType:
		return "map[" + s.typeString(e.Key) + "]" + s.typeString(e.Value)
	case *ast.IndexExpr:
		return s.typeString(e.X) + "[" + s.typeString(e.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(e.Indices))
		for i, idx := range e.Indices {
			args[i] = s.typeString(idx)
		}
		return s.typeString(e.X) + "[" + strings.Join(args, ", ") + "]"
	case *ast.Ellipsis:
		return "..." + s.typeString(e.Elt)
	}
	return types.ExprString(expr)
}

// outputImports returns the import lines of the generated file, standard
// library first. A source import is carried only if a declaration the
// generator emits refers to it: the stored fields and type parameter
// constraints of function units. Struct units emit no type text.
func (s *source) outputImports() (std, other []string) {
	for p := range fixedImports {
		if isStdlib(p) {
			std = append(std, strconv.Quote(p))
		} else {
			other = append(other, strconv.Quote(p))
		}
	}

	for _, name := range s.qualifiers() {
		spec, ok := s.imports[name]
		if !ok {
			continue
		}
		p, _ := strconv.Unquote(spec.Path.Value)
		if fixed, ok := fixedImports[p]; ok && fixed == name {
			continue
		}
		if _, taken := fixedNames[name]; taken {
			s.report(spec.Pos(), "", ErrImport, "import %s %q collides with the generated import of %q", name, p, fixedNames[name])
			continue
		}
		line := strconv.Quote(p)
		if spec.Name != nil {
			line = spec.Name.Name + " " + line
		}
		if isStdlib(p) {
			std = append(std, line)
		} else {
			other = append(other, line)
		}
	}

	byPath := func(a, b string) int { return cmp.Compare(importPath(a), importPath(b)) }
	slices.SortFunc(std, byPath)
	slices.SortFunc(other, byPath)
	return std, other
}

// fixedNames maps the package names of fixedImports to their paths.
var fixedNames = func() map[string]string {
	m := make(map[string]string, len(fixedImports))
	for p, name := range fixedImports {
		m[name] = p
	}
	return m
}()

// qualifiers returns the package names referenced by emitted type text.
func (s *source) qualifiers() []string {
	seen := map[string]bool{}
	for _, u := range s.units {
		if u.Variant != define.VariantFunc {
			continue
		}
		for _, f := range u.Stored() {
			collectQualifiers(f.Type, seen)
		}
		for _, tp := range u.TypeParams {
			collectQualifiers(tp.Constraint, seen)
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func collectQualifiers(typ string, seen map[string]bool) {
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return
	}
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if x, ok := sel.X.(*ast.Ident); ok {
			seen[x.Name] = true
		}
		return false
	})
}

func importPath(line string) string {
	if i := strings.IndexByte(line, '"'); i >= 0 {
		return line[i:]
	}
	return line
}

// isStdlib reports whether p looks like a standard library path: its
// first element has no dot.
func isStdlib(p string) bool {
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}

func (s *source) packageName() string {
	return s.file.Name.Name
}

func (u *genUnit) String() string {
	return fmt.Sprintf("%s (%s, %d in, %d out)", u.typeName, u.Variant, len(u.Inputs), len(u.Outputs))
}
