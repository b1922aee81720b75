package gen

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by {{.Command}} from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
{{range .StdImports}}	{{.}}
{{end}}
{{range .Imports}}	{{.}}
{{end}})
{{range .Units}}{{template "unit" .}}{{end}}`))

func init() {
	template.Must(fileTemplate.New("unit").Parse(`
{{if .Func}}
// {{.Type}} is the processing unit of {{.Source}}.
type {{.Type}}{{.TypeParams}} struct {
{{range .Fields}}	{{.Name}} {{.Type}}
{{end}}{{range .Phantom}}	_ [0]{{.}}
{{end}}}

// Update calls {{.Source}} once on the held fields.
func (u *{{.Recv}}) Update(env processor.Env) error {
{{if .ReturnsError}}	return {{.Call}}
{{else}}	{{.Call}}
	return nil
{{end}}}
{{end}}
{{if not .Generic}}var _ processor.Processor = (*{{.Type}})(nil)
{{end}}
// Name returns {{printf "%q" .Name}}.
func (u *{{.Recv}}) Name() string {
	return {{printf "%q" .Name}}
}

// InputSpec returns the input channels in declaration order.
func (u *{{.Recv}}) InputSpec() []processor.SignalSpec {
{{if .Inputs}}	return []processor.SignalSpec{
{{range .Inputs}}		{Name: {{printf "%q" .Name}}, Kind: {{.Kind}}},
{{end}}	}
{{else}}	return []processor.SignalSpec{}
{{end}}}

// OutputSpec returns the output channels in declaration order.
func (u *{{.Recv}}) OutputSpec() []processor.SignalSpec {
{{if .Outputs}}	return []processor.SignalSpec{
{{range .Outputs}}		{Name: {{printf "%q" .Name}}, Kind: {{.Kind}}},
{{end}}	}
{{else}}	return []processor.SignalSpec{}
{{end}}}

// CreateOutputBuffers returns one zeroed buffer of size samples per output.
func (u *{{.Recv}}) CreateOutputBuffers(size int) []signal.Buffer {
{{if .Outputs}}	return []signal.Buffer{
{{range .Outputs}}		signal.NewBlock[{{.Elem}}](size),
{{end}}	}
{{else}}	return []signal.Buffer{}
{{end}}}

// Process runs one block. An absent input keeps its previous value.
func (u *{{.Recv}}) Process(in processor.Inputs, out processor.Outputs) error {
	if err := processor.Validate(u, in, out); err != nil {
		return err
	}

	b := zip.New(in, out)
{{if .PerSample}}{{range .Inputs}}	in{{.Index}} := zip.In[{{.Elem}}](b, {{.Index}})
{{end}}{{range .Outputs}}	out{{.Index}} := zip.Out[{{.Elem}}](b, {{.Index}})
{{end}}{{else}}{{range .Inputs}}	in{{.Index}} := zip.In[{{.Elem}}](b, {{.Index}}).Block()
{{end}}{{range .Outputs}}	out{{.Index}} := zip.Out[{{.Elem}}](b, {{.Index}}).Block()
{{end}}{{end}}
	it, err := b.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", u.Name(), err)
	}

	for it.Next() {
{{if .PerSample}}{{range .Inputs}}		if v, ok := in{{.Index}}.Value(); ok {
			{{.Field}} = {{.Load}}
		}
{{end}}		if err := u.Update(in.Env); err != nil {
			return processor.Fail(u.Name(), it.Index(), err)
		}
{{range .Outputs}}		out{{.Index}}.Set({{.Store}})
{{end}}{{else}}		i := it.Index()
{{range .Inputs}}		if v, ok := in{{.Index}}.At(i); ok {
			{{.Field}} = {{.Load}}
		}
{{end}}		if err := u.Update(in.Env); err != nil {
			return processor.Fail(u.Name(), i, err)
		}
{{range .Outputs}}		out{{.Index}}.Set(i, {{.Store}})
{{end}}{{end}}	}

	if err := it.Err(); err != nil {
		return fmt.Errorf("%s: %w", u.Name(), err)
	}
	return nil
}

// AddTo inserts u into g and connects the given sources to its inputs in
// order. A nil source leaves its input unconnected.
func (u *{{.Recv}}) AddTo(g processor.Graph{{range .Inputs}}, {{.Param}}{{end}}{{if .Inputs}} processor.Source{{end}}) (processor.NodeID, error) {
	return processor.Wire(g, u{{range .Inputs}}, {{.Param}}{{end}})
}
`))
}
