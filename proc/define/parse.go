package define

import (
	"go.uber.org/multierr"
)

// Parse validates def and returns the Unit to emit. On failure it returns
// every diagnostic of the definition aggregated into one error; use
// Diagnostics to list them.
func Parse(def Definition) (*Unit, error) {
	p := &parser{
		def: def,
		unit: &Unit{
			Name:       ExportName(def.Name),
			Source:     def.Name,
			Variant:    def.Variant,
			EnvIndex:   -1,
			TypeParams: def.TypeParams,
			Pos:        def.Pos,
		},
	}
	p.parse()
	if p.errs != nil {
		return nil, p.errs
	}
	return p.unit, nil
}

type parser struct {
	def  Definition
	unit *Unit
	errs error
}

func (p *parser) report(d *Diagnostic) {
	p.errs = multierr.Append(p.errs, d)
}

func (p *parser) parse() {
	if p.def.Name == "" || p.def.Name == "_" {
		p.report(Diagf(p.def.Pos, "", ErrUnnamed, "definition has no name"))
	}

	if p.def.Variant == VariantFunc {
		p.checkResults()
	}

	for i, param := range p.def.Params {
		role, ok := p.resolveRole(param)
		if !ok {
			continue
		}

		param.Role = role
		f := Field{Param: param, Index: i}

		switch role {
		case RoleEnv:
			if !p.checkEnv(f) {
				continue
			}
			p.unit.EnvIndex = i
		case RoleState, RoleInput, RoleOutput:
			if !p.checkStored(&f) {
				continue
			}
		}

		p.unit.Params = append(p.unit.Params, f)
		switch role {
		case RoleState:
			p.unit.State = append(p.unit.State, f)
		case RoleInput:
			p.unit.Inputs = append(p.unit.Inputs, f)
		case RoleOutput:
			p.unit.Outputs = append(p.unit.Outputs, f)
		}
	}

	p.checkNames()
	p.unit.Phantom = p.phantoms()
}

func (p *parser) checkResults() {
	switch {
	case len(p.def.Results) == 0:
	case len(p.def.Results) == 1 && p.def.Results[0] == "error":
		p.unit.ReturnsError = true
	default:
		p.report(Diagf(p.def.Pos, "", ErrResult, "%s returns %v", p.def.Name, p.def.Results))
	}
}

func (p *parser) resolveRole(param Param) (Role, bool) {
	if param.Role != RoleNone {
		return param.Role, true
	}

	if param.Tag != "" {
		role, err := ParseRole(param.Tag)
		if err != nil {
			p.report(Diagf(param.Pos, param.Name, ErrUnknownRole,
				"tag %q on %s; only env, state, input and output are supported", param.Tag, describe(param)))
			return RoleNone, false
		}
		return role, true
	}

	if param.isEnv() {
		return RoleEnv, true
	}

	p.report(Diagf(param.Pos, param.Name, ErrMissingRole, "%s has no role tag", describe(param)))
	return RoleNone, false
}

func (p *parser) checkEnv(f Field) bool {
	switch {
	case p.def.Variant == VariantStruct:
		p.report(Diagf(f.Pos, f.Name, ErrEnvShape, "struct units receive the environment through Update, not field %s", f.Name))
	case !f.isEnv():
		p.report(Diagf(f.Pos, f.Name, ErrEnvShape, "environment parameter %s must have type %s", f.Name, EnvType))
	case f.Shape != ShapeValue:
		p.report(Diagf(f.Pos, f.Name, ErrEnvShape, "environment parameter %s must be passed by value", f.Name))
	case p.unit.EnvIndex >= 0:
		p.report(Diagf(f.Pos, f.Name, ErrDuplicateEnv, "only one %s parameter is allowed", EnvType))
	default:
		return true
	}
	return false
}

func (p *parser) checkStored(f *Field) bool {
	if f.Name == "" || f.Name == "_" {
		p.report(Diagf(f.Pos, f.Name, ErrUnnamed, "%s parameter must be a named identifier", f.Role))
		return false
	}

	if !p.checkShape(*f) {
		return false
	}

	f.GoName = f.Field
	if f.GoName == "" {
		f.GoName = ExportName(f.Name)
	}

	if f.Role == RoleState {
		return true
	}

	kind, err := f.kind()
	if err != nil {
		p.report(Diagf(f.Pos, f.Name, ErrUnmappedType, "%s %s has type %s", f.Role, f.Name, typeName(f.Param)))
		return false
	}
	f.Kind = kind
	return true
}

func (p *parser) checkShape(f Field) bool {
	if p.def.Variant == VariantStruct {
		if f.Shape != ShapeValue {
			p.report(Diagf(f.Pos, f.Name, ErrFieldShape, "%s field %s must not be a pointer", f.Role, f.Name))
			return false
		}
		return true
	}

	switch {
	case f.Role == RoleState && f.Shape != ShapePointer:
		p.report(Diagf(f.Pos, f.Name, ErrStateShape, "state %s must be a pointer", f.Name))
	case f.Role == RoleInput && f.Shape != ShapeValue:
		p.report(Diagf(f.Pos, f.Name, ErrInputShape, "input %s must be passed by value, not by pointer", f.Name))
	case f.Role == RoleOutput && f.Shape != ShapePointer:
		p.report(Diagf(f.Pos, f.Name, ErrOutputShape, "output %s must be a pointer", f.Name))
	default:
		return true
	}
	return false
}

func (p *parser) checkNames() {
	groups := map[Role]map[string]bool{}
	fields := map[string]string{}

	for _, f := range p.unit.Stored() {
		if groups[f.Role] == nil {
			groups[f.Role] = map[string]bool{}
		}
		if groups[f.Role][f.Name] {
			p.report(Diagf(f.Pos, f.Name, ErrDuplicateName, "%s %s is declared twice", f.Role, f.Name))
			continue
		}
		groups[f.Role][f.Name] = true

		if other, ok := fields[f.GoName]; ok {
			p.report(Diagf(f.Pos, f.Name, ErrDuplicateName, "%s and %s both become field %s", other, f.Name, f.GoName))
			continue
		}
		fields[f.GoName] = f.Name
	}
}

func (p *parser) phantoms() []TypeParam {
	var out []TypeParam
	for _, tp := range p.unit.TypeParams {
		used := false
		for _, f := range p.unit.Stored() {
			if references(typeName(f.Param), tp.Name) {
				used = true
				break
			}
		}
		if !used {
			out = append(out, tp)
		}
	}
	return out
}

func describe(param Param) string {
	if param.Name == "" {
		return "parameter"
	}
	return "parameter " + param.Name
}

func typeName(param Param) string {
	if param.Type != "" {
		return param.Type
	}
	if param.RType != nil {
		return param.RType.String()
	}
	return "?"
}
