package gen

import (
	"go/ast"
	"go/token"
	"sort"
	"strings"

	"github.com/cwbudde/algo-proc/proc/define"
	"github.com/cwbudde/algo-proc/proc/unit"
)

const directivePrefix = "//proc:"

// directive is one //proc:<verb> [args...] comment line.
type directive struct {
	verb string
	args []string
	pos  token.Pos
}

func directives(doc *ast.CommentGroup) []directive {
	if doc == nil {
		return nil
	}
	var out []directive
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		fields := strings.Fields(text)
		d := directive{pos: c.Slash}
		if len(fields) > 0 && !strings.HasPrefix(text, " ") {
			d.verb, d.args = fields[0], fields[1:]
		}
		out = append(out, d)
	}
	return out
}

func hasUnit(dirs []directive) bool {
	for _, d := range dirs {
		if d.verb == "unit" {
			return true
		}
	}
	return false
}

// unitArgs are the arguments of a //proc:unit directive.
type unitArgs struct {
	strategy    unit.Strategy
	hasStrategy bool
	name        string
}

func (s *source) parseUnitArgs(d directive) unitArgs {
	var ua unitArgs
	for _, arg := range d.args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			s.report(d.pos, "", define.ErrDirective, "argument %q must be key=value", arg)
			continue
		}
		switch key {
		case "strategy":
			st, err := unit.ParseStrategy(value)
			if err != nil {
				s.report(d.pos, "", define.ErrDirective, "%v; want accumulate or persample", err)
				continue
			}
			ua.strategy, ua.hasStrategy = st, true
		case "name":
			if !token.IsIdentifier(value) {
				s.report(d.pos, "", define.ErrDirective, "name %q is not an identifier", value)
				continue
			}
			ua.name = value
		default:
			s.report(d.pos, "", define.ErrDirective, "unknown argument %q", key)
		}
	}
	return ua
}

// roleTable maps parameter names to the role verbs of a function unit.
type roleTable map[string]roleEntry

type roleEntry struct {
	verb string
	pos  token.Pos
	used bool
}

// names returns the tagged names in directive order.
func (t roleTable) names() []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		if t[out[i]].pos != t[out[j]].pos {
			return t[out[i]].pos < t[out[j]].pos
		}
		return out[i] < out[j]
	})
	return out
}

func (s *source) parseRoles(dirs []directive) roleTable {
	roles := roleTable{}
	for _, d := range dirs {
		if d.verb == "unit" {
			continue
		}
		if _, err := define.ParseRole(d.verb); err != nil {
			s.report(d.pos, "", define.ErrUnknownRole,
				"directive //proc:%s; only unit, state, input and output are supported", d.verb)
			continue
		}
		if len(d.args) == 0 {
			s.report(d.pos, "", define.ErrDirective, "//proc:%s names no parameters", d.verb)
			continue
		}
		for _, name := range d.args {
			if prev, ok := roles[name]; ok {
				s.report(d.pos, name, define.ErrDirective, "%s is already tagged %s", name, prev.verb)
				continue
			}
			roles[name] = roleEntry{verb: d.verb, pos: d.pos}
		}
	}
	return roles
}
