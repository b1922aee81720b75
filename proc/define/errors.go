package define

import (
	"errors"
	"fmt"
	"go/token"

	"go.uber.org/multierr"
)

// Definition errors. Every Diagnostic unwraps to one of these.
var (
	ErrMissingRole   = errors.New("define: missing role tag")
	ErrUnknownRole   = errors.New("define: unknown role")
	ErrDuplicateEnv  = errors.New("define: duplicate environment parameter")
	ErrEnvShape      = errors.New("define: invalid environment parameter")
	ErrStateShape    = errors.New("define: state must be a mutable reference")
	ErrInputShape    = errors.New("define: input must be a read-only reference")
	ErrOutputShape   = errors.New("define: output must be a mutable reference")
	ErrFieldShape    = errors.New("define: field must be an owned value")
	ErrUnmappedType  = errors.New("define: type has no signal kind")
	ErrDuplicateName = errors.New("define: duplicate name")
	ErrUnnamed       = errors.New("define: unnamed parameter")
	ErrResult        = errors.New("define: transform must return nothing or error")
	ErrDirective     = errors.New("define: malformed directive")
)

// Diagnostic is one definition error at a source position.
type Diagnostic struct {
	Pos   token.Position
	Param string
	Err   error
	Msg   string
}

// Diagf returns a Diagnostic wrapping err.
func Diagf(pos token.Position, param string, err error, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Param: param, Err: err, Msg: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %v: %s", d.Pos, d.Err, d.Msg)
	}
	return fmt.Sprintf("%v: %s", d.Err, d.Msg)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics flattens an error returned by Parse into its diagnostics.
func Diagnostics(err error) []*Diagnostic {
	var out []*Diagnostic
	for _, e := range multierr.Errors(err) {
		var d *Diagnostic
		if errors.As(e, &d) {
			out = append(out, d)
		}
	}
	return out
}
