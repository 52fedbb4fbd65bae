package errcode

// Code is a stable, machine-readable configuration error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Geometry and ranges
	GeometryOutOfBounds Code = "geometry_out_of_bounds"
	DegenerateRange     Code = "degenerate_range"

	// Electrical parameters
	InvalidPin       Code = "invalid_pin"
	InvalidFrequency Code = "invalid_frequency"
	InvalidParams    Code = "invalid_params"

	// Wiring lifecycle
	OutOfOrder    Code = "out_of_order"
	AlreadySealed Code = "already_sealed"

	Unsupported Code = "unsupported"

	Error Code = "error" // generic fallback
)

// E carries a Code together with the failing operation and a short detail.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

// New returns an *E for op with a detail message.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is makes errors.Is(err, errcode.X) match on the code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
