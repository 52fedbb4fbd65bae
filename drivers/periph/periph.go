// Package periph holds what every display peripheral shares: the
// configuration capability set and the seal latch used by the assembly.
package periph

import "displaycode-go/errcode"

// Configurable is the capability set of a peripheral kind: read the
// committed config, or validate and commit a new one atomically.
type Configurable[C any] interface {
	Config() C
	Configure(cfg C) error
}

// Latch rejects configuration while the owning assembly is sealed.
// The zero value is open.
type Latch struct {
	sealed bool
}

func (l *Latch) Seal()   { l.sealed = true }
func (l *Latch) Unseal() { l.sealed = false }

// Sealed reports whether Configure must be refused.
func (l *Latch) Sealed() bool { return l.sealed }

// Check returns AlreadySealed for op when the latch is closed.
func (l *Latch) Check(op string) error {
	if l.sealed {
		return errcode.New(errcode.AlreadySealed, op, "")
	}
	return nil
}

// Sealer is implemented by every peripheral through an embedded Latch.
type Sealer interface {
	Seal()
	Unseal()
	Sealed() bool
}
