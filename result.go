package belso

import (
	"fmt"
	"strings"
	"sync"
)

// Outcome classifies how an encode or decode finished.
type Outcome int

const (
	// OK means the input was translated without loss.
	OK Outcome = iota
	// Degraded means the translation succeeded but dropped information; see
	// Result.Warnings.
	Degraded
	// Fallback means the translation failed and Result.Value holds the
	// fallback placeholder; see Result.Cause.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Degraded:
		return "degraded"
	case Fallback:
		return "fallback"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is the explicit outcome of every encode and decode. A Fallback result
// is still a usable value.
type Result[T any] struct {
	Value    T
	Outcome  Outcome
	Warnings []string
	Cause    error
}

// Ok reports whether the translation was lossless.
func (r Result[T]) Ok() bool { return r.Outcome == OK }

// IsFallback reports whether Value is the fallback placeholder.
func (r Result[T]) IsFallback() bool { return r.Outcome == Fallback }

// Done builds a Result from a value and the warnings gathered in d. The
// outcome is Degraded when d holds at least one warning.
func Done[T any](v T, d *Diag) Result[T] {
	w := d.Warnings()
	out := OK
	if len(w) > 0 {
		out = Degraded
	}
	return Result[T]{Value: v, Outcome: out, Warnings: w}
}

// Failed builds a Fallback Result carrying the placeholder v and its cause.
// The failure is logged at error level.
func Failed[T any](v T, d *Diag, cause error) Result[T] {
	Logger().Error("translation failed, using fallback", "err", cause)
	return Result[T]{Value: v, Outcome: Fallback, Warnings: d.Warnings(), Cause: cause}
}

// Map converts the value of r while keeping its outcome, warnings and cause.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	return Result[U]{Value: f(r.Value), Outcome: r.Outcome, Warnings: r.Warnings, Cause: r.Cause}
}

// Diag collects non-fatal warnings raised while building or translating a
// schema. Every warning is also logged at warn level. The zero value is ready
// to use and a nil *Diag only logs.
type Diag struct {
	mu       sync.Mutex
	scope    string
	warnings []string
}

// NewDiag returns a Diag whose log records carry the given scope (for example
// the dialect name).
func NewDiag(scope string) *Diag { return &Diag{scope: scope} }

// Warnf records a formatted warning.
func (d *Diag) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	scope := ""
	if d != nil {
		scope = d.scope
	}
	if scope != "" {
		Logger().Warn(msg, "scope", scope)
	} else {
		Logger().Warn(msg)
	}
	if d == nil {
		return
	}
	d.mu.Lock()
	d.warnings = append(d.warnings, msg)
	d.mu.Unlock()
}

// Warnings returns a copy of the recorded warnings.
func (d *Diag) Warnings() []string {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.warnings) == 0 {
		return nil
	}
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Len returns the number of recorded warnings.
func (d *Diag) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}

func (d *Diag) String() string { return strings.Join(d.Warnings(), "; ") }
