// Package registry implements the frozen helper name→callable map (spec
// §4.4): a Builder aggregates registrations and duplicate-name errors, then
// yields an immutable Registry cheaply shareable across concurrent renders.
package registry

import (
	"sort"

	"go.uber.org/multierr"

	"github.com/walteh/gotmpl/pkg/value"
)

// Caller is the re-entrance surface a helper receives so that e.g. `call`
// can dispatch back into the registry without this package importing the
// evaluator (which in turn imports this package to resolve helper calls).
type Caller interface {
	Call(name string, args []value.Value) (value.Value, error)
}

// SlowFunc is the baseline calling convention: plain owned Values in,
// a Value or render error out.
type SlowFunc func(caller Caller, args []value.Value) (value.Value, error)

// FastFunc is the borrow-aware convention (spec §4.4 "fast path"):
// semantically identical to SlowFunc, just expressed over ValueView so a
// future zero-copy implementation has somewhere to land.
type FastFunc func(caller Caller, args []ValueView) (ValueView, error)

type binding struct {
	name string
	slow SlowFunc
	fast FastFunc
}

// Builder accumulates helper registrations. Registering the same name
// twice under the *same* calling convention is a duplicate-registration
// error; registering a name once under each convention is allowed (the
// fast one wins at call time).
type Builder struct {
	bindings map[string]*binding
	order    []string
	dupErrs  []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{bindings: make(map[string]*binding)}
}

// Register adds (or extends) name with the slow calling convention.
func (b *Builder) Register(name string, fn SlowFunc) *Builder {
	bd := b.entry(name)
	if bd.slow != nil {
		b.dupErrs = append(b.dupErrs, duplicateError(name, "slow"))
		return b
	}
	bd.slow = fn
	return b
}

// RegisterFast adds (or extends) name with the fast calling convention.
func (b *Builder) RegisterFast(name string, fn FastFunc) *Builder {
	bd := b.entry(name)
	if bd.fast != nil {
		b.dupErrs = append(b.dupErrs, duplicateError(name, "fast"))
		return b
	}
	bd.fast = fn
	return b
}

func (b *Builder) entry(name string) *binding {
	bd, ok := b.bindings[name]
	if !ok {
		bd = &binding{name: name}
		b.bindings[name] = bd
		b.order = append(b.order, name)
	}
	return bd
}

// Build freezes the builder into a Registry. All duplicate-registration
// errors accumulated across the builder's lifetime are combined via
// multierr rather than surfacing only the first one.
func (b *Builder) Build() (*Registry, error) {
	if len(b.dupErrs) > 0 {
		return nil, multierr.Combine(b.dupErrs...)
	}
	frozen := make(map[string]*binding, len(b.bindings))
	for k, v := range b.bindings {
		frozen[k] = v
	}
	return &Registry{bindings: frozen}, nil
}

// Registry is an immutable name→callable map. Nothing mutates it after
// Build, which is what makes sharing it across concurrent renders safe.
type Registry struct {
	bindings map[string]*binding
}

// Has reports whether name is a registered helper.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.bindings[name]
	return ok
}

// Names returns every registered helper name, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.bindings))
	for k := range r.bindings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Call invokes the named helper: the fast convention is preferred when
// registered, with each arg wrapped as an owned ValueView; otherwise the
// slow function is called with args as they are (spec §4.4). Both
// conventions receive the same caller. Call itself never constructs the "unknown
// function" error — that belongs to the evaluator, which knows whether
// this is a command-target lookup versus a scope lookup.
func (r *Registry) Call(caller Caller, name string, args []value.Value) (value.Value, error) {
	bd, ok := r.bindings[name]
	if !ok {
		return value.Null(), duplicateError(name, "unregistered")
	}
	if bd.fast != nil {
		views := make([]ValueView, len(args))
		for i, a := range args {
			views[i] = Own(a)
		}
		out, err := bd.fast(caller, views)
		if err != nil {
			return value.Null(), err
		}
		return out.Value(), nil
	}
	return bd.slow(caller, args)
}

func duplicateError(name, kind string) error {
	switch kind {
	case "unregistered":
		return &CallError{Name: name, Msg: "helper not registered"}
	default:
		return &CallError{Name: name, Msg: "helper already registered (" + kind + ")"}
	}
}

// CallError names the offending helper so builder/call failures read the
// same way render errors do (spec §6: "each with the helper name").
type CallError struct {
	Name string
	Msg  string
}

func (e *CallError) Error() string { return e.Msg + ": " + e.Name }
