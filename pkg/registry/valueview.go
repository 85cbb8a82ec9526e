package registry

import "github.com/walteh/gotmpl/pkg/value"

// ValueView is the fast-path argument/result slot (spec §4.4): either a
// borrow into data the caller still owns, or a value this call owns
// outright. Go's Value type is itself cheap to copy (arrays/maps already
// share backing storage through slices and *OrderedMap), so Borrow and Own
// exist to keep the calling convention distinct in the API even though
// both resolve to the same representation today — the borrow is the seam
// a future zero-copy implementation would widen.
type ValueView struct {
	borrowed *value.Value
	owned    value.Value
	borrow   bool
}

// Borrow wraps a reference to data the caller retains ownership of.
func Borrow(v *value.Value) ValueView {
	return ValueView{borrowed: v, borrow: true}
}

// Own wraps a value this call exclusively owns.
func Own(v value.Value) ValueView {
	return ValueView{owned: v}
}

// Value materializes the underlying Value regardless of which convention
// constructed this view.
func (v ValueView) Value() value.Value {
	if v.borrow {
		if v.borrowed == nil {
			return value.Null()
		}
		return *v.borrowed
	}
	return v.owned
}
