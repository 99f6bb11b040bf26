package fact

import "encoding/json"

// ValuesEqual reports whether a and b are structurally identical, compared
// via canonical JSON serialisation as §4.4 step 4 requires. Values of
// different discriminants are never equal. Field order is fixed by each
// struct's declaration, so two values of the same concrete type marshal
// identically iff their fields are identical — including pointer fields,
// which json.Marshal dereferences rather than comparing by address.
func ValuesEqual(a, b Value) bool {
	if a.Discriminant() != b.Discriminant() {
		return false
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
