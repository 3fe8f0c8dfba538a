package typeterm

import "sort"

// Union is an ordered, deduplicated set of type terms. The empty union
// denotes "no information" and never contradicts another type during
// propagation. Canonical order is part of the observable contract: the
// final symbol table is serialized as a Kythe fact, so two equivalent
// unions must render identically regardless of the order their members
// were discovered in.
type Union []Term

// Empty is the zero union, meaning "no information" / Any.
var Empty = Union(nil)

// Single builds a one-element union. A single term is already in
// canonical form, so no deduplication or sorting (see Make) is needed.
func Single(t Term) Union { return Union{t} }

// key renders the union's canonical form, used as a Term's own sort key
// when a union is nested inside another term (e.g. class bases).
func (u Union) key() string {
	s := ""
	for i, t := range u {
		if i > 0 {
			s += "|"
		}
		s += t.key()
	}
	return s
}

// String renders the union for diagnostics and the x-symtab snapshot.
func (u Union) String() string {
	if len(u) == 0 {
		return "{}"
	}
	s := "{"
	for i, t := range u {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s + "}"
}

// Make builds a canonical Union from an arbitrary slice of terms:
// duplicates (by structural equality) are removed and the result is
// sorted by each term's canonical key, mirroring the source's
// make_union, which dedupes via a set and sorts.
func Make(terms ...Term) Union {
	if len(terms) == 0 {
		return Empty
	}
	seen := make(map[string]bool, len(terms))
	out := make(Union, 0, len(terms))
	for _, t := range terms {
		k := t.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}

// Merge returns the canonical union of a and b's members, i.e. set
// union under structural equality, kept in canonical order.
func Merge(a, b Union) Union {
	combined := make([]Term, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return Make(combined...)
}

// Contains reports whether t is a member of u under structural equality.
func (u Union) Contains(t Term) bool {
	for _, m := range u {
		if m.Equal(t) {
			return true
		}
	}
	return false
}

// Subset reports whether every member of u is also a member of other —
// the ⊆ test the fixpoint driver uses to decide whether a registration
// attempt changes anything.
func (u Union) Subset(other Union) bool {
	for _, t := range u {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two canonical unions.
func (u Union) Equal(other Union) bool {
	if len(u) != len(other) {
		return false
	}
	for i := range u {
		if !u[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the union carries no information.
func (u Union) IsEmpty() bool { return len(u) == 0 }
