package models

// IDSet is a set of entity IDs stored as a JSON column. Order is not
// significant. Add and Remove are idempotent, so replaying a mutation
// converges to the same state instead of duplicating references.
type IDSet []uint64

// Contains reports whether id is in the set.
func (s IDSet) Contains(id uint64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id included.
func (s IDSet) Add(id uint64) IDSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set with id excluded.
func (s IDSet) Remove(id uint64) IDSet {
	for i, v := range s {
		if v == id {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

// Diff returns the elements of s that are not in other.
func (s IDSet) Diff(other IDSet) IDSet {
	var out IDSet
	for _, v := range s {
		if !other.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Dedup removes duplicate values while keeping first occurrences.
func (s IDSet) Dedup() IDSet {
	seen := make(map[uint64]struct{}, len(s))
	out := make(IDSet, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
