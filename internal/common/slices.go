package common

import (
	"cmp"
	"slices"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// Multiplicity describes how many candidates a lookup produced.
type Multiplicity int

const (
	None Multiplicity = iota
	Single
	Multiple
)

// String returns a human-readable multiplicity name.
func (m Multiplicity) String() string {
	switch m {
	case None:
		return "none"
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return UnknownStr
	}
}

// MultiplicityOf classifies a slice by its length.
func MultiplicityOf[S ~[]E, E any](s S) Multiplicity {
	switch len(s) {
	case 0:
		return None
	case 1:
		return Single
	default:
		return Multiple
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// InRange reports whether lo <= v <= hi.
func InRange[T number](lo, v, hi T) bool {
	return lo <= v && v <= hi
}
