package enums

import (
	"fmt"
	"slices"
)

func contains[T ~string](valid []T, value T) bool {
	return slices.Contains(valid, value)
}

func parse[T ~string](valid []T, value, kind string) (T, error) {
	for _, candidate := range valid {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q", kind, value)
}

// Values returns the canonical values as strings, in declaration order. Used
// for validation messages.
func Values[T ~string](valid []T) []string {
	out := make([]string, 0, len(valid))
	for _, v := range valid {
		out = append(out, string(v))
	}
	return out
}

// transitions maps a state to the states reachable from it.
type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	next, ok := t[from]
	if !ok {
		return false
	}
	return slices.Contains(next, to)
}
