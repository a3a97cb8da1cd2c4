package selection

import "sort"

// Set is a set of string keys. Treat it as immutable: Toggle returns a new Set.
type Set map[string]struct{}

// NewSet builds a set from keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Toggle returns a copy of s with key removed if present, added otherwise.
// s is never modified, so Toggle(Toggle(s, k), k) equals s.
func Toggle(s Set, key string) Set {
	out := make(Set, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	if _, ok := out[key]; ok {
		delete(out, key)
	} else {
		out[key] = struct{}{}
	}
	return out
}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Set) Len() int { return len(s) }

// Keys returns the members sorted.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether s and o hold the same keys.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// State is the selection state of one viewing session.
type State struct {
	Bought        Set
	CompletedDays Set
}

// ToggleBought returns st with item's bought flag flipped.
func (st State) ToggleBought(item string) State {
	st.Bought = Toggle(st.Bought, item)
	return st
}

// ToggleCompletedDay returns st with day's completion flag flipped.
func (st State) ToggleCompletedDay(day string) State {
	st.CompletedDays = Toggle(st.CompletedDays, day)
	return st
}
