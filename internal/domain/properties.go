package domain

import (
	"slices"
	"strings"
)

// Properties is an ordered, deduplicated set of lowercase tags describing a
// word: part of speech, register and the like.
// The zero value is an empty set. Properties are never mutated after
// construction; Union returns a new value.
type Properties struct {
	tags []string
}

// ParseProperties builds Properties from the bracketed form used in the text
// store, e.g. "[Noun, Formal]". Brackets are optional.
func ParseProperties(raw string) Properties {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	return NewProperties(strings.Split(raw, ","))
}

// NewProperties builds Properties from a list of tags.
// Tags are trimmed and lowercased; empty tags and repeats are dropped while
// the first-seen order is kept.
func NewProperties(tags []string) Properties {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return Properties{tags: out}
}

// Tags returns a copy of the tags in their stored order.
func (p Properties) Tags() []string {
	return append([]string(nil), p.tags...)
}

// Len returns the number of tags.
func (p Properties) Len() int { return len(p.tags) }

// IsEmpty reports whether there are no tags.
func (p Properties) IsEmpty() bool { return len(p.tags) == 0 }

// Has reports whether tag is one of the properties, ignoring case.
func (p Properties) Has(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range p.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAll reports whether every given tag is present.
func (p Properties) HasAll(tags ...string) bool {
	for _, t := range tags {
		if !p.Has(t) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same tags, regardless of order.
func (p Properties) Equal(other Properties) bool {
	if len(p.tags) != len(other.tags) {
		return false
	}
	for _, t := range other.tags {
		if !p.Has(t) {
			return false
		}
	}
	return true
}

// Union returns the tags of p followed by the tags of other.
// The result is deduplicated like any other constructed Properties.
func (p Properties) Union(other Properties) Properties {
	all := make([]string, 0, len(p.tags)+len(other.tags))
	all = append(all, p.tags...)
	all = append(all, other.tags...)
	return NewProperties(all)
}

// String renders the bracketed store form with every tag capitalized,
// e.g. "[Noun, Formal]". Empty Properties render as "".
func (p Properties) String() string {
	if len(p.tags) == 0 {
		return ""
	}
	parts := make([]string, len(p.tags))
	for i, t := range p.tags {
		parts[i] = capitalize(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// sortKey is a canonical, order-independent form used to tie-break word ordering.
func (p Properties) sortKey() string {
	tags := p.Tags()
	slices.Sort(tags)
	return strings.Join(tags, ",")
}
