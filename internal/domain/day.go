package domain

import (
	"fmt"
	"slices"
	"time"
)

// Day groups the words learned on one calendar date.
// Words are kept sorted by Compare. A Day may be empty.
type Day struct {
	Date  time.Time
	Words []Word
}

// NewDay builds a Day holding a sorted copy of words.
func NewDay(date time.Time, words []Word) Day {
	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, Compare)
	return Day{Date: Truncate(date), Words: sorted}
}

// ParseDay parses each line of one dated block of the text store.
// Lints from every line are returned together; the first malformed line
// aborts with an error naming it.
func ParseDay(date time.Time, lines []string) (Day, []Lint, error) {
	words := make([]Word, 0, len(lines))
	var lints []Lint
	for _, line := range lines {
		w, l, err := ParseWord(line)
		if err != nil {
			return Day{}, nil, fmt.Errorf("domain.ParseDay %s: %w", FormatDate(date), err)
		}
		w.LearnedOn = Truncate(date)
		words = append(words, w)
		lints = append(lints, l...)
	}
	return NewDay(date, words), lints, nil
}

// Len returns the number of words on the day.
func (d Day) Len() int { return len(d.Words) }

// IsEmpty reports whether nothing was learned that day.
func (d Day) IsEmpty() bool { return len(d.Words) == 0 }

// SearchKey selects words within a Day. It is one of TermKey, WordKey or IndexKey.
type SearchKey interface {
	searchKey()
}

// TermKey matches words by Word.Contains.
type TermKey string

// WordKey matches words Equal to the given word.
type WordKey struct{ Word Word }

// IndexKey selects the word at a position of the sorted list.
type IndexKey int

func (TermKey) searchKey()  {}
func (WordKey) searchKey()  {}
func (IndexKey) searchKey() {}

// WordsWith returns the words selected by key.
// Returns ErrNotFound for an IndexKey outside the list and ErrValidation for
// an empty TermKey.
func (d Day) WordsWith(key SearchKey) ([]Word, error) {
	switch k := key.(type) {
	case TermKey:
		if NormalizeTerm(string(k)) == "" {
			return nil, fmt.Errorf("%w: search term is required", ErrValidation)
		}
		var out []Word
		for _, w := range d.Words {
			if w.Contains(string(k)) {
				out = append(out, w)
			}
		}
		return out, nil
	case WordKey:
		var out []Word
		for _, w := range d.Words {
			if w.Equal(k.Word) {
				out = append(out, w)
			}
		}
		return out, nil
	case IndexKey:
		i := int(k)
		if i < 0 {
			i += len(d.Words)
		}
		if i < 0 || i >= len(d.Words) {
			return nil, fmt.Errorf("%w: index %d on %s", ErrNotFound, int(k), FormatDate(d.Date))
		}
		return []Word{d.Words[i]}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported search key %T", ErrValidation, key)
	}
}

// Slice returns a Day holding Words[start:stop].
// The result keeps the original date even though it is only a subset of
// that day's words.
func (d Day) Slice(start, stop int) (Day, error) {
	if start < 0 || stop > len(d.Words) || start > stop {
		return Day{}, fmt.Errorf("%w: slice [%d:%d] of %d words", ErrValidation, start, stop, len(d.Words))
	}
	return NewDay(d.Date, d.Words[start:stop]), nil
}
