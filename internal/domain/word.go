package domain

import (
	"cmp"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

const (
	// Delimiter separates the headword part of a line from its definitions.
	Delimiter = " – "

	// DefinitionMarker prefixes a search token that must be looked up in the
	// definitions instead of the headword, e.g. "!obtain".
	DefinitionMarker = "!"

	// IDLength is the length of a word identifier.
	IDLength = 16

	defSeparator = ";"
)

// Word is a single vocabulary entry.
// ID is derived from Term alone, so entries for the same headword share it
// even when their definitions differ.
// LearnedOn is zero for words that are not yet assigned to a day.
type Word struct {
	ID            string
	Term          string
	Transcription string
	Properties    Properties
	TargetDefs    []string
	NativeDefs    []string
	LearnedOn     time.Time
}

// WordFields carries the raw values NewWord normalises.
type WordFields struct {
	Term          string
	Transcription string
	Properties    Properties
	TargetDefs    []string
	NativeDefs    []string
	LearnedOn     time.Time
}

// Lint is a non-fatal data-quality finding produced while parsing a line.
type Lint struct {
	Term    string
	Message string
}

func (l Lint) String() string { return l.Term + ": " + l.Message }

// NewWord builds a Word from explicit fields.
// Returns ErrValidation when the term is empty after normalisation.
func NewWord(f WordFields) (Word, error) {
	term := NormalizeTerm(f.Term)
	if term == "" {
		return Word{}, fmt.Errorf("%w: term is required", ErrValidation)
	}
	w := Word{
		ID:            Identifier(term),
		Term:          term,
		Transcription: strings.TrimSpace(strings.ReplaceAll(f.Transcription, "|", "")),
		Properties:    f.Properties,
		TargetDefs:    cleanDefs(f.TargetDefs),
		NativeDefs:    cleanDefs(f.NativeDefs),
	}
	if !f.LearnedOn.IsZero() {
		w.LearnedOn = Truncate(f.LearnedOn)
	}
	return w, nil
}

// ParseWord builds a Word from one line of the text store:
//
//	Term |transcription| [Prop1, Prop2] – target1;target2<TAB>native1;native2
//
// Transcription and properties are optional. Target and native definitions
// are separated by the first TAB. Lines without a TAB are split at the first
// Cyrillic character instead: everything before it is target-language text,
// the rest native-language text.
func ParseWord(line string) (Word, []Lint, error) {
	left, right, ok := strings.Cut(line, Delimiter)
	if !ok {
		return Word{}, nil, fmt.Errorf("%w: line %q has no %q delimiter", ErrValidation, line, strings.TrimSpace(Delimiter))
	}

	var props Properties
	if i := strings.Index(left, "["); i >= 0 {
		raw := left[i:]
		if j := strings.Index(raw, "]"); j >= 0 {
			raw = raw[:j+1]
		}
		props = ParseProperties(raw)
		left = left[:i]
	}

	var transcription string
	if strings.Count(left, "|") == 2 {
		i := strings.Index(left, "|")
		j := strings.LastIndex(left, "|")
		transcription = left[i+1 : j]
		left = left[:i] + left[j+1:]
	}

	var target, native []string
	if t, n, ok := strings.Cut(right, "\t"); ok {
		target = splitDefs(t)
		native = splitDefs(n)
	} else if i := indexCyrillic(right); i >= 0 {
		target = splitDefs(right[:i])
		native = splitDefs(right[i:])
	} else {
		target = splitDefs(right)
	}

	w, err := NewWord(WordFields{
		Term:          left,
		Transcription: transcription,
		Properties:    props,
		TargetDefs:    target,
		NativeDefs:    native,
	})
	if err != nil {
		return Word{}, nil, err
	}
	return w, w.lint(), nil
}

// lint reports definitions that repeat the headword or contain a stray period.
func (w Word) lint() []Lint {
	var out []Lint
	for _, d := range w.TargetDefs {
		if strings.Contains(strings.ToLower(d), w.Term) {
			out = append(out, Lint{Term: w.Term, Message: fmt.Sprintf("headword appears in its own definition %q", d)})
		}
	}
	for _, d := range append(append([]string(nil), w.TargetDefs...), w.NativeDefs...) {
		if strings.Contains(d, ".") {
			out = append(out, Lint{Term: w.Term, Message: fmt.Sprintf("definition %q contains a period", d)})
		}
	}
	return out
}

// Identifier returns the first 8 and last 8 hex characters of the SHA3-512
// digest of term. An empty term has an empty identifier.
func Identifier(term string) string {
	if term == "" {
		return ""
	}
	sum := sha3.Sum512([]byte(term))
	h := hex.EncodeToString(sum[:])
	return h[:8] + h[len(h)-8:]
}

// NormalizeTerm lowercases, trims and NFC-normalises a headword and collapses
// inner whitespace.
func NormalizeTerm(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(strings.ToLower(s)), " "))
}

// IsZero reports whether w is the empty Word used as the identity for Combine.
func (w Word) IsZero() bool { return w.Term == "" }

// Equal reports whether both words have the same term and properties.
// Definitions are not compared.
func (w Word) Equal(other Word) bool {
	return w.Term == other.Term && w.Properties.Equal(other.Properties)
}

// MatchesTerm reports whether s names this word's term.
func (w Word) MatchesTerm(s string) bool {
	return w.Term == NormalizeTerm(s)
}

// Compare orders words by term and then by their sorted property tags, which
// makes it a strict total order usable with slices.SortFunc.
func Compare(a, b Word) int {
	if c := cmp.Compare(a.Term, b.Term); c != 0 {
		return c
	}
	return cmp.Compare(a.Properties.sortKey(), b.Properties.sortKey())
}

// Combine merges two entries for the same headword, e.g. two spreadsheet rows
// carrying different single definitions. Either side may be the zero Word.
// The definitions of b come first. Transcription and learn date are taken from
// a, falling back to b when a has none.
func Combine(a, b Word) (Word, error) {
	if !a.IsZero() && !b.IsZero() && a.Term != b.Term {
		return Word{}, fmt.Errorf("%w: operator demands equal words, got %q and %q", ErrValidation, a.Term, b.Term)
	}
	term := max(a.Term, b.Term)
	transcription := cmp.Or(a.Transcription, b.Transcription)
	learned := a.LearnedOn
	if learned.IsZero() {
		learned = b.LearnedOn
	}
	return Word{
		ID:            Identifier(term),
		Term:          term,
		Transcription: transcription,
		Properties:    b.Properties.Union(a.Properties),
		TargetDefs:    concat(b.TargetDefs, a.TargetDefs),
		NativeDefs:    concat(b.NativeDefs, a.NativeDefs),
		LearnedOn:     learned,
	}, nil
}

// Contains reports whether a search token matches this word.
//
// A token starting with DefinitionMarker, or containing Cyrillic letters, is
// looked up in the definitions: native ones for Cyrillic tokens, target ones
// otherwise. Any other token matches when it is a substring of the term or the
// term is a substring of it, which catches inflected forms.
func (w Word) Contains(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	marked := strings.HasPrefix(token, DefinitionMarker)
	token = strings.TrimSpace(strings.TrimPrefix(token, DefinitionMarker))
	if token == "" || w.IsZero() {
		return false
	}

	if marked || indexCyrillic(token) >= 0 {
		defs := w.TargetDefs
		if indexCyrillic(token) >= 0 {
			defs = w.NativeDefs
		}
		for _, d := range defs {
			if strings.Contains(strings.ToLower(d), token) {
				return true
			}
		}
		return false
	}
	return strings.Contains(w.Term, token) || strings.Contains(token, w.Term)
}

// Render formats the word as one line of the text store.
// The zero Word renders as "".
func (w Word) Render() string {
	if w.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(capitalize(w.Term))
	if w.Transcription != "" {
		b.WriteString(" |" + w.Transcription + "|")
	}
	if !w.Properties.IsEmpty() {
		b.WriteString(" " + w.Properties.String())
	}
	b.WriteString(Delimiter)
	b.WriteString(strings.Join(w.TargetDefs, defSeparator))
	if len(w.NativeDefs) > 0 {
		b.WriteString("\t" + strings.Join(w.NativeDefs, defSeparator))
	}
	return b.String()
}

// JoinDefs joins definitions the way both stores persist them.
func JoinDefs(defs []string) string { return strings.Join(defs, defSeparator) }

// SplitDefs is the inverse of JoinDefs; empty parts are dropped.
func SplitDefs(s string) []string { return splitDefs(s) }

// Capitalize upper-cases the first letter of s.
// Returns ErrValidation for an empty or blank string.
func Capitalize(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: cannot capitalize an empty word", ErrValidation)
	}
	return capitalize(s), nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func indexCyrillic(s string) int {
	return strings.IndexFunc(s, func(r rune) bool { return unicode.Is(unicode.Cyrillic, r) })
}

func splitDefs(s string) []string {
	return cleanDefs([]string{s})
}

// cleanDefs trims the definitions and drops empty ones. A definition holding
// the separator is split, since the stores could not tell it apart from two.
func cleanDefs(defs []string) []string {
	out := make([]string, 0, len(defs))
	for _, def := range defs {
		for _, d := range strings.Split(def, defSeparator) {
			if d = strings.TrimSpace(d); d != "" {
				out = append(out, d)
			}
		}
	}
	return out
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
