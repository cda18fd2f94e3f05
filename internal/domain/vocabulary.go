// Package domain contains the vocabulary model: words, the days they were
// learned on, the vocabulary aggregate and the quiz repeat log.
// It has no I/O apart from the text format codec and is imported by every
// other internal package.
package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Vocabulary is every Day of learning, ordered by ascending date.
// Dates are unique. Begin and End are the first and last stored dates; a date
// between them without a stored Day counts as an empty learning day.
type Vocabulary struct {
	days []Day
}

// DayMatch is one day's worth of search results.
type DayMatch struct {
	Date  time.Time
	Words []Word
}

// DayCount pairs a date with the number of words learned on it.
type DayCount struct {
	Date  time.Time
	Count int
}

// Statistics summarises learning pace over the whole vocabulary.
type Statistics struct {
	Begin    time.Time
	End      time.Time
	Duration int // days from Begin to End inclusive
	Total    int
	Average  int // Total / Duration, rounded down
	// EmptyDays counts the days in range without any learned word.
	EmptyDays int
	// WouldBeTotal projects Total had every empty day been learned at the Average rate.
	WouldBeTotal int
	Min          DayCount
	Max          DayCount
}

// NewVocabulary builds a Vocabulary from days.
// Returns ErrValidation when days is empty or two days share a date.
func NewVocabulary(days []Day) (*Vocabulary, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: vocabulary has no days", ErrValidation)
	}
	sorted := slices.Clone(days)
	slices.SortStableFunc(sorted, func(a, b Day) int { return a.Date.Compare(b.Date) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("%w: date %s appears twice", ErrValidation, FormatDate(sorted[i].Date))
		}
	}
	return &Vocabulary{days: sorted}, nil
}

// GroupByDate builds a Vocabulary from flat rows, as read from a relational
// store. Every word must carry a LearnedOn date.
func GroupByDate(words []Word) (*Vocabulary, error) {
	byDate := make(map[time.Time][]Word)
	for _, w := range words {
		if w.LearnedOn.IsZero() {
			return nil, fmt.Errorf("%w: word %q has no learn date", ErrValidation, w.Term)
		}
		d := Truncate(w.LearnedOn)
		byDate[d] = append(byDate[d], w)
	}
	days := make([]Day, 0, len(byDate))
	for d, ws := range byDate {
		days = append(days, NewDay(d, ws))
	}
	return NewVocabulary(days)
}

// Merge returns a new Vocabulary with words added. A word replaces a stored
// one with the same id on the same day; days that were stored empty are kept.
// v may be nil. Every word must carry a LearnedOn date.
func (v *Vocabulary) Merge(words ...Word) (*Vocabulary, error) {
	byDate := make(map[time.Time][]Word)
	if v != nil {
		for _, d := range v.days {
			byDate[d.Date] = slices.Clone(d.Words)
		}
	}
	for _, w := range words {
		if w.LearnedOn.IsZero() {
			return nil, fmt.Errorf("%w: word %q has no learn date", ErrValidation, w.Term)
		}
		d := Truncate(w.LearnedOn)
		day := byDate[d]
		if i := slices.IndexFunc(day, func(x Word) bool { return x.ID == w.ID }); i >= 0 {
			day[i] = w
		} else {
			day = append(day, w)
		}
		byDate[d] = day
	}
	days := make([]Day, 0, len(byDate))
	for d, ws := range byDate {
		days = append(days, NewDay(d, ws))
	}
	return NewVocabulary(days)
}

// Days returns the stored days in ascending order.
func (v *Vocabulary) Days() []Day { return slices.Clone(v.days) }

// Begin returns the first stored date.
func (v *Vocabulary) Begin() time.Time { return v.days[0].Date }

// End returns the last stored date.
func (v *Vocabulary) End() time.Time { return v.days[len(v.days)-1].Date }

// Count returns the total number of words.
func (v *Vocabulary) Count() int {
	n := 0
	for _, d := range v.days {
		n += d.Len()
	}
	return n
}

// Words returns every word in date order.
func (v *Vocabulary) Words() []Word {
	out := make([]Word, 0, v.Count())
	for _, d := range v.days {
		out = append(out, d.Words...)
	}
	return out
}

// Contains reports whether date lies within [Begin, End].
func (v *Vocabulary) Contains(date time.Time) bool {
	date = Truncate(date)
	return !date.Before(v.Begin()) && !date.After(v.End())
}

// Lookup returns the Day for date.
// A date inside [Begin, End] with nothing stored yields an empty Day.
// Returns ErrNotFound for a date outside that range.
func (v *Vocabulary) Lookup(date time.Time) (Day, error) {
	date = Truncate(date)
	if !v.Contains(date) {
		return Day{}, fmt.Errorf("%w: %s is outside %s-%s", ErrNotFound, FormatDate(date), FormatDate(v.Begin()), FormatDate(v.End()))
	}
	i := sort.Search(len(v.days), func(i int) bool { return !v.days[i].Date.Before(date) })
	if i < len(v.days) && v.days[i].Date.Equal(date) {
		return v.days[i], nil
	}
	return NewDay(date, nil), nil
}

// Range returns the stored days from start to stop inclusive.
// Returns ErrValidation when start is after stop and ErrNotFound when either
// bound is outside [Begin, End].
func (v *Vocabulary) Range(start, stop time.Time) ([]Day, error) {
	start, stop = Truncate(start), Truncate(stop)
	if start.After(stop) {
		return nil, fmt.Errorf("%w: range start %s is after stop %s", ErrValidation, FormatDate(start), FormatDate(stop))
	}
	if !v.Contains(start) || !v.Contains(stop) {
		return nil, fmt.Errorf("%w: range %s-%s exceeds %s-%s", ErrNotFound,
			FormatDate(start), FormatDate(stop), FormatDate(v.Begin()), FormatDate(v.End()))
	}
	var out []Day
	for _, d := range v.days {
		if !d.Date.Before(start) && !d.Date.After(stop) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Search returns, per day, the words matching term (see Word.Contains).
// Returns ErrValidation for an empty term and ErrNotFound when nothing matches.
func (v *Vocabulary) Search(term string) ([]DayMatch, error) {
	if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(term), DefinitionMarker)) == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}
	var out []DayMatch
	for _, d := range v.days {
		words, err := d.WordsWith(TermKey(term))
		if err != nil {
			return nil, err
		}
		if len(words) > 0 {
			out = append(out, DayMatch{Date: d.Date, Words: words})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q is not in the vocabulary", ErrNotFound, term)
	}
	return out, nil
}

// SearchByProperties returns every word carrying all of tags.
func (v *Vocabulary) SearchByProperties(tags ...string) ([]Word, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: at least one property is required", ErrValidation)
	}
	var out []Word
	for _, d := range v.days {
		for _, w := range d.Words {
			if w.Properties.HasAll(tags...) {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

// SearchByID returns every word whose id is among ids.
// Returns ErrValidation if any id is not IDLength characters long.
func (v *Vocabulary) SearchByID(ids ...string) ([]Word, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if len(id) != IDLength {
			return nil, fmt.Errorf("%w: word id %q must be %d characters", ErrValidation, id, IDLength)
		}
		set[id] = struct{}{}
	}
	var out []Word
	for _, d := range v.days {
		for _, w := range d.Words {
			if _, ok := set[w.ID]; ok {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

// Statistics computes the learning summary.
func (v *Vocabulary) Statistics() Statistics {
	s := Statistics{
		Begin:    v.Begin(),
		End:      v.End(),
		Duration: daysBetween(v.Begin(), v.End()) + 1,
		Total:    v.Count(),
	}
	s.Average = s.Total / s.Duration

	nonEmpty := 0
	for i, d := range v.days {
		if !d.IsEmpty() {
			nonEmpty++
		}
		dc := DayCount{Date: d.Date, Count: d.Len()}
		if i == 0 || dc.Count < s.Min.Count {
			s.Min = dc
		}
		if i == 0 || dc.Count > s.Max.Count {
			s.Max = dc
		}
	}
	s.EmptyDays = s.Duration - nonEmpty
	s.WouldBeTotal = s.Total + s.Average*s.EmptyDays
	return s
}

// DayCounts returns one entry per calendar day from Begin to End, including
// empty days, for charting.
func (v *Vocabulary) DayCounts() []DayCount {
	out := make([]DayCount, 0, daysBetween(v.Begin(), v.End())+1)
	i := 0
	for d := v.Begin(); !d.After(v.End()); d = d.AddDate(0, 0, 1) {
		c := DayCount{Date: d}
		if i < len(v.days) && v.days[i].Date.Equal(d) {
			c.Count = v.days[i].Len()
			i++
		}
		out = append(out, c)
	}
	return out
}

// GraphicName is the file name used for the learning-pace chart export.
func (v *Vocabulary) GraphicName() string {
	const layout = "02_01_2006"
	return fmt.Sprintf("vocabulary_%s-%s.png", v.Begin().Format(layout), v.End().Format(layout))
}

// nonEmptyDays returns the stored days with at least one word.
func (v *Vocabulary) nonEmptyDays() []Day {
	var out []Day
	for _, d := range v.days {
		if !d.IsEmpty() {
			out = append(out, d)
		}
	}
	return out
}
