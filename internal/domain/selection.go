package domain

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

// Selection picks the days a quiz session draws its words from.
// Any mix of fields may be set.
type Selection struct {
	// Offsets count back over non-empty days: 1 is the most recent one.
	Offsets []int
	// Dates are explicit days; each must lie within the vocabulary range.
	Dates []time.Time
	// Random samples that many distinct non-empty days.
	Random int
	// MostDifficult adds the hardest words of the repeat log.
	MostDifficult int
}

// IsEmpty reports whether no selector is set.
func (s Selection) IsEmpty() bool {
	return len(s.Offsets) == 0 && len(s.Dates) == 0 && s.Random == 0 && s.MostDifficult == 0
}

// QuizSet is the deduplicated word pool for one quiz session.
type QuizSet struct {
	Title string
	Dates []time.Time
	Words []Word
}

// Select gathers the words for a quiz session.
// log is consulted only for MostDifficult; rng only for Random.
// Returns ErrValidation for bad selectors or an empty result and ErrNotFound
// for dates outside the vocabulary.
func (v *Vocabulary) Select(sel Selection, log RepeatLog, rng *rand.Rand) (QuizSet, error) {
	if sel.IsEmpty() {
		return QuizSet{}, fmt.Errorf("%w: nothing selected", ErrValidation)
	}
	if sel.Random < 0 || sel.MostDifficult < 0 {
		return QuizSet{}, fmt.Errorf("%w: counts must not be negative", ErrValidation)
	}

	nonEmpty := v.nonEmptyDays()
	var days []Day
	for _, off := range sel.Offsets {
		if off < 1 || off > len(nonEmpty) {
			return QuizSet{}, fmt.Errorf("%w: offset %d outside 1..%d", ErrValidation, off, len(nonEmpty))
		}
		days = append(days, nonEmpty[len(nonEmpty)-off])
	}
	for _, date := range sel.Dates {
		d, err := v.Lookup(date)
		if err != nil {
			return QuizSet{}, err
		}
		days = append(days, d)
	}
	if sel.Random > 0 {
		perm := rand.Perm
		if rng != nil {
			perm = rng.Perm
		}
		for _, i := range perm(len(nonEmpty))[:min(sel.Random, len(nonEmpty))] {
			days = append(days, nonEmpty[i])
		}
	}

	var difficult []Word
	if sel.MostDifficult > 0 {
		ids := log.MostDifficult(sel.MostDifficult)
		if len(ids) > 0 {
			found, err := v.SearchByID(ids...)
			if err != nil {
				return QuizSet{}, err
			}
			difficult = found
		}
	}

	set := QuizSet{}
	seen := make(map[string]struct{})
	add := func(w Word) {
		key := w.Term + "\x00" + w.Properties.sortKey()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		set.Words = append(set.Words, w)
	}
	for _, d := range days {
		if !slices.ContainsFunc(set.Dates, d.Date.Equal) {
			set.Dates = append(set.Dates, d.Date)
		}
		for _, w := range d.Words {
			add(w)
		}
	}
	for _, w := range difficult {
		add(w)
	}
	if len(set.Words) == 0 {
		return QuizSet{}, fmt.Errorf("%w: selection holds no words", ErrValidation)
	}

	slices.SortFunc(set.Dates, time.Time.Compare)
	set.Title = quizTitle(set.Dates, sel.MostDifficult)
	return set, nil
}

func quizTitle(dates []time.Time, difficult int) string {
	var title string
	switch len(dates) {
	case 0:
	case 1:
		title = FormatDate(dates[0])
	default:
		title = fmt.Sprintf("%s-%s, %d days", FormatDate(dates[0]), FormatDate(dates[len(dates)-1]), len(dates))
	}
	if difficult > 0 {
		if title == "" {
			return fmt.Sprintf("%d most difficult words", difficult)
		}
		title += fmt.Sprintf(" + %d most difficult", difficult)
	}
	return title
}
