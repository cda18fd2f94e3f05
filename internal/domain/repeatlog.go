package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// RepeatLog tracks quiz mistakes: for each word id, how many times each wrong
// choice (by word id) was picked for it.
// It is persisted as a JSON object of the same shape.
type RepeatLog map[string]map[string]int

// Difficulty is a word id with its difficulty score.
type Difficulty struct {
	ID    string
	Score int
}

// Record counts one pick of wrongID while wordID was being asked.
// Returns ErrValidation for malformed ids or when both ids are equal.
func (l RepeatLog) Record(wordID, wrongID string) error {
	if len(wordID) != IDLength || len(wrongID) != IDLength {
		return fmt.Errorf("%w: repeat log ids must be %d characters", ErrValidation, IDLength)
	}
	if wordID == wrongID {
		return fmt.Errorf("%w: a word cannot be its own wrong answer", ErrValidation)
	}
	if l[wordID] == nil {
		l[wordID] = make(map[string]int)
	}
	l[wordID][wrongID]++
	return nil
}

// Clone returns a deep copy.
func (l RepeatLog) Clone() RepeatLog {
	out := make(RepeatLog, len(l))
	for id, wrongs := range l {
		m := make(map[string]int, len(wrongs))
		for w, c := range wrongs {
			m[w] = c
		}
		out[id] = m
	}
	return out
}

// Scores returns the difficulty of every word mentioned in the log.
// A word scores the number of distinct wrong answers logged for it plus their
// total count, and one more point for every other word whose quiz it spoiled
// more than once as the wrong answer.
func (l RepeatLog) Scores() map[string]int {
	scores := make(map[string]int, len(l))
	for id, wrongs := range l {
		scores[id] += len(wrongs)
		for _, c := range wrongs {
			scores[id] += c
		}
	}
	for id, wrongs := range l {
		for wrong, c := range wrongs {
			if c > 1 && wrong != id {
				scores[wrong]++
			}
		}
	}
	return scores
}

// Ranking returns every scored word by descending difficulty, ties by id.
func (l RepeatLog) Ranking() []Difficulty {
	scores := l.Scores()
	out := make([]Difficulty, 0, len(scores))
	for id, s := range scores {
		out = append(out, Difficulty{ID: id, Score: s})
	}
	slices.SortFunc(out, func(a, b Difficulty) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// MostDifficult returns the ids of the n hardest words.
func (l RepeatLog) MostDifficult(n int) []string {
	ranking := l.Ranking()
	if n < len(ranking) {
		ranking = ranking[:max(n, 0)]
	}
	ids := make([]string, len(ranking))
	for i, d := range ranking {
		ids[i] = d.ID
	}
	return ids
}
