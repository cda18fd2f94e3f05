package domain_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vocablog/internal/domain"
)

const sampleText = `[01.01.2020]
Get |ɡet| [Verb] – obtain;receive	получать
Apple [Noun] – a round fruit	яблоко
[/01.01.2020]

[03.01.2020]
Run – move fast	бежать
[/03.01.2020]
`

func sampleVocabulary(t *testing.T) *domain.Vocabulary {
	t.Helper()
	v, lints, err := domain.ParseVocabulary(strings.NewReader(sampleText))
	require.NoError(t, err)
	require.Empty(t, lints)
	return v
}

// ---- construction ----------------------------------------------------------

func TestNewVocabulary_SortsDays(t *testing.T) {
	v, err := domain.NewVocabulary([]domain.Day{
		domain.NewDay(date(2020, 1, 3), nil),
		domain.NewDay(date(2020, 1, 1), nil),
	})

	require.NoError(t, err)
	assert.Equal(t, date(2020, 1, 1), v.Begin())
	assert.Equal(t, date(2020, 1, 3), v.End())
}

func TestNewVocabulary_Empty(t *testing.T) {
	_, err := domain.NewVocabulary(nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewVocabulary_DuplicateDate(t *testing.T) {
	_, err := domain.NewVocabulary([]domain.Day{
		domain.NewDay(date(2020, 1, 1), nil),
		domain.NewDay(date(2020, 1, 1), nil),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGroupByDate(t *testing.T) {
	v, err := domain.GroupByDate([]domain.Word{
		mustWord(t, domain.WordFields{Term: "run", LearnedOn: date(2020, 1, 3)}),
		mustWord(t, domain.WordFields{Term: "get", LearnedOn: date(2020, 1, 1)}),
		mustWord(t, domain.WordFields{Term: "apple", LearnedOn: date(2020, 1, 1)}),
	})

	require.NoError(t, err)
	days := v.Days()
	require.Len(t, days, 2)
	assert.Equal(t, []string{"apple", "get"}, terms(days[0].Words))
	assert.Equal(t, 3, v.Count())
}

func TestGroupByDate_MissingDate(t *testing.T) {
	_, err := domain.GroupByDate([]domain.Word{mustWord(t, domain.WordFields{Term: "run"})})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Lookup / Range ---------------------------------------------------------

func TestVocabulary_Lookup_Stored(t *testing.T) {
	day, err := sampleVocabulary(t).Lookup(date(2020, 1, 1))

	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "get"}, terms(day.Words))
}

func TestVocabulary_Lookup_EmptyDayInRange(t *testing.T) {
	day, err := sampleVocabulary(t).Lookup(date(2020, 1, 2))

	require.NoError(t, err)
	assert.True(t, day.IsEmpty())
	assert.Equal(t, date(2020, 1, 2), day.Date)
}

func TestVocabulary_Lookup_OutOfRange(t *testing.T) {
	v := sampleVocabulary(t)

	_, err := v.Lookup(date(2019, 12, 31))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = v.Lookup(date(2020, 1, 4))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVocabulary_Range_Inclusive(t *testing.T) {
	days, err := sampleVocabulary(t).Range(date(2020, 1, 1), date(2020, 1, 3))

	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestVocabulary_Range_Errors(t *testing.T) {
	v := sampleVocabulary(t)

	_, err := v.Range(date(2020, 1, 3), date(2020, 1, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = v.Range(date(2020, 1, 1), date(2020, 2, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Search ----------------------------------------------------------------

func TestVocabulary_Search_Term(t *testing.T) {
	got, err := sampleVocabulary(t).Search("getting")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2020, 1, 1), got[0].Date)
	assert.Equal(t, []string{"get"}, terms(got[0].Words))
}

func TestVocabulary_Search_Definitions(t *testing.T) {
	v := sampleVocabulary(t)

	got, err := v.Search("!fruit")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, terms(got[0].Words))

	got, err = v.Search("бежать")
	require.NoError(t, err)
	assert.Equal(t, date(2020, 1, 3), got[0].Date)
}

func TestVocabulary_Search_NoMatch(t *testing.T) {
	_, err := sampleVocabulary(t).Search("zebra")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVocabulary_Search_Empty(t *testing.T) {
	v := sampleVocabulary(t)

	for _, term := range []string{"", "  ", "!"} {
		_, err := v.Search(term)
		assert.ErrorIs(t, err, domain.ErrValidation, term)
	}
}

func TestVocabulary_SearchByProperties(t *testing.T) {
	got, err := sampleVocabulary(t).SearchByProperties("NOUN")

	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, terms(got))

	_, err = sampleVocabulary(t).SearchByProperties()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVocabulary_SearchByID(t *testing.T) {
	v := sampleVocabulary(t)

	got, err := v.SearchByID(domain.Identifier("get"), domain.Identifier("missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{"get"}, terms(got))

	_, err = v.SearchByID("short")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Statistics ------------------------------------------------------------

func TestVocabulary_Statistics(t *testing.T) {
	s := sampleVocabulary(t).Statistics()

	assert.Equal(t, date(2020, 1, 1), s.Begin)
	assert.Equal(t, date(2020, 1, 3), s.End)
	assert.Equal(t, 3, s.Duration)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Average)
	assert.Equal(t, 1, s.EmptyDays)
	assert.Equal(t, 4, s.WouldBeTotal)
	assert.Equal(t, domain.DayCount{Date: date(2020, 1, 3), Count: 1}, s.Min)
	assert.Equal(t, domain.DayCount{Date: date(2020, 1, 1), Count: 2}, s.Max)
}

func TestVocabulary_DayCounts_IncludesGaps(t *testing.T) {
	got := sampleVocabulary(t).DayCounts()

	assert.Equal(t, []domain.DayCount{
		{Date: date(2020, 1, 1), Count: 2},
		{Date: date(2020, 1, 2), Count: 0},
		{Date: date(2020, 1, 3), Count: 1},
	}, got)
}

func TestVocabulary_GraphicName(t *testing.T) {
	assert.Equal(t, "vocabulary_01_01_2020-03_01_2020.png", sampleVocabulary(t).GraphicName())
}

// ---- text format -----------------------------------------------------------

func TestParseVocabulary_Errors(t *testing.T) {
	tests := map[string]string{
		"outside block":   "Run – move fast\n",
		"unclosed":        "[01.01.2020]\nRun – move fast\n",
		"wrong close":     "[01.01.2020]\nRun – move fast\n[/02.01.2020]\n",
		"nested open":     "[01.01.2020]\n[02.01.2020]\n",
		"bad line":        "[01.01.2020]\nRun move fast\n[/01.01.2020]\n",
		"no days":         "",
		"duplicate dates": "[01.01.2020]\n[/01.01.2020]\n[01.01.2020]\n[/01.01.2020]\n",
	}
	for name, text := range tests {
		_, _, err := domain.ParseVocabulary(strings.NewReader(text))
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestParseVocabulary_ReportsLineNumber(t *testing.T) {
	_, _, err := domain.ParseVocabulary(strings.NewReader("[01.01.2020]\n[/01.01.2020]\n\nstray\n"))

	assert.ErrorContains(t, err, "line 4")
}

func TestParseVocabulary_CollectsLints(t *testing.T) {
	_, lints, err := domain.ParseVocabulary(strings.NewReader("[01.01.2020]\nRun – to run.\n[/01.01.2020]\n"))

	require.NoError(t, err)
	assert.Len(t, lints, 2)
}

func TestWriteVocabulary_RoundTrip(t *testing.T) {
	v := sampleVocabulary(t)

	var buf bytes.Buffer
	require.NoError(t, domain.WriteVocabulary(&buf, v))

	again, _, err := domain.ParseVocabulary(&buf)
	require.NoError(t, err)
	assert.Equal(t, v.Days(), again.Days())
}

// ---- Merge -----------------------------------------------------------------

func TestVocabulary_Merge_ReplacesSameDayWord(t *testing.T) {
	v := sampleVocabulary(t)
	updated := mustWord(t, domain.WordFields{Term: "get", TargetDefs: []string{"fetch"}, LearnedOn: date(2020, 1, 1)})

	got, err := v.Merge(updated)

	require.NoError(t, err)
	assert.Equal(t, 3, got.Count())
	day, err := got.Lookup(date(2020, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch"}, day.Words[1].TargetDefs)
	// receiver is untouched
	day, err = v.Lookup(date(2020, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"obtain", "receive"}, day.Words[1].TargetDefs)
}

func TestVocabulary_Merge_NewDayAndEmptyDays(t *testing.T) {
	v, _, err := domain.ParseVocabulary(strings.NewReader("[01.01.2020]\n[/01.01.2020]\n"))
	require.NoError(t, err)

	got, err := v.Merge(mustWord(t, domain.WordFields{Term: "run", LearnedOn: date(2020, 1, 5)}))

	require.NoError(t, err)
	require.Len(t, got.Days(), 2)
	assert.True(t, got.Days()[0].IsEmpty())
	assert.Equal(t, date(2020, 1, 5), got.End())
}

func TestVocabulary_Merge_NilReceiver(t *testing.T) {
	var v *domain.Vocabulary

	got, err := v.Merge(mustWord(t, domain.WordFields{Term: "run", LearnedOn: date(2020, 1, 5)}))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count())

	_, err = v.Merge(mustWord(t, domain.WordFields{Term: "run"}))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
