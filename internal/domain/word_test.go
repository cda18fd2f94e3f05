package domain_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vocablog/internal/domain"
)

// ---- helpers ---------------------------------------------------------------

func mustWord(t *testing.T, f domain.WordFields) domain.Word {
	t.Helper()
	w, err := domain.NewWord(f)
	require.NoError(t, err)
	return w
}

func mustParseWord(t *testing.T, line string) domain.Word {
	t.Helper()
	w, _, err := domain.ParseWord(line)
	require.NoError(t, err)
	return w
}

// ---- Identifier -------------------------------------------------------------

func TestIdentifier_KnownValues(t *testing.T) {
	assert.Equal(t, "d4035fdee7f37f80", domain.Identifier("get"))
	assert.Equal(t, "9f9776aa8994953a", domain.Identifier("take off"))
}

func TestIdentifier_Empty(t *testing.T) {
	assert.Equal(t, "", domain.Identifier(""))
}

func TestIdentifier_ShapeAndDeterminism(t *testing.T) {
	hex16 := regexp.MustCompile(`^[0-9a-f]{16}$`)
	for _, term := range []string{"a", "run", "вода", "look forward to"} {
		id := domain.Identifier(term)
		assert.Regexp(t, hex16, id, term)
		assert.Equal(t, id, domain.Identifier(term), term)
	}
}

// ---- NewWord ----------------------------------------------------------------

func TestNewWord_Normalizes(t *testing.T) {
	w := mustWord(t, domain.WordFields{
		Term:          "  Take   Off ",
		Transcription: "|teɪk ɒf|",
		TargetDefs:    []string{" leave the ground ", ""},
		LearnedOn:     time.Date(2021, 3, 4, 15, 30, 0, 0, time.UTC),
	})

	assert.Equal(t, "take off", w.Term)
	assert.Equal(t, domain.Identifier("take off"), w.ID)
	assert.Equal(t, "teɪk ɒf", w.Transcription)
	assert.Equal(t, []string{"leave the ground"}, w.TargetDefs)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), w.LearnedOn)
}

func TestNewWord_SplitsSeparatorInDefinition(t *testing.T) {
	w := mustWord(t, domain.WordFields{
		Term:       "get",
		TargetDefs: []string{"obtain; receive"},
		NativeDefs: []string{"получать;;доставать"},
	})

	assert.Equal(t, []string{"obtain", "receive"}, w.TargetDefs)
	assert.Equal(t, []string{"получать", "доставать"}, w.NativeDefs)

	got := mustParseWord(t, w.Render())
	assert.Equal(t, w.TargetDefs, got.TargetDefs)
	assert.Equal(t, w.NativeDefs, got.NativeDefs)
}

func TestNewWord_EmptyTerm(t *testing.T) {
	_, err := domain.NewWord(domain.WordFields{Term: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWord_IDDependsOnTermOnly(t *testing.T) {
	a := mustWord(t, domain.WordFields{Term: "get", TargetDefs: []string{"obtain"}})
	b := mustWord(t, domain.WordFields{Term: "get", TargetDefs: []string{"receive"}, Properties: domain.ParseProperties("[verb]")})

	assert.Equal(t, a.ID, b.ID)
}

// ---- ParseWord --------------------------------------------------------------

func TestParseWord_FullLine(t *testing.T) {
	w, lints, err := domain.ParseWord("Get |ɡet| [Verb, Informal] – obtain;receive\tполучать;доставать")

	require.NoError(t, err)
	assert.Empty(t, lints)
	assert.Equal(t, "get", w.Term)
	assert.Equal(t, "ɡet", w.Transcription)
	assert.Equal(t, []string{"verb", "informal"}, w.Properties.Tags())
	assert.Equal(t, []string{"obtain", "receive"}, w.TargetDefs)
	assert.Equal(t, []string{"получать", "доставать"}, w.NativeDefs)
}

func TestParseWord_TargetOnly(t *testing.T) {
	w := mustParseWord(t, "Serendipity – a happy accident")

	assert.Equal(t, "serendipity", w.Term)
	assert.True(t, w.Properties.IsEmpty())
	assert.Equal(t, []string{"a happy accident"}, w.TargetDefs)
	assert.Empty(t, w.NativeDefs)
}

func TestParseWord_NativeOnly(t *testing.T) {
	w := mustParseWord(t, "Cat [noun] – кошка")

	assert.Empty(t, w.TargetDefs)
	assert.Equal(t, []string{"кошка"}, w.NativeDefs)
}

func TestParseWord_TabSplitsNativeWithLeadingPunctuation(t *testing.T) {
	w := mustParseWord(t, "Go – to move\t(разг.) идти;2) ехать")

	assert.Equal(t, []string{"to move"}, w.TargetDefs)
	assert.Equal(t, []string{"(разг.) идти", "2) ехать"}, w.NativeDefs)
}

func TestParseWord_TabSplitsNativeOnly(t *testing.T) {
	w := mustParseWord(t, "Go – \t(разг.) идти")

	assert.Empty(t, w.TargetDefs)
	assert.Equal(t, []string{"(разг.) идти"}, w.NativeDefs)
}

func TestParseWord_MissingDelimiter(t *testing.T) {
	_, _, err := domain.ParseWord("Get - obtain")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseWord_LintsHeadwordInDefinition(t *testing.T) {
	_, lints, err := domain.ParseWord("Run – to run quickly")

	require.NoError(t, err)
	require.Len(t, lints, 1)
	assert.Contains(t, lints[0].Message, "headword")
}

func TestParseWord_LintsPeriod(t *testing.T) {
	_, lints, err := domain.ParseWord("Etc – and so on.\tи т.д.")

	require.NoError(t, err)
	assert.Len(t, lints, 2)
}

// ---- Equality and ordering -------------------------------------------------

func TestWord_EqualityIgnoresDefinitions(t *testing.T) {
	a := mustWord(t, domain.WordFields{Term: "get", TargetDefs: []string{"obtain"}})
	b := mustWord(t, domain.WordFields{Term: "get"})

	assert.True(t, a.Equal(b))
	assert.True(t, a.MatchesTerm("get"))
	assert.True(t, a.MatchesTerm(" GET "))
}

func TestWord_EqualityRespectsProperties(t *testing.T) {
	a := mustWord(t, domain.WordFields{Term: "set", Properties: domain.ParseProperties("[noun]")})
	b := mustWord(t, domain.WordFields{Term: "set", Properties: domain.ParseProperties("[verb]")})

	assert.False(t, a.Equal(b))
}

func TestCompare_TotalOrder(t *testing.T) {
	noun := mustWord(t, domain.WordFields{Term: "set", Properties: domain.ParseProperties("[noun]")})
	verb := mustWord(t, domain.WordFields{Term: "set", Properties: domain.ParseProperties("[verb]")})
	apple := mustWord(t, domain.WordFields{Term: "apple"})

	assert.Negative(t, domain.Compare(apple, noun))
	assert.Positive(t, domain.Compare(noun, apple))
	assert.Negative(t, domain.Compare(noun, verb))
	assert.Positive(t, domain.Compare(verb, noun))
	assert.Zero(t, domain.Compare(noun, noun))
}

// ---- Combine ---------------------------------------------------------------

func TestCombine_SameTerm(t *testing.T) {
	a := mustWord(t, domain.WordFields{
		Term: "get", Transcription: "ɡet",
		Properties: domain.ParseProperties("[verb]"),
		TargetDefs: []string{"obtain"}, NativeDefs: []string{"получать"},
	})
	b := mustWord(t, domain.WordFields{
		Term:       "get",
		Properties: domain.ParseProperties("[informal]"),
		TargetDefs: []string{"understand"}, NativeDefs: []string{"понимать"},
	})

	got, err := domain.Combine(a, b)

	require.NoError(t, err)
	assert.Equal(t, "get", got.Term)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "ɡet", got.Transcription)
	assert.Equal(t, []string{"understand", "obtain"}, got.TargetDefs)
	assert.Equal(t, []string{"понимать", "получать"}, got.NativeDefs)
	assert.Equal(t, []string{"informal", "verb"}, got.Properties.Tags())
}

func TestCombine_ZeroWordIsIdentity(t *testing.T) {
	w := mustWord(t, domain.WordFields{Term: "get", Transcription: "ɡet", TargetDefs: []string{"obtain"}})

	left, err := domain.Combine(domain.Word{}, w)
	require.NoError(t, err)
	right, err := domain.Combine(w, domain.Word{})
	require.NoError(t, err)

	for _, got := range []domain.Word{left, right} {
		assert.Equal(t, "get", got.Term)
		assert.Equal(t, []string{"obtain"}, got.TargetDefs)
		assert.Equal(t, "ɡet", got.Transcription)
	}
}

func TestCombine_TranscriptionFallsBackToSecond(t *testing.T) {
	a := mustWord(t, domain.WordFields{Term: "get", TargetDefs: []string{"obtain"}})
	b := mustWord(t, domain.WordFields{Term: "get", Transcription: "ɡet"})

	got, err := domain.Combine(a, b)

	require.NoError(t, err)
	assert.Equal(t, "ɡet", got.Transcription)
}

func TestCombine_FoldsRows(t *testing.T) {
	rows := []string{"Get – obtain", "Get – receive", "Get – understand"}
	var acc domain.Word
	for _, r := range rows {
		var err error
		acc, err = domain.Combine(acc, mustParseWord(t, r))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"understand", "receive", "obtain"}, acc.TargetDefs)
}

func TestCombine_DifferentTerms(t *testing.T) {
	a := mustWord(t, domain.WordFields{Term: "get"})
	b := mustWord(t, domain.WordFields{Term: "set"})

	_, err := domain.Combine(a, b)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "operator demands equal words")
}

// ---- Contains --------------------------------------------------------------

func TestWord_Contains(t *testing.T) {
	w := mustParseWord(t, "Run – move fast;operate\tбежать;управлять")

	tests := []struct {
		token string
		want  bool
	}{
		{"run", true},
		{"running", true}, // token contains term
		{"ru", true},      // term contains token
		{"walk", false},
		{"!operate", true},  // marked: target definitions
		{"!fast", true},
		{"!run", false},     // marker restricts to definitions
		{"бежать", true},    // Cyrillic: native definitions
		{"управ", true},
		{"кошка", false},
		{"", false},
		{"!", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, w.Contains(tc.token), "token %q", tc.token)
	}
}

// ---- Render ----------------------------------------------------------------

func TestWord_Render(t *testing.T) {
	w := mustWord(t, domain.WordFields{
		Term:          "get",
		Transcription: "ɡet",
		Properties:    domain.ParseProperties("[verb, informal]"),
		TargetDefs:    []string{"obtain", "receive"},
		NativeDefs:    []string{"получать"},
	})

	assert.Equal(t, "Get |ɡet| [Verb, Informal] – obtain;receive\tполучать", w.Render())
}

func TestWord_Render_OmitsEmptySegments(t *testing.T) {
	w := mustWord(t, domain.WordFields{Term: "serendipity", TargetDefs: []string{"a happy accident"}})

	assert.Equal(t, "Serendipity – a happy accident", w.Render())
	assert.Equal(t, "", domain.Word{}.Render())
}

func TestWord_RenderParseRoundTrip(t *testing.T) {
	words := []domain.Word{
		mustWord(t, domain.WordFields{
			Term: "look forward to", Properties: domain.ParseProperties("[phrasal verb]"),
			TargetDefs: []string{"anticipate", "await"}, NativeDefs: []string{"ждать с нетерпением"},
		}),
		mustWord(t, domain.WordFields{Term: "cat", Transcription: "kæt", NativeDefs: []string{"кошка", "кот"}}),
		mustWord(t, domain.WordFields{Term: "ubiquitous", TargetDefs: []string{"found everywhere"}}),
		mustWord(t, domain.WordFields{
			Term: "go", TargetDefs: []string{"to move"}, NativeDefs: []string{"(разг.) идти", "2) ехать"},
		}),
		mustWord(t, domain.WordFields{Term: "go", NativeDefs: []string{"(разг.) идти"}}),
	}
	for _, w := range words {
		got := mustParseWord(t, w.Render())

		assert.True(t, got.Equal(w), w.Term)
		assert.Equal(t, w.Transcription, got.Transcription)
		assert.Equal(t, w.TargetDefs, got.TargetDefs)
		assert.Equal(t, w.NativeDefs, got.NativeDefs)
	}
}

// ---- Capitalize ------------------------------------------------------------

func TestCapitalize(t *testing.T) {
	got, err := domain.Capitalize("вода")
	require.NoError(t, err)
	assert.Equal(t, "Вода", got)

	_, err = domain.Capitalize("")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = domain.Capitalize("  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
