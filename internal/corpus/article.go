package corpus

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

// sentenceEnd splits article text into sentences.
var sentenceEnd = regexp.MustCompile(`[.!?…]+["»”’)]*\s+`)

// ArticleSource extracts example sentences from a web article using the
// readability algorithm.
type ArticleSource struct {
	http *http.Client
}

// NewArticleSource builds an ArticleSource. A nil httpClient uses one with
// DefaultTimeout.
func NewArticleSource(httpClient *http.Client) *ArticleSource {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &ArticleSource{http: httpClient}
}

// Examples returns up to count sentences of the article at rawURL that
// contain word, case-insensitively. Source is the article title, or the URL
// when it has none.
func (a *ArticleSource) Examples(ctx context.Context, rawURL, word string, count int) ([]Example, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("corpus.ArticleSource.Examples: invalid URL %q", rawURL)
	}
	body, err := get(ctx, a.http, rawURL)
	if err != nil {
		return nil, fmt.Errorf("corpus.ArticleSource.Examples: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return nil, fmt.Errorf("corpus.ArticleSource.Examples: extract: %w", err)
	}

	source := normalizeSpace(article.Title)
	if source == "" {
		source = rawURL
	}
	needle := strings.ToLower(strings.TrimSpace(word))
	out := []Example{}
	for _, s := range Sentences(article.TextContent) {
		if count > 0 && len(out) == count {
			break
		}
		if needle != "" && strings.Contains(strings.ToLower(s), needle) {
			out = append(out, Example{Original: s, Source: source})
		}
	}
	return out, nil
}

// Sentences splits text at sentence-ending punctuation followed by space.
func Sentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := normalizeSpace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := normalizeSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}
