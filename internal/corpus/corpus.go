package corpus

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Example is one usage example: a sentence in the target language, its
// native-language translation and where it was found.
type Example struct {
	Original string `json:"original"`
	Native   string `json:"native"`
	Source   string `json:"source"`
}

// Selectors locate the parts of an example on a corpus result page.
// Original, Native and Source are looked up inside each Item.
type Selectors struct {
	Item     string
	Original string
	Native   string
	Source   string
	// Synonym matches every synonym on a synonym service page.
	Synonym string
}

// DefaultSelectors match the parallel-corpus and synonym pages the client was
// written against.
var DefaultSelectors = Selectors{
	Item:     ".content .para",
	Original: ".original",
	Native:   ".translation",
	Source:   ".doc",
	Synonym:  ".synonyms li a",
}

// PerPage is the number of examples a corpus result page holds.
const PerPage = 10

// maxPages caps how many pages one FetchExamples call requests.
const maxPages = 10

// Client scrapes example sentences from a parallel corpus and synonyms from a
// synonym service.
type Client struct {
	corpusURL   string
	synonymsURL string
	selectors   Selectors
	http        *http.Client
}

// NewClient builds a Client. corpusURL receives the query as ?text=<word>&p=<page>;
// synonymsURL gets the escaped word appended as a path segment. A nil
// httpClient uses one with DefaultTimeout.
func NewClient(corpusURL, synonymsURL string, sel Selectors, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &Client{
		corpusURL:   corpusURL,
		synonymsURL: strings.TrimRight(synonymsURL, "/"),
		selectors:   sel,
		http:        httpClient,
	}
}

// FetchExamples returns up to count examples for word. The pages needed are
// fetched concurrently; any failed page fails the whole call.
func (c *Client) FetchExamples(ctx context.Context, word string, count int) ([]Example, error) {
	if c.corpusURL == "" {
		return nil, fmt.Errorf("corpus.Client.FetchExamples: corpus URL is not configured")
	}
	if count <= 0 {
		return []Example{}, nil
	}
	pages := min((count+PerPage-1)/PerPage, maxPages)

	results := make([][]Example, pages)
	g, gctx := errgroup.WithContext(ctx)
	for p := range pages {
		g.Go(func() error {
			page, err := c.fetchPage(gctx, word, p)
			if err != nil {
				return fmt.Errorf("page %d: %w", p, err)
			}
			results[p] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("corpus.Client.FetchExamples: %w", err)
	}

	out := []Example{}
	for _, page := range results {
		out = append(out, page...)
	}
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

// FetchSynonyms returns the synonyms listed for word.
func (c *Client) FetchSynonyms(ctx context.Context, word string) ([]string, error) {
	if c.synonymsURL == "" {
		return nil, fmt.Errorf("corpus.Client.FetchSynonyms: synonyms URL is not configured")
	}
	body, err := get(ctx, c.http, c.synonymsURL+"/"+url.PathEscape(word))
	if err != nil {
		return nil, fmt.Errorf("corpus.Client.FetchSynonyms: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("corpus.Client.FetchSynonyms: parse: %w", err)
	}

	seen := map[string]struct{}{}
	out := []string{}
	doc.Find(c.selectors.Synonym).Each(func(_ int, s *goquery.Selection) {
		syn := normalizeSpace(s.Text())
		if syn == "" || strings.EqualFold(syn, word) {
			return
		}
		if _, ok := seen[strings.ToLower(syn)]; ok {
			return
		}
		seen[strings.ToLower(syn)] = struct{}{}
		out = append(out, syn)
	})
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, word string, page int) ([]Example, error) {
	u, err := url.Parse(c.corpusURL)
	if err != nil {
		return nil, fmt.Errorf("corpus URL: %w", err)
	}
	q := u.Query()
	q.Set("text", word)
	q.Set("p", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	body, err := get(ctx, c.http, u.String())
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var out []Example
	doc.Find(c.selectors.Item).Each(func(_ int, s *goquery.Selection) {
		ex := Example{
			Original: normalizeSpace(s.Find(c.selectors.Original).First().Text()),
			Native:   normalizeSpace(s.Find(c.selectors.Native).First().Text()),
			Source:   normalizeSpace(s.Find(c.selectors.Source).First().Text()),
		}
		if ex.Original != "" {
			out = append(out, ex)
		}
	})
	return out, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
