package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"openshelf/internal/logger"
	"openshelf/internal/metrics"
	"openshelf/internal/openlibrary"
	"openshelf/internal/query"
)

// PageSize is fixed for the lifetime of a session; pagination math depends
// on it staying constant.
const PageSize = 20

type Sort int

const (
	SortRelevance Sort = iota
	SortNewest
	SortOldest
)

func (s Sort) String() string {
	switch s {
	case SortNewest:
		return "newest"
	case SortOldest:
		return "oldest"
	default:
		return "relevance"
	}
}

// ParseSort maps a user-facing mode name to a Sort; unknown input falls back
// to relevance.
func ParseSort(s string) Sort {
	switch strings.ToLower(s) {
	case "newest":
		return SortNewest
	case "oldest":
		return SortOldest
	default:
		return SortRelevance
	}
}

// Result is one displayed page of documents plus the authoritative total.
type Result struct {
	Docs     []openlibrary.Doc
	NumFound int
	Page     int
}

// HasNext reports whether another page exists beyond this one.
func (r *Result) HasNext() bool {
	return r.Page*PageSize < r.NumFound
}

// Searcher is the remote call the executor depends on; satisfied by
// *openlibrary.Client.
type Searcher interface {
	Search(ctx context.Context, query string, page, limit int) (*openlibrary.Page, error)
}

type Executor struct {
	client Searcher
}

func NewExecutor(client Searcher) *Executor {
	return &Executor{client: client}
}

// Execute runs one search. An empty built query is not an error: it yields
// an empty result without touching the wire, so callers clear stale output.
func (e *Executor) Execute(ctx context.Context, c query.Criteria, page int, sortBy Sort) (*Result, error) {
	q := c.Build()
	if q == "" {
		return &Result{Docs: []openlibrary.Doc{}, Page: page}, nil
	}

	defer logger.Track(ctx, "search")()
	start := time.Now()

	p, err := e.client.Search(ctx, q, page, PageSize)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	docs := p.Docs
	SortDocs(docs, sortBy)

	return &Result{Docs: docs, NumFound: p.NumFound, Page: page}, nil
}

// SortDocs orders documents client-side. Relevance keeps server order.
// Newest/oldest compare first-publish years with a missing year counted as 0,
// which puts unknown years last for newest and first for oldest. That
// comparator matches the historical behavior and is relied upon; do not
// "fix" it.
func SortDocs(docs []openlibrary.Doc, sortBy Sort) {
	switch sortBy {
	case SortNewest:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].FirstPublishYear > docs[j].FirstPublishYear
		})
	case SortOldest:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].FirstPublishYear < docs[j].FirstPublishYear
		})
	}
}
