package search

import (
	"context"
	"errors"
	"testing"

	"openshelf/internal/openlibrary"
	"openshelf/internal/query"
)

type fakeSearcher struct {
	calls int
	page  *openlibrary.Page
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, q string, page, limit int) (*openlibrary.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func TestExecuteEmptyQuerySkipsRemoteCall(t *testing.T) {
	f := &fakeSearcher{}
	e := NewExecutor(f)

	res, err := e.Execute(context.Background(), query.Criteria{}, 1, SortRelevance)
	if err != nil {
		t.Fatalf("empty query is not an error, got %v", err)
	}
	if f.calls != 0 {
		t.Errorf("no request may be issued for an empty query, got %d calls", f.calls)
	}
	if len(res.Docs) != 0 || res.NumFound != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestExecuteSortModes(t *testing.T) {
	page := &openlibrary.Page{
		NumFound: 2,
		Docs: []openlibrary.Doc{
			{Title: "A", FirstPublishYear: 2001},
			{Title: "B", FirstPublishYear: 1990},
		},
	}

	tests := []struct {
		name   string
		sortBy Sort
		want   []string
	}{
		{"Relevance Preserves Server Order", SortRelevance, []string{"A", "B"}},
		{"Newest Descending", SortNewest, []string{"A", "B"}},
		{"Oldest Ascending", SortOldest, []string{"B", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSearcher{page: &openlibrary.Page{
				NumFound: page.NumFound,
				Docs:     append([]openlibrary.Doc(nil), page.Docs...),
			}}
			res, err := NewExecutor(f).Execute(context.Background(), query.Criteria{Title: "x"}, 1, tt.sortBy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, w := range tt.want {
				if res.Docs[i].Title != w {
					t.Errorf("pos %d = %q, want %q", i, res.Docs[i].Title, w)
				}
			}
		})
	}
}

// A missing first-publish year counts as 0: last for newest, first for
// oldest.
func TestSortMissingYearAsZero(t *testing.T) {
	in := []openlibrary.Doc{
		{Title: "NoYear"},
		{Title: "Old", FirstPublishYear: 1950},
		{Title: "New", FirstPublishYear: 2020},
	}

	newest := append([]openlibrary.Doc(nil), in...)
	SortDocs(newest, SortNewest)
	if newest[0].Title != "New" || newest[2].Title != "NoYear" {
		t.Errorf("newest order = %v", titles(newest))
	}

	oldest := append([]openlibrary.Doc(nil), in...)
	SortDocs(oldest, SortOldest)
	if oldest[0].Title != "NoYear" || oldest[2].Title != "New" {
		t.Errorf("oldest order = %v", titles(oldest))
	}
}

func titles(docs []openlibrary.Doc) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Title
	}
	return out
}

func TestExecutePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeSearcher{err: boom}
	_, err := NewExecutor(f).Execute(context.Background(), query.Criteria{Title: "x"}, 1, SortRelevance)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped searcher error, got %v", err)
	}
}

func TestResultHasNext(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		found int
		want  bool
	}{
		{"More Pages", 1, 45, true},
		{"Exact Boundary", 2, 40, false},
		{"Last Partial Page", 3, 45, false},
		{"Empty", 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{Page: tt.page, NumFound: tt.found}
			if got := r.HasNext(); got != tt.want {
				t.Errorf("HasNext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	if ParseSort("NEWEST") != SortNewest || ParseSort("oldest") != SortOldest {
		t.Error("known modes must parse case-insensitively")
	}
	if ParseSort("whatever") != SortRelevance {
		t.Error("unknown modes fall back to relevance")
	}
}
