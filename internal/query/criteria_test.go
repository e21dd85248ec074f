package query

import "testing"

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		in   Criteria
		want string
	}{
		{
			name: "All Empty",
			in:   Criteria{},
			want: "",
		},
		{
			name: "Single Title",
			in:   Criteria{Title: "dune"},
			want: "title:dune",
		},
		{
			name: "Single Author",
			in:   Criteria{Author: "herbert"},
			want: "author:herbert",
		},
		{
			name: "Single ISBN",
			in:   Criteria{ISBN: "9780441013593"},
			want: "isbn:9780441013593",
		},
		{
			name: "Single Subject",
			in:   Criteria{Subject: "fantasy"},
			want: "subject:fantasy",
		},
		{
			name: "Single Year",
			in:   Criteria{Year: "1965"},
			want: "year:1965",
		},
		{
			name: "Fixed Field Order",
			in:   Criteria{Year: "1965", Author: "herbert", Title: "dune"},
			want: "title:dune author:herbert year:1965",
		},
		{
			name: "Free Text Fallback",
			in:   Criteria{FreeText: "desert planet"},
			want: "desert planet",
		},
		{
			name: "Structured Wins Over Free Text",
			in:   Criteria{FreeText: "desert planet", Title: "dune"},
			want: "title:dune",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Build(); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildEmptyIsSentinel(t *testing.T) {
	c := Criteria{}
	if !c.IsEmpty() {
		t.Fatal("empty criteria should report IsEmpty")
	}
	if c.Build() != "" {
		t.Fatalf("empty criteria must build the empty sentinel, got %q", c.Build())
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Criteria
	}{
		{
			name:  "Free Text Only",
			input: "unix network programming",
			want:  Criteria{FreeText: "unix network programming"},
		},
		{
			name:  "Field Search",
			input: "author:tolkien",
			want:  Criteria{Author: "tolkien"},
		},
		{
			name:  "Quoted Value",
			input: `author:"stephen king" title:it`,
			want:  Criteria{Author: "stephen king", Title: "it"},
		},
		{
			name:  "Mixed Fields And Free Text",
			input: "subject:fantasy dragons year:1937",
			want:  Criteria{Subject: "fantasy", Year: "1937", FreeText: "dragons"},
		},
		{
			name:  "Unknown Field Kept As Free Text",
			input: "publisher:tor title:dune",
			want:  Criteria{Title: "dune", FreeText: "publisher:tor"},
		},
		{
			name:  "Case Insensitive Field Names",
			input: "Title:Dune",
			want:  Criteria{Title: "Dune"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseInput(tt.input); got != tt.want {
				t.Errorf("ParseInput(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLexerTokens(t *testing.T) {
	l := NewLexer(`author:"le guin" earthsea`)

	tok := l.NextToken()
	if tok.Type != TokenField || tok.Value != "author" {
		t.Fatalf("expected field token author, got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Type != TokenString || tok.Value != "le guin" {
		t.Fatalf("expected quoted string, got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Type != TokenString || tok.Value != "earthsea" {
		t.Fatalf("expected bare string, got %+v", tok)
	}
	if tok = l.NextToken(); tok.Type != TokenEOF {
		t.Fatalf("expected EOF, got %+v", tok)
	}
}
