package query

import "strings"

// Criteria is one set of structured search inputs. All fields are optional;
// FreeText only participates when no structured field is set.
type Criteria struct {
	FreeText string
	Title    string
	Author   string
	ISBN     string
	Subject  string
	Year     string
}

// HasStructured reports whether any structured field is non-empty. Structured
// input suppresses debounced auto-search; only explicit submission runs it.
func (c Criteria) HasStructured() bool {
	return c.Title != "" || c.Author != "" || c.ISBN != "" || c.Subject != "" || c.Year != ""
}

// IsEmpty reports whether the criteria can produce any query at all.
func (c Criteria) IsEmpty() bool {
	return !c.HasStructured() && c.FreeText == ""
}

// Build renders the criteria as a single search-engine query string. Field
// order is fixed (title, author, isbn, subject, year) so output is
// reproducible. FreeText is a fallback used only when no structured field is
// present. "" is the do-not-search sentinel.
func (c Criteria) Build() string {
	var tokens []string
	for _, f := range []struct{ name, value string }{
		{"title", c.Title},
		{"author", c.Author},
		{"isbn", c.ISBN},
		{"subject", c.Subject},
		{"year", c.Year},
	} {
		if f.value != "" {
			tokens = append(tokens, f.name+":"+f.value)
		}
	}
	if len(tokens) > 0 {
		return strings.Join(tokens, " ")
	}
	return c.FreeText
}

// ParseInput tokenizes interactive input like
//
//	author:"stephen king" title:it 1986
//
// into Criteria. Known field prefixes fill the structured fields (last one
// wins); everything else accumulates into FreeText. An unknown field prefix
// is kept verbatim as free text rather than dropped.
func ParseInput(input string) Criteria {
	var c Criteria
	var free []string

	l := NewLexer(input)
	for tok := l.NextToken(); tok.Type != TokenEOF; tok = l.NextToken() {
		if tok.Type != TokenField {
			free = append(free, tok.Value)
			continue
		}

		value := ""
		if next := l.NextToken(); next.Type != TokenEOF {
			value = next.Value
		}

		switch strings.ToLower(tok.Value) {
		case "title":
			c.Title = value
		case "author":
			c.Author = value
		case "isbn":
			c.ISBN = value
		case "subject":
			c.Subject = value
		case "year":
			c.Year = value
		default:
			free = append(free, tok.Value+":"+value)
		}
	}

	c.FreeText = strings.Join(free, " ")
	return c
}
