package openlibrary

import "encoding/json"

// Doc is a single catalog document as returned by the search endpoint.
// The payload is loosely typed upstream; every field here is optional and
// decodes to its zero value when absent, so callers never need to nil-check
// scalars. The original JSON is retained for the raw-data view.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
	CoverID          int64    `json:"cover_i"`
	CoverEditionKey  string   `json:"cover_edition_key"`
	EditionKeys      []string `json:"edition_key"`
	ISBNs            []string `json:"isbn"`
	Subjects         []string `json:"subject"`

	Raw json.RawMessage `json:"-"`
}

func (d *Doc) UnmarshalJSON(data []byte) error {
	type alias Doc
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Doc(a)
	d.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (d Doc) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	type alias Doc
	return json.Marshal(alias(d))
}

// IdentityKey derives a stable identity for the document: the canonical work
// key, then the cover edition key, then the first edition key, then the
// title. The title fallback can collide for distinct untitled or
// duplicate-titled entries; that is a documented limitation of the source
// data, not something to disambiguate here.
func (d Doc) IdentityKey() string {
	if d.Key != "" {
		return d.Key
	}
	if d.CoverEditionKey != "" {
		return d.CoverEditionKey
	}
	if len(d.EditionKeys) > 0 {
		return d.EditionKeys[0]
	}
	return d.Title
}

// Page is one page of search hits plus the authoritative total.
type Page struct {
	Docs     []Doc `json:"docs"`
	NumFound int   `json:"numFound"`
}
