package openlibrary

import (
	"testing"

	"openshelf/internal/config"
)

var coverCfg = config.OpenLibraryConfig{
	CoversURL:  "https://covers.openlibrary.org",
	CatalogURL: "https://openlibrary.org",
}

func TestCoverURL(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		size string
		want string
	}{
		{
			name: "Cover ID",
			doc:  Doc{CoverID: 12345},
			size: "L",
			want: "https://covers.openlibrary.org/b/id/12345-L.jpg",
		},
		{
			name: "ID Takes Precedence Over ISBN",
			doc:  Doc{CoverID: 7, ISBNs: []string{"9780441013593"}},
			size: "S",
			want: "https://covers.openlibrary.org/b/id/7-S.jpg",
		},
		{
			name: "ISBN Fallback",
			doc:  Doc{ISBNs: []string{"9780441013593", "0441013597"}},
			size: "M",
			want: "https://covers.openlibrary.org/b/isbn/9780441013593-M.jpg",
		},
		{
			name: "Neither Available",
			doc:  Doc{Title: "bare"},
			size: "M",
			want: "",
		},
		{
			name: "Bad Size Falls Back To Medium",
			doc:  Doc{CoverID: 1},
			size: "XL",
			want: "https://covers.openlibrary.org/b/id/1-M.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoverURL(coverCfg, tt.doc, tt.size); got != tt.want {
				t.Errorf("CoverURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetailURL(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want string
	}{
		{
			name: "Canonical Key",
			doc:  Doc{Key: "/works/OL1W"},
			want: "https://openlibrary.org/works/OL1W",
		},
		{
			name: "Cover Edition Fallback",
			doc:  Doc{CoverEditionKey: "OL2M"},
			want: "https://openlibrary.org/books/OL2M",
		},
		{
			name: "Edition Key Fallback",
			doc:  Doc{EditionKeys: []string{"OL3M"}},
			want: "https://openlibrary.org/books/OL3M",
		},
		{
			name: "No Identifying Key",
			doc:  Doc{Title: "bare"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetailURL(coverCfg, tt.doc); got != tt.want {
				t.Errorf("DetailURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
