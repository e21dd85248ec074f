package openlibrary

import (
	"strconv"

	"openshelf/internal/config"
)

// Cover sizes accepted by the covers endpoint.
const (
	CoverSmall  = "S"
	CoverMedium = "M"
	CoverLarge  = "L"
)

// CoverURL resolves the cover image URL for a document. A cover id wins over
// an ISBN even when both are present; "" means no cover source exists and the
// caller should render a placeholder.
func CoverURL(cfg config.OpenLibraryConfig, doc Doc, size string) string {
	if size != CoverSmall && size != CoverMedium && size != CoverLarge {
		size = CoverMedium
	}
	if doc.CoverID != 0 {
		return cfg.CoverPath("id", strconv.FormatInt(doc.CoverID, 10), size)
	}
	if len(doc.ISBNs) > 0 {
		return cfg.CoverPath("isbn", doc.ISBNs[0], size)
	}
	return ""
}

// DetailURL resolves the catalog page for a document from its canonical key,
// falling back to an edition key. "" means there is nothing to link to.
func DetailURL(cfg config.OpenLibraryConfig, doc Doc) string {
	if doc.Key != "" {
		return cfg.CatalogURL + doc.Key
	}
	if doc.CoverEditionKey != "" {
		return cfg.CatalogURL + "/books/" + doc.CoverEditionKey
	}
	if len(doc.EditionKeys) > 0 {
		return cfg.CatalogURL + "/books/" + doc.EditionKeys[0]
	}
	return ""
}
