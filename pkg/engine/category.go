package engine

import (
	"strings"

	"github.com/adikhanna/smsledger/pkg/api"
)

// DetectCategory maps a merchant name and message body to a category.
// Resolution is totally ordered: exact catalog match, then case-insensitive
// catalog match, then keyword scan in fixed category order, then Misc.
func (e *Engine) DetectCategory(merchant, body string) string {
	for _, entry := range e.catalog {
		if entry.Merchant == merchant {
			return entry.Category
		}
	}

	for _, entry := range e.catalog {
		if strings.EqualFold(entry.Merchant, merchant) {
			return entry.Category
		}
	}

	text := strings.ToLower(merchant) + " " + strings.ToLower(body)
	for _, category := range api.CategoryOrder {
		if containsAny(text, e.keywords[category]) {
			return category
		}
	}

	return api.CategoryMisc
}
