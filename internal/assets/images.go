// Package assets holds the static product image fallback table used by the
// menu view until products carry their own uploaded images.
package assets

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/emreacar/kafepos/internal/domain/models"
)

type imageEntry struct {
	key string
	url string
}

// Ordered: specific product names match before the broader category labels
// ("türk kahvesi" before "kahve").
var imageTable = []imageEntry{
	{"türk kahvesi", "https://images.unsplash.com/photo-1515286576885-3b1a207212f0?auto=format&fit=crop&w=300&q=80"},
	{"latte", "https://images.unsplash.com/photo-1541167760496-1628856ab772?auto=format&fit=crop&w=300&q=80"},
	{"americano", "https://images.unsplash.com/photo-1514432324607-a09d9b4aefdd?auto=format&fit=crop&w=300&q=80"},
	{"çay", "https://images.unsplash.com/photo-1597318181409-cf64d0b5d8a2?auto=format&fit=crop&w=300&q=80"},
	{"cheesecake", "https://images.unsplash.com/photo-1533134242443-d4fd215305ad?auto=format&fit=crop&w=300&q=80"},
	{"tiramisu", "https://images.unsplash.com/photo-1571115177098-24ec42ed204d?auto=format&fit=crop&w=300&q=80"},
	{"kahve", "https://images.unsplash.com/photo-1509042239860-f550ce710b93?auto=format&fit=crop&w=300&q=80"},
	{"tatlı", "https://images.unsplash.com/photo-1563729784474-d77dbb933a9e?auto=format&fit=crop&w=300&q=80"},
	{"sıcak içecek", "https://images.unsplash.com/photo-1544787219-7f47ccb76574?auto=format&fit=crop&w=300&q=80"},
	{"soğuk içecek", "https://images.unsplash.com/photo-1513558161293-cdaf765ed2fd?auto=format&fit=crop&w=300&q=80"},
}

const defaultImage = "https://images.unsplash.com/photo-1501339847302-ac426a4a7cbb?auto=format&fit=crop&w=300&q=80"

// ProductImage resolves the display image for a product: the row's own image
// URL wins, then a name match, then a category match, then the default.
// Labels are lowered with Turkish casing so dotted İ folds to i, not i̇.
func ProductImage(p models.Product) string {
	if p.ImageURL != "" {
		return p.ImageURL
	}

	lower := cases.Lower(language.Turkish)

	name := lower.String(p.Name)
	for _, entry := range imageTable {
		if strings.Contains(name, entry.key) {
			return entry.url
		}
	}

	category := lower.String(p.Category)
	for _, entry := range imageTable {
		if strings.Contains(category, entry.key) {
			return entry.url
		}
	}

	return defaultImage
}
