package service

import (
	"strings"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

// AllCategories is the category selector sentinel that disables
// category filtering.
const AllCategories = "all"

// A Catalog computes filtered views over a read-only parts feed.
type Catalog struct {
	parts []domain.Part
}

func NewCatalog(parts []domain.Part) Catalog {
	return Catalog{parts}
}

// Filter returns the parts whose name contains query (case-insensitive,
// empty query matches everything) and whose category equals category
// exactly (unless category is [AllCategories]). Catalog order is
// preserved; the computation is pure, identical arguments always yield
// an identical sequence.
func (c Catalog) Filter(query, category string) []domain.Part {
	query = strings.ToLower(query)

	out := make([]domain.Part, 0, len(c.parts))
	for _, p := range c.parts {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct part categories in catalog order,
// prefixed with the [AllCategories] sentinel.
func (c Catalog) Categories() []string {
	seen := map[string]struct{}{}
	out := []string{AllCategories}
	for _, p := range c.parts {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
