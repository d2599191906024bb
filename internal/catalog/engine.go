// Package catalog implements the in-memory product query pipeline: search,
// filtering, sorting, pagination and the category counts that feed the
// storefront's filter sidebar. The whole result set is recomputed on every
// query; the last full recompute is authoritative.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"greenshop-server/internal/schemas"
)

// Filters is the set of active predicates applied to the catalog. All fields
// are optional and combined with AND semantics; a zero value imposes no
// constraint. Category and color match by exact string equality.
type Filters struct {
	Search   string
	Category string
	Color    string
	MinPrice *int64
	MaxPrice *int64
}

// SortKey selects the comparator used to order results.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceAsc  SortKey = "price-asc"
	SortByPriceDesc SortKey = "price-desc"
)

// ParseSortKey maps a query parameter to a sort key, falling back to the
// name ordering for anything unknown.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortByPriceAsc:
		return SortByPriceAsc
	case SortByPriceDesc:
		return SortByPriceDesc
	default:
		return SortByName
	}
}

// Page is a 1-based page request.
type Page struct {
	Index int
	Size  int
}

// Result is a fully recomputed page of the filtered, sorted catalog.
type Result struct {
	Items      []schemas.Product
	TotalCount int
	TotalPages int
}

// CategoryCount pairs a category tag with the number of catalog items
// matching the active non-category filters.
type CategoryCount struct {
	Name  string
	Count int
}

// Matches reports whether the product satisfies every active predicate.
func (f Filters) Matches(p schemas.Product) bool {
	return f.matchesCategory(p) && f.matchesExceptCategory(p)
}

func (f Filters) matchesCategory(p schemas.Product) bool {
	if f.Category == "" {
		return true
	}
	return p.Category != nil && *p.Category == f.Category
}

// matchesExceptCategory applies every predicate but the category one. It is
// the denominator used for category counts, so that selecting a category
// never changes the counts shown next to the other categories.
func (f Filters) matchesExceptCategory(p schemas.Product) bool {
	if search := strings.TrimSpace(f.Search); search != "" {
		needle := strings.ToLower(search)
		name := strings.ToLower(p.Name)
		description := ""
		if p.Description != nil {
			description = strings.ToLower(*p.Description)
		}
		if !strings.Contains(name, needle) && !strings.Contains(description, needle) {
			return false
		}
	}

	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}

	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}

	if f.Color != "" {
		if p.Color == nil || *p.Color != f.Color {
			return false
		}
	}

	return true
}

// Query filters, sorts and paginates the catalog in a single pass over the
// input slice. The input is never mutated; ties keep their input order.
// An empty catalog or an unsatisfiable filter yields an empty result with
// zero pages and no error.
func Query(all []schemas.Product, filters Filters, sortKey SortKey, page Page) Result {
	filtered := make([]schemas.Product, 0, len(all))
	for _, p := range all {
		if filters.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, sortKey)

	if page.Size < 1 {
		page.Size = 1
	}
	if page.Index < 1 {
		page.Index = 1
	}

	total := len(filtered)
	totalPages := (total + page.Size - 1) / page.Size

	start := (page.Index - 1) * page.Size
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}

	return Result{
		Items:      filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
	}
}

func sortProducts(products []schemas.Product, sortKey SortKey) {
	switch sortKey {
	case SortByPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortByPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	default:
		collator := collate.New(language.Vietnamese)
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Name, products[j].Name) < 0
		})
	}
}

// CategoryCounts computes, for every category observed in the full catalog,
// how many products match the active filters with the category predicate
// excluded. Categories with zero matches still appear, keeping them
// discoverable in the sidebar. The result is ordered by category name.
func CategoryCounts(all []schemas.Product, filters Filters) []CategoryCount {
	counts := make(map[string]int)
	for _, p := range all {
		if p.Category == nil {
			continue
		}
		if _, seen := counts[*p.Category]; !seen {
			counts[*p.Category] = 0
		}
		if filters.matchesExceptCategory(p) {
			counts[*p.Category]++
		}
	}

	result := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, CategoryCount{Name: name, Count: count})
	}

	collator := collate.New(language.Vietnamese)
	sort.Slice(result, func(i, j int) bool {
		return collator.CompareString(result[i].Name, result[j].Name) < 0
	})

	return result
}
