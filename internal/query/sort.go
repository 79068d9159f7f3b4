package query

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mealsexplorer/internal/domain"
)

// nameSorter orders meals by name, ignoring case. A Collator is not safe
// for concurrent use; the Orchestrator only calls it under its lock.
type nameSorter struct {
	collator *collate.Collator
}

func newNameSorter() *nameSorter {
	return &nameSorter{collator: collate.New(language.Und, collate.IgnoreCase)}
}

// compare returns <0, 0 or >0 like strings.Compare
func (s *nameSorter) compare(a, b string) int {
	return s.collator.CompareString(strings.ToLower(a), strings.ToLower(b))
}

// sorted returns a copy of meals in the given order. Ties keep their
// relative order; SortNone keeps arrival order.
func (s *nameSorter) sorted(meals []domain.Meal, order domain.SortOrder) []domain.Meal {
	out := slices.Clone(meals)
	switch order {
	case domain.SortNameAscending:
		slices.SortStableFunc(out, func(a, b domain.Meal) int {
			return s.compare(a.Name, b.Name)
		})
	case domain.SortNameDescending:
		slices.SortStableFunc(out, func(a, b domain.Meal) int {
			return s.compare(b.Name, a.Name)
		})
	}
	return out
}
