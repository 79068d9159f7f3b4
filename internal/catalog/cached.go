package catalog

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"mealsexplorer/internal/domain"
)

const categoriesKey = "categories"

// CachingClient collapses concurrent identical calls into one request and
// memoizes the category list and full records in memory for the life of
// the process. Search and filter answers are never memoized.
type CachingClient struct {
	inner      Client
	group      singleflight.Group
	categories *lru.Cache[string, []string]
	meals      *lru.Cache[string, domain.Meal]
}

// NewCachingClient wraps inner. size <= 0 disables memoization and keeps
// only request collapsing.
func NewCachingClient(inner Client, size int) *CachingClient {
	c := &CachingClient{inner: inner}
	if size > 0 {
		// lru.New only fails for a non-positive size
		c.categories, _ = lru.New[string, []string](1)
		c.meals, _ = lru.New[string, domain.Meal](size)
	}
	return c
}

// ListCategories implements Client
func (c *CachingClient) ListCategories(ctx context.Context) ([]string, error) {
	if c.categories != nil {
		if cats, ok := c.categories.Get(categoriesKey); ok {
			return slices.Clone(cats), nil
		}
	}
	v, err, _ := c.group.Do("categories", func() (any, error) {
		return c.inner.ListCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	cats := v.([]string)
	if c.categories != nil && len(cats) > 0 {
		c.categories.Add(categoriesKey, cats)
	}
	return slices.Clone(cats), nil
}

// SearchByTerm implements Client
func (c *CachingClient) SearchByTerm(ctx context.Context, term string) ([]domain.Meal, error) {
	v, err, shared := c.group.Do("search:"+term, func() (any, error) {
		return c.inner.SearchByTerm(ctx, term)
	})
	if err != nil {
		return nil, err
	}
	meals := v.([]domain.Meal)
	if !shared {
		c.remember(meals)
	}
	return slices.Clone(meals), nil
}

// FilterByCategory implements Client
func (c *CachingClient) FilterByCategory(ctx context.Context, category string) ([]domain.Meal, error) {
	v, err, _ := c.group.Do("filter:"+category, func() (any, error) {
		return c.inner.FilterByCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Meal)), nil
}

// LookupByID implements Client
func (c *CachingClient) LookupByID(ctx context.Context, id string) (*domain.Meal, error) {
	if c.meals != nil {
		if m, ok := c.meals.Get(id); ok {
			return &m, nil
		}
	}
	v, err, _ := c.group.Do("lookup:"+id, func() (any, error) {
		return c.inner.LookupByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	found := v.(*domain.Meal)
	if found == nil {
		return nil, nil
	}
	m := *found
	c.remember([]domain.Meal{m})
	return &m, nil
}

// remember stores full records so a later lookup of a searched meal is local
func (c *CachingClient) remember(meals []domain.Meal) {
	if c.meals == nil {
		return
	}
	for _, m := range meals {
		if m.HasDetails() {
			c.meals.Add(m.ID, m)
		}
	}
}
