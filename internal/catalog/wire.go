package catalog

import (
	"fmt"
	"strings"

	"mealsexplorer/internal/domain"
)

// maxIngredients is the number of strIngredientN/strMeasureN slots in a record
const maxIngredients = 20

// mealsResponse is the envelope of search, filter and lookup answers.
// "meals" is null when nothing matched.
type mealsResponse struct {
	Meals []rawMeal `json:"meals"`
}

// rawMeal keeps the record loose: the API mixes nulls, empty strings
// and a variable set of numbered ingredient fields.
type rawMeal map[string]any

func (r rawMeal) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}

// categoriesResponse covers both list.php (meals[]) and categories.php (categories[])
type categoriesResponse struct {
	Categories []categoryDTO `json:"categories"`
	Meals      []categoryDTO `json:"meals"`
}

type categoryDTO struct {
	StrCategory string `json:"strCategory"`
}

func (r categoriesResponse) names() []string {
	src := r.Categories
	if len(src) == 0 {
		src = r.Meals
	}
	names := make([]string, 0, len(src))
	for _, c := range src {
		if name := strings.TrimSpace(c.StrCategory); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// toMeal normalizes a wire record. ok is false for records without an id.
func (r rawMeal) toMeal() (domain.Meal, bool) {
	m := domain.Meal{
		ID:           r.str("idMeal"),
		Name:         r.str("strMeal"),
		ThumbnailURL: r.str("strMealThumb"),
		Category:     r.str("strCategory"),
		Area:         r.str("strArea"),
		Instructions: r.str("strInstructions"),
		YouTubeURL:   r.str("strYoutube"),
		SourceURL:    r.str("strSource"),
		Tags:         splitTags(r.str("strTags")),
	}
	if m.ID == "" {
		return domain.Meal{}, false
	}

	for i := 1; i <= maxIngredients; i++ {
		name := r.str(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, domain.Ingredient{
			Name:    name,
			Measure: r.str(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return m, true
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (r mealsResponse) meals() []domain.Meal {
	out := make([]domain.Meal, 0, len(r.Meals))
	for _, raw := range r.Meals {
		if m, ok := raw.toMeal(); ok {
			out = append(out, m)
		}
	}
	return out
}
