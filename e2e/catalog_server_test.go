//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeCatalog serves the four catalog endpoints from memory
type fakeCatalog struct {
	mu       sync.Mutex
	meals    []map[string]string
	requests []string
}

func newFakeCatalog(t *testing.T) (*fakeCatalog, *httptest.Server) {
	t.Helper()
	fc := &fakeCatalog{}
	for i := 0; i < 12; i++ {
		fc.meals = append(fc.meals, map[string]string{
			"idMeal":          fmt.Sprintf("%d", 52700+i),
			"strMeal":         fmt.Sprintf("Chicken Dish %02d", i),
			"strCategory":     "Chicken",
			"strArea":         "British",
			"strInstructions": "Roast until golden.",
		})
	}
	for i := 0; i < 3; i++ {
		fc.meals = append(fc.meals, map[string]string{
			"idMeal":          fmt.Sprintf("%d", 52800+i),
			"strMeal":         fmt.Sprintf("Beef Stew %d", i),
			"strCategory":     "Beef",
			"strArea":         "Irish",
			"strInstructions": "Simmer for hours.",
		})
	}

	srv := httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(srv.Close)
	return fc, srv
}

func (fc *fakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	fc.requests = append(fc.requests, r.URL.RequestURI())
	fc.mu.Unlock()

	q := r.URL.Query()
	var body any
	switch r.URL.Path {
	case "/list.php":
		body = map[string]any{"meals": []map[string]string{{"strCategory": "Beef"}, {"strCategory": "Chicken"}}}
	case "/search.php":
		body = map[string]any{"meals": fc.match(func(m map[string]string) bool {
			return strings.Contains(strings.ToLower(m["strMeal"]), strings.ToLower(q.Get("s")))
		})}
	case "/filter.php":
		body = map[string]any{"meals": fc.match(func(m map[string]string) bool {
			return m["strCategory"] == q.Get("c")
		})}
	case "/lookup.php":
		body = map[string]any{"meals": fc.match(func(m map[string]string) bool {
			return m["idMeal"] == q.Get("i")
		})}
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// match returns nil rather than an empty list, like the real catalog
func (fc *fakeCatalog) match(pred func(map[string]string) bool) []map[string]string {
	var out []map[string]string
	for _, m := range fc.meals {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

func (fc *fakeCatalog) Requests() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]string(nil), fc.requests...)
}
