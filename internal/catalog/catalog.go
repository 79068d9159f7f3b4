// Package catalog talks to the remote recipe catalog (TheMealDB) and
// normalizes its records into domain.Meal values.
//
// "No data" is never an error here: an empty search returns an empty
// slice, an unknown id returns a nil meal. Every network, status or
// decoding failure is reported as a *TransportError.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"mealsexplorer/internal/domain"
)

// DefaultBaseURL is the public TheMealDB v1 endpoint
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1/"

// ErrInvalidArgument is returned when a required argument is empty
var ErrInvalidArgument = errors.New("catalog: invalid argument")

// Client is the set of catalog lookups the rest of the system uses
type Client interface {
	ListCategories(ctx context.Context) ([]string, error)
	SearchByTerm(ctx context.Context, term string) ([]domain.Meal, error)
	FilterByCategory(ctx context.Context, category string) ([]domain.Meal, error)
	LookupByID(ctx context.Context, id string) (*domain.Meal, error)
}

// TransportError reports a failed catalog call
type TransportError struct {
	Op         string // client operation, e.g. "search"
	URL        string
	StatusCode int // non-zero when the server answered with a bad status
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is (or wraps) a *TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func requireArg(op, name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s requires a non-empty %s", ErrInvalidArgument, op, name)
	}
	return nil
}
