// Package repos implements the domain repositories as JSON arrays kept in a core.Store, one key per collection.
package repos

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

// store keys
const (
	keyStudents           = "students"
	keyStaff              = "otherUsers"
	keyCompanies          = "companies"
	keyEligibleStudents   = "eligibleStudents"
	keyAssignments        = "studentAssignments"
	keyApplications       = "applications"
	keyNotifications      = "notifications"
	keyPlacements         = "selfPlacements"
	keyLogbooks           = "logbooks"
	keyMonthlyEvaluations = "monthlyEvaluations"
	keyFinalEvaluations   = "finalEvaluations"
)

// collection is the array of T stored under key.
type collection[T any] struct {
	store core.Store
	key   string
}

func newCollection[T any](store core.Store, key string) collection[T] {
	return collection[T]{store: store, key: key}
}

func (c collection[T]) decode(doc []byte) ([]T, error) {
	items := make([]T, 0)
	if len(doc) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", c.key)
	}
	return items, nil
}

func (c collection[T]) all(ctx context.Context) ([]T, error) {
	doc, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", c.key)
	}
	return c.decode(doc)
}

// filter returns the items keep accepts, in stored order.
func (c collection[T]) filter(ctx context.Context, keep func(item T) bool) ([]T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// find returns the first item match accepts, or notFound.
func (c collection[T]) find(ctx context.Context, notFound error, match func(item T) bool) (T, error) {
	var zero T
	items, err := c.all(ctx)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if match(it) {
			return it, nil
		}
	}
	return zero, notFound
}

// mutate replaces the whole collection with the result of fn in a single store update.
// fn's error is returned as is, and nothing is written.
func (c collection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.store.Update(ctx, c.key, func(current []byte) ([]byte, error) {
		items, err := c.decode(current)
		if err != nil {
			return nil, err
		}
		if items, err = fn(items); err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
}

// modify applies fn to the first item match accepts and stores it in place.
func (c collection[T]) modify(ctx context.Context, notFound error, match func(item T) bool, fn func(item *T) error) (T, error) {
	var result T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if !match(items[i]) {
				continue
			}
			it := items[i]
			if err := fn(&it); err != nil {
				return nil, err
			}
			items[i] = it
			result = it
			return items, nil
		}
		return nil, notFound
	})
	return result, err
}

// add appends item unless check rejects it.
func (c collection[T]) add(ctx context.Context, item T, check func(existing T) error) (T, error) {
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		if check != nil {
			for _, it := range items {
				if err := check(it); err != nil {
					return nil, err
				}
			}
		}
		return append(items, item), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}
