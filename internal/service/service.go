// Package service holds the marketplace rules: who may create, change or
// delete which record, and how applications are submitted and reviewed.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/store"

	"github.com/sirupsen/logrus"
)

// Cache keys for the public listing lists
const (
	jobsListKey     = "listings:jobs"
	programsListKey = "listings:programs"
)

// Cache is the subset of cache.Cache the services use
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// noCache stands in when no cache is configured
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any) error         { return nil }
func (noCache) Delete(context.Context, ...string) error        { return nil }

func orNoCache(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}

// Patch is a partial update: top-level fields present in the body replace
// the stored value, absent fields are left untouched.
type Patch map[string]json.RawMessage

// storeFailure wraps an unexpected persistence error
func storeFailure(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}

// notFoundOr maps store.ErrNotFound to a domain not-found error and anything
// else to a store failure
func notFoundOr(err error, resource, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound(resource)
	}
	return storeFailure(op, err)
}

// invalidate drops cached lists. Failures only cost freshness, so they are logged.
func invalidate(ctx context.Context, c Cache, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logrus.WithFields(logrus.Fields{"keys": keys, "error": err.Error()}).Warn("Cache invalidation failed")
	}
}

// applyPatch overlays patch onto the JSON form of base and decodes the
// result into dest. Keys listed in protected are ignored.
func applyPatch(base any, patch Patch, dest any, protected ...string) error {
	raw, err := json.Marshal(base)
	if err != nil {
		return err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return err
	}
	skip := make(map[string]bool, len(protected))
	for _, k := range protected {
		skip[k] = true
	}
	for k, v := range patch {
		if !skip[k] {
			merged[k] = v
		}
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return domain.Invalid("body", "patch does not match the resource schema")
	}
	return nil
}

// dateField parses a date input, recording a field error on failure
func dateField(param, value string, errs *[]domain.FieldError) time.Time {
	if value == "" {
		*errs = append(*errs, domain.FieldError{Param: param, Msg: param + " is required"})
		return time.Time{}
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		*errs = append(*errs, domain.FieldError{Param: param, Msg: param + " must be a valid date"})
		return time.Time{}
	}
	return t
}

// validateWith runs struct validation on v and merges the result with
// errors already collected. Struct errors on params already reported are dropped.
func validateWith(v any, errs []domain.FieldError) error {
	seen := make(map[string]bool, len(errs))
	for _, fe := range errs {
		seen[fe.Param] = true
	}
	if err := domain.Validate(v); err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, fe := range verr.Errors {
			if !seen[fe.Param] {
				errs = append(errs, fe)
			}
		}
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// formatDate renders a stored date in the form accepted by ParseDate
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
