package control

import (
	"context"
	"sort"

	"github.com/goliatone/go-formstate/pkg/paths"
)

// SubmitFunc receives the deep-copied value snapshot of a record that passed
// validation. Its error is returned from Submit untransformed.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// InvalidFunc receives the error map that blocked a submit.
type InvalidFunc func(errs map[string][]string)

// Submit validates every rule-bearing path, then either hands the values to
// onSubmit or reports the failures.
//
// The freshly built error map always replaces the whole stored map, so
// errors on paths this pass did not cover are cleared. When any path fails,
// the OnInvalid callback runs, onSubmit does not, and Submit returns nil:
// validation failures are state, not errors. Otherwise the submitting flag
// is set for the duration of onSubmit and cleared again no matter how the
// callback returns.
//
// Re-entrant submits are not guarded; callers wanting to serialize them can
// check IsSubmitting first.
func (c *Control) Submit(ctx context.Context, onSubmit SubmitFunc, opts ...SubmitOption) error {
	cfg := applySubmitOptions(opts)
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	keys := make([]string, 0, len(c.rec.rules))
	for path := range c.rec.rules {
		keys = append(keys, path)
	}
	c.mu.Unlock()
	sort.Strings(keys)

	failed := make(map[string][]string)
	for _, path := range keys {
		if msgs := c.evaluate(path); len(msgs) > 0 {
			failed[path] = msgs
		}
	}

	c.mu.Lock()
	c.rec.errors = cloneErrors(failed)
	c.mu.Unlock()
	c.touch()

	if len(failed) > 0 {
		if cfg.onInvalid != nil {
			cfg.onInvalid(cloneErrors(failed))
		}
		return nil
	}
	if onSubmit == nil {
		return nil
	}

	c.mu.Lock()
	snapshot := paths.CloneRecord(c.rec.values)
	c.mu.Unlock()

	c.submitting.Set(true)
	defer c.submitting.Set(false)
	return onSubmit(ctx, snapshot)
}
