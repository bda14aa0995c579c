// Package rules is the catalog of rewrite rules, in their intended order.
package rules

import (
	"errors"
	"fmt"

	"github.com/DeusData/unminify/internal/rule"
)

// ErrUnknownRule is returned by ByID for an id that is not in the catalog.
var ErrUnknownRule = errors.New("unknown rule")

// All returns every rule in execution order. The slice is fresh on each call.
func All() []rule.Rule {
	return []rule.Rule{
		UnIIFE,
		ModuleMapping,
		UnBoolean,
		UnInfinity,
		UnVoidZero,
		UnTypeof,
	}
}

// IDs returns the ids of All in order.
func IDs() []string {
	all := All()
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	return ids
}

// ByID returns the named rules in the order given. An empty list selects all.
func ByID(ids []string) ([]rule.Rule, error) {
	if len(ids) == 0 {
		return All(), nil
	}
	byID := make(map[string]rule.Rule)
	for _, r := range All() {
		byID[r.ID] = r
	}
	out := make([]rule.Rule, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, id)
		}
		out = append(out, r)
	}
	return out, nil
}
