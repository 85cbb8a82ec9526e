package eval

import (
	"fmt"

	"github.com/agext/levenshtein"

	"github.com/walteh/gotmpl/pkg/span"
	"github.com/walteh/gotmpl/pkg/telemetry"
)

// stockHelperNames mirrors pkg/helpers/stock.go's registrations — the
// "stock text/template" row of the conformance table — so telemetry can
// distinguish stock calls from sprig-style ones without the registry
// itself needing to carry that metadata.
var stockHelperNames = map[string]bool{
	"eq": true, "ne": true, "lt": true, "le": true, "gt": true, "ge": true,
	"not": true, "and": true, "or": true,
	"len": true, "index": true, "slice": true,
	"print": true, "println": true, "printf": true,
	"html": true, "js": true, "urlquery": true,
	"call": true,
}

func classifyHelper(name string) telemetry.Kind {
	if stockHelperNames[name] {
		return telemetry.KindStock
	}
	return telemetry.KindSprig
}

// unknownFunctionError builds the stable "unknown function" message (spec
// §4.6/§8), appending a "(did you mean ...)" suggestion when some
// registered name is a close edit-distance match. The suggestion is purely
// additive — it never changes the required leading substring.
func (c *evalContext) unknownFunctionError(name string) error {
	msg := fmt.Sprintf("unknown function %q", name)
	if s := bestSuggestion(name, c.registry.Names()); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return span.NewRenderErrorNoSpan(msg)
}

// bestSuggestion returns the closest candidate to name within a small edit
// distance, or "" if nothing is close enough to be useful.
func bestSuggestion(name string, candidates []string) string {
	const maxDistance = 2
	best := ""
	bestDist := maxDistance + 1
	for _, cand := range candidates {
		d := levenshtein.Distance(name, cand, nil)
		if d < bestDist {
			bestDist = d
			best = cand
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
