package transform

import (
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/cqfill/css"
)

// sentinelClass is the class an author must attach via
// :not(.container-query-polyfill) when the environment cannot use
// :where().
const sentinelClass = "container-query-polyfill"

// Historical single-colon pseudo-elements; these start the
// pseudo-element suffix even without the double colon.
var singleColonPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// mangleSelectorList rewrites a style rule's selector list under an
// @container rule: each comma-separated component is partitioned into a
// non-pseudo prefix and a pseudo-element suffix, the prefix is recorded
// as an element selector on the descriptor, and the style selector
// gains an attribute check on the descriptor's id.
func (t *transformer) mangleSelectorList(prelude []css.ComponentValue, idx int) string {
	uid := t.descriptors[idx].UID
	parts := splitOnCommas(prelude)

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, t.mangleSelector(part, idx, uid))
	}
	return strings.Join(out, ", ")
}

func (t *transformer) mangleSelector(part []css.ComponentValue, idx int, uid string) string {
	prefixVals, suffixVals := partitionPseudo(part)

	prefix := strings.TrimSpace(css.SerializeValues(prefixVals))
	if prefix == "" {
		prefix = "*"
	}
	suffix := strings.TrimSpace(css.SerializeValues(suffixVals))

	t.addElementSelector(idx, prefix)

	attr := "[" + t.opts.selfAttribute() + `~="` + uid + `"]`

	if t.opts.WhereSupported {
		return prefix + ":where(" + attr + ")" + suffix
	}

	// Without :where(), specificity must not change: the author
	// pre-attaches a dummy :not(.container-query-polyfill) that we
	// swap for the attribute check. The bare attribute selector has
	// the same class-level specificity as the sentinel it replaces.
	marker := ":not(." + sentinelClass + ")"
	if strings.Contains(prefix, marker) {
		return strings.Replace(prefix, marker, attr, 1) + suffix
	}

	t.log.Error("selector is missing the :not(."+sentinelClass+") sentinel and cannot be rewritten",
		zap.String("selector", prefix))
	return prefix + suffix
}

// splitOnCommas splits a selector prelude at top-level comma tokens.
func splitOnCommas(values []css.ComponentValue) [][]css.ComponentValue {
	var parts [][]css.ComponentValue
	var current []css.ComponentValue

	for _, cv := range values {
		if pt, ok := cv.(css.PreservedToken); ok && pt.Token.Type == css.TokenComma {
			parts = append(parts, current)
			current = nil
			continue
		}
		current = append(current, cv)
	}
	return append(parts, current)
}

// partitionPseudo splits one selector into the non-pseudo prefix and
// the pseudo-element suffix. A double colon always starts the suffix;
// a single colon does so only for the historical pseudo-elements.
// Pseudo-classes (ident or function after a single colon) stay in the
// prefix.
func partitionPseudo(values []css.ComponentValue) (prefix, suffix []css.ComponentValue) {
	for i := 0; i < len(values); i++ {
		pt, ok := values[i].(css.PreservedToken)
		if !ok || pt.Token.Type != css.TokenColon {
			continue
		}

		if i+1 < len(values) {
			if next, ok := values[i+1].(css.PreservedToken); ok {
				if next.Token.Type == css.TokenColon {
					return values[:i], values[i:]
				}
				if next.Token.Type == css.TokenIdent &&
					singleColonPseudoElements[strings.ToLower(next.Token.Value)] {
					return values[:i], values[i:]
				}
			}
		}
	}
	return values, nil
}
