package transform

import (
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/cqfill/css"
	"github.com/chrisuehlinger/cqfill/network"
)

// rewriteRuleURLs absolutizes every URL token and every url("…")
// function argument in the rule tree against base. References that fail
// to resolve are left unchanged.
func rewriteRuleURLs(rules []css.Rule, base string, log *zap.Logger) {
	for _, rule := range rules {
		switch v := rule.(type) {
		case *css.AtRule:
			rewriteValueURLs(v.Prelude, base, log)
			if v.Block != nil {
				rewriteValueURLs(v.Block.Values, base, log)
			}
		case *css.QualifiedRule:
			rewriteValueURLs(v.Prelude, base, log)
			if v.Block != nil {
				rewriteValueURLs(v.Block.Values, base, log)
			}
		}
	}
}

func rewriteValueURLs(values []css.ComponentValue, base string, log *zap.Logger) {
	for i, cv := range values {
		switch v := cv.(type) {
		case css.PreservedToken:
			if v.Token.Type == css.TokenURL {
				v.Token.Value = resolveRef(base, v.Token.Value, log)
				values[i] = v
			}
		case *css.Function:
			if strings.EqualFold(v.Name, "url") {
				rewriteURLFunctionArg(v, base, log)
			}
			rewriteValueURLs(v.Values, base, log)
		case *css.Block:
			rewriteValueURLs(v.Values, base, log)
		}
	}
}

// rewriteURLFunctionArg rewrites the first string argument of a
// url("…") call.
func rewriteURLFunctionArg(fn *css.Function, base string, log *zap.Logger) {
	for i, cv := range fn.Values {
		pt, ok := cv.(css.PreservedToken)
		if !ok {
			continue
		}
		if pt.Token.Type == css.TokenWhitespace {
			continue
		}
		if pt.Token.Type == css.TokenString {
			pt.Token.Value = resolveRef(base, pt.Token.Value, log)
			fn.Values[i] = pt
		}
		return
	}
}

func resolveRef(base, ref string, log *zap.Logger) string {
	if network.IsDataURL(ref) || network.IsAbsoluteURL(ref) {
		return ref
	}
	resolved, err := network.ResolveURL(base, ref)
	if err != nil {
		log.Warn("leaving unresolvable url() reference unchanged",
			zap.String("ref", ref), zap.Error(err))
		return ref
	}
	return resolved
}
