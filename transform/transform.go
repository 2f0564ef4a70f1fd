package transform

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/cqfill/css"
	"github.com/chrisuehlinger/cqfill/query"
)

// Transform rewrites a stylesheet, returning the transformed source and
// the descriptors for every @container rule it found. Malformed
// sub-trees are either left unchanged or dropped at the smallest
// well-bounded boundary; Transform itself does not fail.
func Transform(source string, opts Options) (string, []Descriptor) {
	opts.Normalize()

	t := &transformer{opts: opts, log: opts.Logger, counter: opts.IDOffset}
	sheet := css.Parse(source)

	if opts.BaseURL != "" {
		rewriteRuleURLs(sheet.Rules, opts.BaseURL, t.log)
	}

	out := t.transformRules(sheet.Rules, -1)
	return out, t.descriptors
}

type transformer struct {
	opts        Options
	log         *zap.Logger
	descriptors []Descriptor
	counter     int

	// Per-descriptor element-selector accumulation, keyed by
	// descriptor index.
	elementSelectors map[int][]string
	selectorSeen     map[int]map[string]bool
}

// transformRules walks one rule list. parent is the index of the
// enclosing @container descriptor, or -1.
func (t *transformer) transformRules(rules []css.Rule, parent int) string {
	var sb strings.Builder
	for _, rule := range rules {
		switch v := rule.(type) {
		case *css.AtRule:
			sb.WriteString(t.transformAtRule(v, parent))
		case *css.QualifiedRule:
			sb.WriteString(t.transformStyleRule(v, parent))
		}
	}
	return sb.String()
}

func (t *transformer) transformAtRule(rule *css.AtRule, parent int) string {
	switch strings.ToLower(rule.Name) {
	case "container":
		return t.transformContainerRule(rule, parent)
	case "media", "layer":
		return t.transformGroupingRule(rule, rule.Prelude, parent)
	case "supports":
		prelude := t.rewriteSupportsCondition(rule.Prelude)
		return t.transformGroupingRule(rule, prelude, parent)
	case "keyframes", "-webkit-keyframes":
		return t.transformKeyframes(rule)
	default:
		return css.SerializeRule(rule)
	}
}

// transformContainerRule replaces an @container rule with an
// always-live @media all block whose style rules only match elements
// the host has tagged with the descriptor's id.
func (t *transformer) transformContainerRule(rule *css.AtRule, parent int) string {
	if rule.Block == nil {
		return css.SerializeRule(rule)
	}

	parsed, err := query.ParseContainerRule(rule.Prelude)
	if err != nil {
		t.log.Debug("leaving unparseable @container prelude unchanged",
			zap.String("prelude", css.SerializeValues(rule.Prelude)))
		return css.SerializeRule(rule)
	}

	idx := len(t.descriptors)
	uid := fmt.Sprintf("cq-%s-%d", t.opts.Salt, t.counter)
	t.counter++
	t.descriptors = append(t.descriptors, Descriptor{
		Rule:   parsed,
		UID:    uid,
		Parent: parent,
	})

	inner := css.ParseRuleListFromValues(rule.Block.Values)
	body := t.transformRules(inner, idx)

	if t.elementSelectors != nil {
		t.descriptors[idx].Selector = strings.Join(t.elementSelectors[idx], ", ")
	}

	return "@media all{" + body + "}"
}

// transformGroupingRule recurses into @media/@supports/@layer bodies so
// nested @container rules are discovered.
func (t *transformer) transformGroupingRule(rule *css.AtRule, prelude []css.ComponentValue, parent int) string {
	if rule.Block == nil {
		out := *rule
		out.Prelude = prelude
		return css.SerializeRule(&out)
	}
	inner := css.ParseRuleListFromValues(rule.Block.Values)
	return "@" + rule.Name + strings.TrimRight(css.SerializeValues(prelude), " ") +
		"{" + t.transformRules(inner, parent) + "}"
}

// transformKeyframes rewrites container-relative units inside each
// keyframe's declaration block.
func (t *transformer) transformKeyframes(rule *css.AtRule) string {
	if rule.Block == nil {
		return css.SerializeRule(rule)
	}

	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(rule.Name)
	sb.WriteString(strings.TrimRight(css.SerializeValues(rule.Prelude), " "))
	sb.WriteByte('{')
	for _, inner := range css.ParseRuleListFromValues(rule.Block.Values) {
		keyframe, ok := inner.(*css.QualifiedRule)
		if !ok || keyframe.Block == nil {
			sb.WriteString(css.SerializeRule(inner))
			continue
		}
		decls := css.ParseDeclarationListFromValues(keyframe.Block.Values)
		for _, d := range decls {
			d.Value = t.rewriteUnits(d.Value)
		}
		sb.WriteString(strings.TrimSpace(css.SerializeValues(keyframe.Prelude)))
		sb.WriteByte('{')
		sb.WriteString(css.SerializeDeclarations(decls))
		sb.WriteByte('}')
	}
	sb.WriteByte('}')
	return sb.String()
}

// transformStyleRule rewrites a plain style rule: its declarations
// always, its selectors when it sits under an @container rule.
func (t *transformer) transformStyleRule(rule *css.QualifiedRule, parent int) string {
	if rule.Block == nil {
		return css.SerializeRule(rule)
	}

	selector := strings.TrimSpace(css.SerializeValues(rule.Prelude))
	if parent >= 0 {
		selector = t.mangleSelectorList(rule.Prelude, parent)
	}

	decls := css.ParseDeclarationListFromValues(rule.Block.Values)
	return selector + "{" + css.SerializeDeclarations(t.rewriteDeclarations(decls)) + "}"
}

func (t *transformer) addElementSelector(idx int, prefix string) {
	if t.elementSelectors == nil {
		t.elementSelectors = make(map[int][]string)
		t.selectorSeen = make(map[int]map[string]bool)
	}
	seen := t.selectorSeen[idx]
	if seen == nil {
		seen = make(map[string]bool)
		t.selectorSeen[idx] = seen
	}
	if seen[prefix] {
		return
	}
	seen[prefix] = true
	t.elementSelectors[idx] = append(t.elementSelectors[idx], prefix)
}
