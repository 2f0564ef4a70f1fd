package query

import (
	"strings"

	"github.com/chrisuehlinger/cqfill/css"
)

// KeywordPrefix is prepended to CSS-wide keywords before they are
// stored in custom-property values, so the engine does not apply their
// cascade semantics when the rewritten declaration is parsed again.
const KeywordPrefix = "cq-"

var cssWideKeywords = map[string]bool{
	"initial":      true,
	"inherit":      true,
	"unset":        true,
	"revert":       true,
	"revert-layer": true,
}

// Names a container may not take: condition keywords and property
// keywords. The CSS-wide keywords are rejected as well, through
// cssWideKeywords in isValidContainerName.
var reservedContainerNames = map[string]bool{
	"none":   true,
	"and":    true,
	"not":    true,
	"or":     true,
	"normal": true,
	"auto":   true,
}

func isCSSWideKeyword(name string) bool {
	return cssWideKeywords[strings.ToLower(name)]
}

func isValidContainerName(name string) bool {
	lower := strings.ToLower(name)
	return !reservedContainerNames[lower] && !cssWideKeywords[lower]
}

// ContainerRule is the parsed form of an @container prelude: an
// optional container name, the lowered condition AST and the set of
// size features the condition references. The feature set short-
// circuits evaluation when a precomputed feature is unknown.
type ContainerRule struct {
	Name      string
	Condition Node
	Features  map[Feature]struct{}
}

// ParseContainerRule parses an @container prelude: [ <name> ]?
// <condition>. Every condition leaf is reinterpreted as a feature
// block; leaves that fail that reinterpretation lower to the unknown
// literal inside ParseCondition.
func ParseContainerRule(prelude []css.ComponentValue) (*ContainerRule, error) {
	rule := &ContainerRule{Features: make(map[Feature]struct{})}

	rest := prelude
	if name, n, ok := leadingName(prelude); ok {
		rule.Name = name
		rest = prelude[n:]
	}

	cond, err := ParseCondition(rest, ParseFeatureBlock)
	if err != nil {
		return nil, err
	}
	rule.Condition = cond
	CollectFeatures(cond, rule.Features)
	return rule, nil
}

// leadingName detects an optional container name at the head of the
// prelude. Reserved keywords are never names; "not" in particular
// starts a condition.
func leadingName(prelude []css.ComponentValue) (string, int, bool) {
	for i, cv := range prelude {
		pt, ok := cv.(css.PreservedToken)
		if !ok {
			return "", 0, false
		}
		if pt.Token.Type == css.TokenWhitespace {
			continue
		}
		if pt.Token.Type != css.TokenIdent || !isValidContainerName(pt.Token.Value) {
			return "", 0, false
		}
		return pt.Token.Value, i + 1, true
	}
	return "", 0, false
}

// identList extracts the non-whitespace tokens of a declaration value,
// requiring every one to be an identifier.
func identList(values []css.ComponentValue) ([]string, error) {
	tokens := dropWhitespace(css.ComponentValuesToTokens(values))
	if len(tokens) == 0 {
		return nil, ErrParse
	}
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != css.TokenIdent {
			return nil, ErrParse
		}
		names = append(names, t.Value)
	}
	return names, nil
}

// ParseContainerNameProperty parses a container-name declaration value:
// <name>+ | none | <css-wide>. CSS-wide keywords are only valid when
// the declaration stands alone, and are preserved behind KeywordPrefix.
func ParseContainerNameProperty(values []css.ComponentValue, standalone bool) ([]string, error) {
	idents, err := identList(values)
	if err != nil {
		return nil, err
	}

	if len(idents) == 1 {
		lower := strings.ToLower(idents[0])
		if lower == "none" {
			return []string{KeywordPrefix + "none"}, nil
		}
		if isCSSWideKeyword(lower) {
			if !standalone {
				return nil, ErrParse
			}
			return []string{KeywordPrefix + lower}, nil
		}
	}

	for _, name := range idents {
		if !isValidContainerName(name) {
			return nil, ErrParse
		}
	}
	return idents, nil
}

// ParseContainerTypeProperty parses a container-type declaration value:
// size | inline-size | normal | <css-wide>.
func ParseContainerTypeProperty(values []css.ComponentValue, standalone bool) ([]string, error) {
	idents, err := identList(values)
	if err != nil {
		return nil, err
	}

	if len(idents) == 1 && isCSSWideKeyword(idents[0]) {
		if !standalone {
			return nil, ErrParse
		}
		return []string{KeywordPrefix + strings.ToLower(idents[0])}, nil
	}

	types := make([]string, 0, len(idents))
	for _, ident := range idents {
		lower := strings.ToLower(ident)
		switch lower {
		case "size", "inline-size", "normal":
			types = append(types, lower)
		default:
			return nil, ErrParse
		}
	}
	return types, nil
}

// ParseContainerShorthand parses the container shorthand:
// <name-list> [ / <type-list> ]?. Either side of the slash may be
// empty; missing sides take their property's initial value. A lone
// CSS-wide keyword applies to both longhands.
func ParseContainerShorthand(values []css.ComponentValue) (names, types []string, err error) {
	tokens := dropWhitespace(css.ComponentValuesToTokens(values))
	if len(tokens) == 0 {
		return nil, nil, ErrParse
	}

	if len(tokens) == 1 && tokens[0].Type == css.TokenIdent && isCSSWideKeyword(tokens[0].Value) {
		sentinel := KeywordPrefix + strings.ToLower(tokens[0].Value)
		return []string{sentinel}, []string{sentinel}, nil
	}

	slash := -1
	for i, t := range tokens {
		if t.Type == css.TokenDelim && t.Delim == '/' {
			slash = i
			break
		}
	}

	nameTokens := tokens
	var typeTokens []css.Token
	if slash >= 0 {
		nameTokens = tokens[:slash]
		typeTokens = tokens[slash+1:]
	}

	names, err = shorthandNames(nameTokens)
	if err != nil {
		return nil, nil, err
	}
	types, err = shorthandTypes(typeTokens)
	if err != nil {
		return nil, nil, err
	}
	return names, types, nil
}

func shorthandNames(tokens []css.Token) ([]string, error) {
	if len(tokens) == 0 {
		return []string{KeywordPrefix + "none"}, nil
	}
	if len(tokens) == 1 && tokens[0].Type == css.TokenIdent && strings.EqualFold(tokens[0].Value, "none") {
		return []string{KeywordPrefix + "none"}, nil
	}
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != css.TokenIdent || !isValidContainerName(t.Value) {
			return nil, ErrParse
		}
		names = append(names, t.Value)
	}
	return names, nil
}

func shorthandTypes(tokens []css.Token) ([]string, error) {
	if len(tokens) == 0 {
		return []string{"normal"}, nil
	}
	types := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != css.TokenIdent {
			return nil, ErrParse
		}
		lower := strings.ToLower(t.Value)
		switch lower {
		case "size", "inline-size", "normal":
			types = append(types, lower)
		default:
			return nil, ErrParse
		}
	}
	return types, nil
}
