package query

import (
	"strings"

	"github.com/chrisuehlinger/cqfill/css"
)

// Length units accepted in feature values.
var featureUnits = map[string]bool{
	"px":    true,
	"rem":   true,
	"em":    true,
	"cqw":   true,
	"cqh":   true,
	"cqi":   true,
	"cqb":   true,
	"cqmin": true,
	"cqmax": true,
}

// ParseFeatureBlock parses the contents of a (…) block as a size
// feature in boolean, plain or range form. It is installed as the
// LeafParser when lowering an @container condition.
func ParseFeatureBlock(b *css.Block) (Node, error) {
	if b.Token.Type != css.TokenOpenParen {
		return nil, ErrParse
	}
	return ParseFeatureValues(b.Values)
}

// ParseFeatureValues parses the component values of a feature block.
func ParseFeatureValues(values []css.ComponentValue) (Node, error) {
	tokens := dropWhitespace(css.ComponentValuesToTokens(values))
	if len(tokens) == 0 {
		return nil, ErrParse
	}

	// Boolean form: a bare feature identifier.
	if len(tokens) == 1 {
		if tokens[0].Type != css.TokenIdent {
			return nil, ErrParse
		}
		feature, ok := ParseFeatureName(tokens[0].Value)
		if !ok {
			return nil, ErrParse
		}
		return &FeatureRef{Feature: feature}, nil
	}

	// Plain form: feature-ident : value, with min-/max- prefixes.
	if tokens[0].Type == css.TokenIdent && tokens[1].Type == css.TokenColon {
		return parsePlainFeature(tokens[0].Value, tokens[2:])
	}

	return parseRangeFeature(tokens)
}

func dropWhitespace(tokens []css.Token) []css.Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		if t.Type != css.TokenWhitespace {
			out = append(out, t)
		}
	}
	return out
}

// parsePlainFeature handles "feature: value". A min-/max- prefix turns
// the implied = into >= / <=.
func parsePlainFeature(name string, rest []css.Token) (Node, error) {
	op := CompareEqual
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "min-"):
		op = CompareGreaterEqual
		lower = lower[len("min-"):]
	case strings.HasPrefix(lower, "max-"):
		op = CompareLessEqual
		lower = lower[len("max-"):]
	}

	feature, ok := ParseFeatureName(lower)
	if !ok {
		return nil, ErrParse
	}

	value, n, err := parseValue(rest)
	if err != nil || n != len(rest) {
		return nil, ErrParse
	}

	return &Comparison{
		Op:    op,
		Left:  &FeatureRef{Feature: feature},
		Right: &Literal{Value: value},
	}, nil
}

// rangeOperand is either a feature reference or a literal value.
type rangeOperand struct {
	feature   Feature
	isFeature bool
	value     Value
}

func (o rangeOperand) node() Node {
	if o.isFeature {
		return &FeatureRef{Feature: o.feature}
	}
	return &Literal{Value: o.value}
}

// parseRangeFeature handles the single- and double-sided range forms.
func parseRangeFeature(tokens []css.Token) (Node, error) {
	left, n, err := parseRangeOperand(tokens)
	if err != nil {
		return nil, err
	}
	tokens = tokens[n:]

	op1, n, err := parseComparator(tokens)
	if err != nil {
		return nil, err
	}
	tokens = tokens[n:]

	middle, n, err := parseRangeOperand(tokens)
	if err != nil {
		return nil, err
	}
	tokens = tokens[n:]

	if len(tokens) == 0 {
		// Single-sided: exactly one side names the feature.
		if left.isFeature == middle.isFeature {
			return nil, ErrParse
		}
		return &Comparison{Op: op1, Left: left.node(), Right: middle.node()}, nil
	}

	// Double-sided: value op feature op value with same-direction ops.
	op2, n, err := parseComparator(tokens)
	if err != nil {
		return nil, err
	}
	tokens = tokens[n:]

	right, n, err := parseRangeOperand(tokens)
	if err != nil || n != len(tokens) {
		return nil, ErrParse
	}

	if left.isFeature || right.isFeature || !middle.isFeature {
		return nil, ErrParse
	}
	if !sameDirection(op1, op2) {
		return nil, ErrParse
	}

	return &Conjunction{
		Left:  &Comparison{Op: op1, Left: left.node(), Right: middle.node()},
		Right: &Comparison{Op: op2, Left: middle.node(), Right: right.node()},
	}, nil
}

func sameDirection(a, b Comparator) bool {
	lessish := func(c Comparator) bool { return c == CompareLess || c == CompareLessEqual }
	greaterish := func(c Comparator) bool { return c == CompareGreater || c == CompareGreaterEqual }
	return (lessish(a) && lessish(b)) || (greaterish(a) && greaterish(b))
}

// parseComparator consumes <, <=, =, >= or >.
func parseComparator(tokens []css.Token) (Comparator, int, error) {
	if len(tokens) == 0 || tokens[0].Type != css.TokenDelim {
		return 0, 0, ErrParse
	}
	eq := len(tokens) > 1 && tokens[1].Type == css.TokenDelim && tokens[1].Delim == '='

	switch tokens[0].Delim {
	case '<':
		if eq {
			return CompareLessEqual, 2, nil
		}
		return CompareLess, 1, nil
	case '>':
		if eq {
			return CompareGreaterEqual, 2, nil
		}
		return CompareGreater, 1, nil
	case '=':
		return CompareEqual, 1, nil
	default:
		return 0, 0, ErrParse
	}
}

// parseRangeOperand consumes a feature name or a value.
func parseRangeOperand(tokens []css.Token) (rangeOperand, int, error) {
	if len(tokens) == 0 {
		return rangeOperand{}, 0, ErrParse
	}
	if tokens[0].Type == css.TokenIdent {
		if feature, ok := ParseFeatureName(tokens[0].Value); ok {
			return rangeOperand{feature: feature, isFeature: true}, 1, nil
		}
	}
	value, n, err := parseValue(tokens)
	if err != nil {
		return rangeOperand{}, 0, err
	}
	return rangeOperand{value: value}, n, nil
}

// parseValue consumes a number, a ratio, a dimension or an orientation
// keyword, returning how many tokens it used.
func parseValue(tokens []css.Token) (Value, int, error) {
	if len(tokens) == 0 {
		return Value{}, 0, ErrParse
	}

	switch tokens[0].Type {
	case css.TokenNumber:
		// Ratio: <number> / <number>, stored as a plain number.
		if len(tokens) >= 3 &&
			tokens[1].Type == css.TokenDelim && tokens[1].Delim == '/' &&
			tokens[2].Type == css.TokenNumber {
			if tokens[2].NumValue == 0 {
				return UnknownValue(), 3, nil
			}
			return NumberValue(tokens[0].NumValue / tokens[2].NumValue), 3, nil
		}
		return NumberValue(tokens[0].NumValue), 1, nil

	case css.TokenDimension:
		unit := strings.ToLower(tokens[0].Unit)
		if !featureUnits[unit] {
			return Value{}, 0, ErrParse
		}
		return DimensionValue(tokens[0].NumValue, unit), 1, nil

	case css.TokenIdent:
		switch strings.ToLower(tokens[0].Value) {
		case "portrait":
			return OrientationValue(Portrait), 1, nil
		case "landscape":
			return OrientationValue(Landscape), 1, nil
		}
		return Value{}, 0, ErrParse

	default:
		return Value{}, 0, ErrParse
	}
}
