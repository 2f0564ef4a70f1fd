// Package query implements parsing and evaluation of container query
// conditions: the generic media-condition grammar, the size-feature
// forms, the @container prelude and container declaration values, and a
// three-valued evaluator over a layout context.
package query

import (
	"errors"
	"strings"
)

// ErrParse is the sentinel returned by every parser layer in this
// package. Callers decide whether to skip a declaration, a rule, or to
// fall back to the unknown value.
var ErrParse = errors.New("query: parse error")

// Feature identifies a container size feature.
type Feature int

const (
	FeatureWidth Feature = iota
	FeatureHeight
	FeatureInlineSize
	FeatureBlockSize
	FeatureAspectRatio
	FeatureOrientation
)

var featureNames = map[string]Feature{
	"width":        FeatureWidth,
	"height":       FeatureHeight,
	"inline-size":  FeatureInlineSize,
	"block-size":   FeatureBlockSize,
	"aspect-ratio": FeatureAspectRatio,
	"orientation":  FeatureOrientation,
}

// ParseFeatureName maps a feature identifier to its Feature, case
// insensitively.
func ParseFeatureName(name string) (Feature, bool) {
	f, ok := featureNames[strings.ToLower(name)]
	return f, ok
}

func (f Feature) String() string {
	switch f {
	case FeatureWidth:
		return "width"
	case FeatureHeight:
		return "height"
	case FeatureInlineSize:
		return "inline-size"
	case FeatureBlockSize:
		return "block-size"
	case FeatureAspectRatio:
		return "aspect-ratio"
	case FeatureOrientation:
		return "orientation"
	default:
		return "unknown"
	}
}

// Comparator is a comparison operator in a feature expression.
type Comparator int

const (
	CompareEqual Comparator = iota
	CompareLess
	CompareLessEqual
	CompareGreater
	CompareGreaterEqual
)

func (c Comparator) String() string {
	switch c {
	case CompareEqual:
		return "="
	case CompareLess:
		return "<"
	case CompareLessEqual:
		return "<="
	case CompareGreater:
		return ">"
	case CompareGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Node is one node of a condition AST. The AST is a plain tagged sum;
// evaluation walks it with type switches.
type Node interface {
	conditionNode()
}

// Negation negates its child.
type Negation struct {
	Child Node
}

// Conjunction is a short-circuiting "and".
type Conjunction struct {
	Left, Right Node
}

// Disjunction is a short-circuiting "or".
type Disjunction struct {
	Left, Right Node
}

// Comparison compares two operands, each a FeatureRef or a Literal.
type Comparison struct {
	Op          Comparator
	Left, Right Node
}

// FeatureRef references a size feature of the candidate container.
type FeatureRef struct {
	Feature Feature
}

// Literal holds a constant value.
type Literal struct {
	Value Value
}

func (*Negation) conditionNode()    {}
func (*Conjunction) conditionNode() {}
func (*Disjunction) conditionNode() {}
func (*Comparison) conditionNode()  {}
func (*FeatureRef) conditionNode()  {}
func (*Literal) conditionNode()     {}

// Tril is the three-valued logic result of evaluating a condition.
type Tril int

const (
	False Tril = iota
	True
	Unknown
)

// Negate flips a boolean; unknown stays unknown.
func (t Tril) Negate() Tril {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Bool renders the result as a nullable boolean for the public API
// boundary: nil means unknown.
func (t Tril) Bool() *bool {
	switch t {
	case True:
		v := true
		return &v
	case False:
		v := false
		return &v
	default:
		return nil
	}
}

func (t Tril) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// CollectFeatures walks a condition AST and records every referenced
// size feature into set.
func CollectFeatures(n Node, set map[Feature]struct{}) {
	switch v := n.(type) {
	case *Negation:
		CollectFeatures(v.Child, set)
	case *Conjunction:
		CollectFeatures(v.Left, set)
		CollectFeatures(v.Right, set)
	case *Disjunction:
		CollectFeatures(v.Left, set)
		CollectFeatures(v.Right, set)
	case *Comparison:
		CollectFeatures(v.Left, set)
		CollectFeatures(v.Right, set)
	case *FeatureRef:
		set[v.Feature] = struct{}{}
	}
}
