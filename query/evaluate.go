package query

import "math"

// Evaluate resolves a container rule against a layout context. It is
// pure: the same inputs always produce the same result.
//
// Every feature the rule references is precomputed first; if any of
// them is unknown, the whole rule is unknown regardless of the shape of
// the condition.
func Evaluate(rule *ContainerRule, ctx Context) Tril {
	resolved := make(map[Feature]Value, len(rule.Features))
	for f := range rule.Features {
		v := resolveFeature(f, ctx)
		if v.Kind == ValueUnknown {
			return Unknown
		}
		resolved[f] = v
	}
	return eval(rule.Condition, resolved, ctx.Tree)
}

// resolveFeature reads one feature from the context's size snapshot.
func resolveFeature(f Feature, ctx Context) Value {
	switch f {
	case FeatureWidth:
		return physicalSize(ctx, FeatureWidth)
	case FeatureHeight:
		return physicalSize(ctx, FeatureHeight)
	case FeatureInlineSize:
		if ctx.Tree.WritingAxis == Vertical {
			return physicalSize(ctx, FeatureHeight)
		}
		return physicalSize(ctx, FeatureWidth)
	case FeatureBlockSize:
		if ctx.Tree.WritingAxis == Vertical {
			return physicalSize(ctx, FeatureWidth)
		}
		return physicalSize(ctx, FeatureHeight)
	case FeatureAspectRatio:
		w := physicalSize(ctx, FeatureWidth)
		h := physicalSize(ctx, FeatureHeight)
		if w.Kind == ValueUnknown || h.Kind == ValueUnknown || h.Number <= 0 {
			return UnknownValue()
		}
		return NumberValue(w.Number / h.Number)
	case FeatureOrientation:
		w := physicalSize(ctx, FeatureWidth)
		h := physicalSize(ctx, FeatureHeight)
		if w.Kind == ValueUnknown || h.Kind == ValueUnknown {
			return UnknownValue()
		}
		if h.Number >= w.Number {
			return OrientationValue(Portrait)
		}
		return OrientationValue(Landscape)
	default:
		return UnknownValue()
	}
}

// physicalSize normalizes a snapshot entry to a pixel dimension. Hosts
// may supply plain numbers or px dimensions.
func physicalSize(ctx Context, f Feature) Value {
	v, ok := ctx.Features[f]
	if !ok {
		return UnknownValue()
	}
	switch v.Kind {
	case ValueNumber:
		return PxValue(v.Number)
	case ValueDimension:
		if v.Unit == "px" {
			return v
		}
		return UnknownValue()
	default:
		return UnknownValue()
	}
}

func eval(n Node, resolved map[Feature]Value, tree TreeContext) Tril {
	switch v := n.(type) {
	case *Negation:
		return eval(v.Child, resolved, tree).Negate()

	case *Conjunction:
		left := eval(v.Left, resolved, tree)
		if left != True {
			return left
		}
		return eval(v.Right, resolved, tree)

	case *Disjunction:
		left := eval(v.Left, resolved, tree)
		if left == True {
			return left
		}
		return eval(v.Right, resolved, tree)

	case *Comparison:
		return evalComparison(v, resolved, tree)

	case *FeatureRef:
		return booleanContext(operandValue(v, resolved))

	case *Literal:
		return booleanContext(v.Value)

	default:
		return Unknown
	}
}

// booleanContext collapses a value in boolean position: zero lengths
// and numbers are false, orientation always has a value.
func booleanContext(v Value) Tril {
	switch v.Kind {
	case ValueNumber, ValueDimension:
		if v.Number != 0 {
			return True
		}
		return False
	case ValueOrientation:
		return True
	case ValueBoolean:
		if v.Bool {
			return True
		}
		return False
	default:
		return Unknown
	}
}

func operandValue(n Node, resolved map[Feature]Value) Value {
	switch v := n.(type) {
	case *FeatureRef:
		if val, ok := resolved[v.Feature]; ok {
			return val
		}
		return UnknownValue()
	case *Literal:
		return v.Value
	default:
		return UnknownValue()
	}
}

func evalComparison(c *Comparison, resolved map[Feature]Value, tree TreeContext) Tril {
	left := operandValue(c.Left, resolved)
	right := operandValue(c.Right, resolved)

	if left.Kind == ValueUnknown || right.Kind == ValueUnknown {
		return Unknown
	}

	// Orientation and boolean operands only support equality.
	if left.Kind == ValueOrientation && right.Kind == ValueOrientation {
		if c.Op != CompareEqual {
			return Unknown
		}
		return fromBool(left.Orientation == right.Orientation)
	}
	if left.Kind == ValueBoolean && right.Kind == ValueBoolean {
		if c.Op != CompareEqual {
			return Unknown
		}
		return fromBool(left.Bool == right.Bool)
	}

	if left.Kind == ValueDimension || right.Kind == ValueDimension {
		lpx, lok := toPixels(left, tree)
		rpx, rok := toPixels(right, tree)
		if !lok || !rok {
			return Unknown
		}
		return compare(c.Op, lpx, rpx)
	}

	if left.Kind == ValueNumber && right.Kind == ValueNumber {
		return compare(c.Op, left.Number, right.Number)
	}

	return Unknown
}

func fromBool(b bool) Tril {
	if b {
		return True
	}
	return False
}

func compare(op Comparator, l, r float64) Tril {
	switch op {
	case CompareEqual:
		return fromBool(l == r)
	case CompareLess:
		return fromBool(l < r)
	case CompareLessEqual:
		return fromBool(l <= r)
	case CompareGreater:
		return fromBool(l > r)
	case CompareGreaterEqual:
		return fromBool(l >= r)
	default:
		return Unknown
	}
}

// toPixels coerces a value to a pixel length. A bare number is only
// coercible when it is zero; container-relative units collapse to
// unknown when the corresponding scale is absent from the tree context.
func toPixels(v Value, tree TreeContext) (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		if v.Number == 0 {
			return 0, true
		}
		return 0, false
	case ValueDimension:
		switch v.Unit {
		case "px":
			return v.Number, true
		case "em":
			return v.Number * tree.FontSize, true
		case "rem":
			return v.Number * tree.RootFontSize, true
		case "cqw":
			return scaled(v.Number, tree.CQW)
		case "cqh":
			return scaled(v.Number, tree.CQH)
		case "cqi":
			return scaled(v.Number, tree.cqi())
		case "cqb":
			return scaled(v.Number, tree.cqb())
		case "cqmin":
			return scaledMinMax(v.Number, tree, math.Min)
		case "cqmax":
			return scaledMinMax(v.Number, tree, math.Max)
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

func scaled(n float64, scale *float64) (float64, bool) {
	if scale == nil {
		return 0, false
	}
	return n * *scale, true
}

func scaledMinMax(n float64, tree TreeContext, pick func(a, b float64) float64) (float64, bool) {
	i := tree.cqi()
	b := tree.cqb()
	if i == nil || b == nil {
		return 0, false
	}
	return n * pick(*i, *b), true
}
