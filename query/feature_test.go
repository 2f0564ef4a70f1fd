package query

import (
	"testing"

	"github.com/chrisuehlinger/cqfill/css"
)

// featureBlock parses "(…)" into its block node.
func featureBlock(t *testing.T, source string) *css.Block {
	t.Helper()
	values := conditionValues(t, source)
	for _, cv := range values {
		if b, ok := cv.(*css.Block); ok {
			return b
		}
	}
	t.Fatalf("no block in %q", source)
	return nil
}

func TestParseFeatureBooleanForm(t *testing.T) {
	tests := []struct {
		input   string
		feature Feature
	}{
		{"(width)", FeatureWidth},
		{"(height)", FeatureHeight},
		{"(inline-size)", FeatureInlineSize},
		{"(block-size)", FeatureBlockSize},
		{"(aspect-ratio)", FeatureAspectRatio},
		{"(orientation)", FeatureOrientation},
	}

	for _, tt := range tests {
		node, err := ParseFeatureBlock(featureBlock(t, tt.input))
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		ref, ok := node.(*FeatureRef)
		if !ok {
			t.Errorf("input %q: expected FeatureRef, got %T", tt.input, node)
			continue
		}
		if ref.Feature != tt.feature {
			t.Errorf("input %q: expected %v, got %v", tt.input, tt.feature, ref.Feature)
		}
	}
}

func TestParseFeaturePlainForm(t *testing.T) {
	tests := []struct {
		input   string
		op      Comparator
		feature Feature
		value   Value
	}{
		{"(width: 100px)", CompareEqual, FeatureWidth, DimensionValue(100, "px")},
		{"(min-width: 200px)", CompareGreaterEqual, FeatureWidth, DimensionValue(200, "px")},
		{"(max-height: 50em)", CompareLessEqual, FeatureHeight, DimensionValue(50, "em")},
		{"(min-inline-size: 10rem)", CompareGreaterEqual, FeatureInlineSize, DimensionValue(10, "rem")},
		{"(orientation: portrait)", CompareEqual, FeatureOrientation, OrientationValue(Portrait)},
		{"(aspect-ratio: 4/3)", CompareEqual, FeatureAspectRatio, NumberValue(4.0 / 3.0)},
		{"(aspect-ratio: 1.5)", CompareEqual, FeatureAspectRatio, NumberValue(1.5)},
	}

	for _, tt := range tests {
		node, err := ParseFeatureBlock(featureBlock(t, tt.input))
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		cmp, ok := node.(*Comparison)
		if !ok {
			t.Errorf("input %q: expected Comparison, got %T", tt.input, node)
			continue
		}
		if cmp.Op != tt.op {
			t.Errorf("input %q: expected op %v, got %v", tt.input, tt.op, cmp.Op)
		}
		ref, ok := cmp.Left.(*FeatureRef)
		if !ok || ref.Feature != tt.feature {
			t.Errorf("input %q: wrong feature side", tt.input)
		}
		lit, ok := cmp.Right.(*Literal)
		if !ok || lit.Value != tt.value {
			t.Errorf("input %q: wrong value side: %+v", tt.input, cmp.Right)
		}
	}
}

func TestParseFeatureSingleSidedRange(t *testing.T) {
	tests := []struct {
		input       string
		op          Comparator
		featureLeft bool
	}{
		{"(width > 100px)", CompareGreater, true},
		{"(width >= 100px)", CompareGreaterEqual, true},
		{"(width < 100px)", CompareLess, true},
		{"(width <= 100px)", CompareLessEqual, true},
		{"(width = 100px)", CompareEqual, true},
		{"(100px < width)", CompareLess, false},
		{"(100px >= width)", CompareGreaterEqual, false},
	}

	for _, tt := range tests {
		node, err := ParseFeatureBlock(featureBlock(t, tt.input))
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		cmp, ok := node.(*Comparison)
		if !ok {
			t.Errorf("input %q: expected Comparison, got %T", tt.input, node)
			continue
		}
		if cmp.Op != tt.op {
			t.Errorf("input %q: expected op %v, got %v", tt.input, tt.op, cmp.Op)
		}
		_, leftIsFeature := cmp.Left.(*FeatureRef)
		if leftIsFeature != tt.featureLeft {
			t.Errorf("input %q: feature on wrong side", tt.input)
		}
	}
}

func TestParseFeatureDoubleSidedRange(t *testing.T) {
	node, err := ParseFeatureBlock(featureBlock(t, "(100px < width <= 400px)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	and, ok := node.(*Conjunction)
	if !ok {
		t.Fatalf("expected Conjunction of two bounds, got %T", node)
	}

	lower, ok := and.Left.(*Comparison)
	if !ok || lower.Op != CompareLess {
		t.Errorf("expected lower bound with <, got %+v", and.Left)
	}
	upper, ok := and.Right.(*Comparison)
	if !ok || upper.Op != CompareLessEqual {
		t.Errorf("expected upper bound with <=, got %+v", and.Right)
	}

	// Both comparisons reference width.
	if ref, ok := lower.Right.(*FeatureRef); !ok || ref.Feature != FeatureWidth {
		t.Errorf("lower bound should compare against width")
	}
	if ref, ok := upper.Left.(*FeatureRef); !ok || ref.Feature != FeatureWidth {
		t.Errorf("upper bound should compare from width")
	}
}

func TestParseFeatureDoubleSidedDirectionMismatch(t *testing.T) {
	inputs := []string{
		"(100px < width > 400px)",
		"(100px <= width >= 400px)",
		"(100px = width = 400px)",
	}
	for _, input := range inputs {
		if _, err := ParseFeatureBlock(featureBlock(t, input)); err == nil {
			t.Errorf("input %q: mismatched range directions must be a parse error", input)
		}
	}
}

func TestParseFeatureErrors(t *testing.T) {
	inputs := []string{
		"(color)",               // unknown feature
		"(min-color: red)",      // unknown feature behind prefix
		"(width: 10deg)",        // unit outside the accepted set
		"(width: )",             // missing value
		"(100px < 200px)",       // no feature in range
		"(width < height)",      // two features in range
		"(width: portrait yes)", // trailing garbage
	}

	for _, input := range inputs {
		if _, err := ParseFeatureBlock(featureBlock(t, input)); err == nil {
			t.Errorf("input %q: expected parse error", input)
		}
	}
}

func TestParseFeatureContainerUnits(t *testing.T) {
	units := []string{"px", "rem", "em", "cqw", "cqh", "cqi", "cqb", "cqmin", "cqmax"}
	for _, unit := range units {
		node, err := ParseFeatureBlock(featureBlock(t, "(width >= 10"+unit+")"))
		if err != nil {
			t.Errorf("unit %q: unexpected error: %v", unit, err)
			continue
		}
		cmp := node.(*Comparison)
		lit := cmp.Right.(*Literal)
		if lit.Value.Unit != unit {
			t.Errorf("unit %q: got %q", unit, lit.Value.Unit)
		}
	}
}
