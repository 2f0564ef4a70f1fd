package query

import (
	"testing"
)

// sizeContext builds a Context with the given pixel sizes. Negative
// values leave the feature out of the snapshot.
func sizeContext(width, height float64) Context {
	features := make(map[Feature]Value)
	if width >= 0 {
		features[FeatureWidth] = PxValue(width)
	}
	if height >= 0 {
		features[FeatureHeight] = PxValue(height)
	}
	return Context{
		Features: features,
		Tree:     TreeContext{FontSize: 16, RootFontSize: 16},
	}
}

// mustRule parses a container prelude fragment.
func mustRule(t *testing.T, prelude string) *ContainerRule {
	t.Helper()
	rule, err := ParseContainerRule(conditionValues(t, prelude))
	if err != nil {
		t.Fatalf("parsing %q: %v", prelude, err)
	}
	return rule
}

func TestEvaluateOracles(t *testing.T) {
	cqw := 3.0

	tests := []struct {
		name     string
		prelude  string
		ctx      Context
		expected Tril
	}{
		{
			name:     "width >= 200px with width 300",
			prelude:  "(width >= 200px)",
			ctx:      sizeContext(300, 100),
			expected: True,
		},
		{
			name:     "orientation portrait with taller box",
			prelude:  "(orientation: portrait)",
			ctx:      sizeContext(100, 200),
			expected: True,
		},
		{
			name:     "aspect-ratio >= 2 with ratio 4",
			prelude:  "(aspect-ratio >= 2)",
			ctx:      sizeContext(400, 100),
			expected: True,
		},
		{
			name:     "em coercion: width >= 10em with fontSize 16",
			prelude:  "(width >= 10em)",
			ctx:      sizeContext(200, 100),
			expected: True,
		},
		{
			name:     "cqw without scale is unknown",
			prelude:  "(width >= 50cqw)",
			ctx:      sizeContext(200, 100),
			expected: Unknown,
		},
		{
			name:    "cqw with scale resolves",
			prelude: "(width >= 50cqw)",
			ctx: Context{
				Features: map[Feature]Value{
					FeatureWidth:  PxValue(200),
					FeatureHeight: PxValue(100),
				},
				Tree: TreeContext{CQW: &cqw, FontSize: 16, RootFontSize: 16},
			},
			expected: True, // 50cqw = 150px <= 200px
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := mustRule(t, tt.prelude)
			if got := Evaluate(rule, tt.ctx); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEvaluateRangeMonotonicity(t *testing.T) {
	// (100px <= width <= 400px) must be true exactly inside the range.
	rule := mustRule(t, "(100px <= width <= 400px)")

	for _, width := range []float64{0, 50, 99} {
		if got := Evaluate(rule, sizeContext(width, 100)); got != False {
			t.Errorf("width %v: got %v, want false", width, got)
		}
	}
	for _, width := range []float64{100, 250, 400} {
		if got := Evaluate(rule, sizeContext(width, 100)); got != True {
			t.Errorf("width %v: got %v, want true", width, got)
		}
	}
	for _, width := range []float64{401, 1000} {
		if got := Evaluate(rule, sizeContext(width, 100)); got != False {
			t.Errorf("width %v: got %v, want false", width, got)
		}
	}
}

func TestEvaluateExclusiveBounds(t *testing.T) {
	rule := mustRule(t, "(100px < width <= 400px)")

	if got := Evaluate(rule, sizeContext(100, 100)); got != False {
		t.Errorf("width 100 should fail the strict lower bound, got %v", got)
	}
	if got := Evaluate(rule, sizeContext(400, 100)); got != True {
		t.Errorf("width 400 should satisfy the inclusive upper bound, got %v", got)
	}
}

func TestEvaluateCoercionSanity(t *testing.T) {
	// (width >= 10em) behaves identically to its precomputed pixel
	// form under any context where the coercion is known.
	emRule := mustRule(t, "(width >= 10em)")
	pxRule := mustRule(t, "(width >= 160px)")

	for _, width := range []float64{0, 100, 159, 160, 161, 500} {
		ctx := sizeContext(width, 100)
		if Evaluate(emRule, ctx) != Evaluate(pxRule, ctx) {
			t.Errorf("width %v: em and px forms disagree", width)
		}
	}

	remRule := mustRule(t, "(width >= 10rem)")
	ctx := sizeContext(200, 100)
	ctx.Tree.RootFontSize = 20
	if got := Evaluate(remRule, ctx); got != True {
		t.Errorf("10rem at root 20 is 200px, got %v", got)
	}
}

func TestEvaluateUnknownContagion(t *testing.T) {
	// A missing referenced feature poisons the whole rule, whatever
	// the condition shape.
	preludes := []string{
		"(width >= 200px)",
		"(not (width))",
		"(width) or (height)",
		"((width >= 10px) and (width <= 20px))",
	}

	for _, prelude := range preludes {
		rule := mustRule(t, prelude)
		if got := Evaluate(rule, sizeContext(-1, 100)); got != Unknown {
			t.Errorf("prelude %q: got %v, want unknown", prelude, got)
		}
	}

	// Orientation needs both axes.
	rule := mustRule(t, "(orientation: landscape)")
	if got := Evaluate(rule, sizeContext(100, -1)); got != Unknown {
		t.Errorf("orientation with missing height: got %v, want unknown", got)
	}
}

func TestEvaluateNotFlipsOnlyBooleans(t *testing.T) {
	rule := mustRule(t, "not (width > 100px)")

	if got := Evaluate(rule, sizeContext(50, 100)); got != True {
		t.Errorf("not(false) should be true, got %v", got)
	}
	if got := Evaluate(rule, sizeContext(200, 100)); got != False {
		t.Errorf("not(true) should be false, got %v", got)
	}

	// not over an unknown leaf stays unknown.
	unknownRule := mustRule(t, "not (grid: 1)")
	if got := Evaluate(unknownRule, sizeContext(100, 100)); got != Unknown {
		t.Errorf("not(unknown) should be unknown, got %v", got)
	}
}

func TestEvaluateShortCircuit(t *testing.T) {
	// false and unknown -> false; true or unknown -> true.
	andRule := mustRule(t, "(width > 1000px) and (grid: 1)")
	if got := Evaluate(andRule, sizeContext(100, 100)); got != False {
		t.Errorf("false and unknown should be false, got %v", got)
	}

	orRule := mustRule(t, "(width > 10px) or (grid: 1)")
	if got := Evaluate(orRule, sizeContext(100, 100)); got != True {
		t.Errorf("true or unknown should be true, got %v", got)
	}

	// unknown and true -> unknown.
	andRule2 := mustRule(t, "(grid: 1) and (width > 10px)")
	if got := Evaluate(andRule2, sizeContext(100, 100)); got != Unknown {
		t.Errorf("unknown and true should be unknown, got %v", got)
	}
}

func TestEvaluateWritingAxis(t *testing.T) {
	rule := mustRule(t, "(inline-size >= 150px)")

	horizontal := sizeContext(200, 100)
	if got := Evaluate(rule, horizontal); got != True {
		t.Errorf("horizontal inline-size should map to width, got %v", got)
	}

	vertical := sizeContext(200, 100)
	vertical.Tree.WritingAxis = Vertical
	if got := Evaluate(rule, vertical); got != False {
		t.Errorf("vertical inline-size should map to height, got %v", got)
	}

	blockRule := mustRule(t, "(block-size >= 150px)")
	if got := Evaluate(blockRule, vertical); got != True {
		t.Errorf("vertical block-size should map to width, got %v", got)
	}
}

func TestEvaluateOrientationEquality(t *testing.T) {
	rule := mustRule(t, "(orientation: landscape)")

	if got := Evaluate(rule, sizeContext(300, 100)); got != True {
		t.Errorf("wider box is landscape, got %v", got)
	}
	// A square box is portrait: height >= width.
	if got := Evaluate(rule, sizeContext(100, 100)); got != False {
		t.Errorf("square box is portrait, got %v", got)
	}
}

func TestEvaluateAspectRatioUnknownWithZeroHeight(t *testing.T) {
	rule := mustRule(t, "(aspect-ratio >= 1)")
	if got := Evaluate(rule, sizeContext(100, 0)); got != Unknown {
		t.Errorf("zero height makes aspect-ratio unknown, got %v", got)
	}
}

func TestEvaluateZeroIsCoercible(t *testing.T) {
	// Bare 0 compares as a zero pixel length.
	rule := mustRule(t, "(width > 0)")
	if got := Evaluate(rule, sizeContext(10, 10)); got != True {
		t.Errorf("width 10 > 0 should be true, got %v", got)
	}

	// Other bare numbers are not coercible to lengths.
	badRule := mustRule(t, "(width > 5)")
	if got := Evaluate(badRule, sizeContext(10, 10)); got != Unknown {
		t.Errorf("width > 5 is not coercible, got %v", got)
	}
}

func TestEvaluateCqMinMax(t *testing.T) {
	cqw, cqh := 2.0, 5.0
	ctx := Context{
		Features: map[Feature]Value{
			FeatureWidth:  PxValue(300),
			FeatureHeight: PxValue(100),
		},
		Tree: TreeContext{CQW: &cqw, CQH: &cqh, FontSize: 16, RootFontSize: 16},
	}

	// 100cqmin = 100 * min(2, 5) = 200px; width 300 >= 200.
	minRule := mustRule(t, "(width >= 100cqmin)")
	if got := Evaluate(minRule, ctx); got != True {
		t.Errorf("cqmin coercion failed, got %v", got)
	}

	// 100cqmax = 500px; width 300 < 500.
	maxRule := mustRule(t, "(width >= 100cqmax)")
	if got := Evaluate(maxRule, ctx); got != False {
		t.Errorf("cqmax coercion failed, got %v", got)
	}

	// cqmin needs both scales.
	partial := Context{
		Features: ctx.Features,
		Tree:     TreeContext{CQW: &cqw, FontSize: 16, RootFontSize: 16},
	}
	if got := Evaluate(minRule, partial); got != Unknown {
		t.Errorf("cqmin with one scale should be unknown, got %v", got)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	rule := mustRule(t, "(100px <= width <= 400px)")
	ctx := sizeContext(250, 100)

	first := Evaluate(rule, ctx)
	for i := 0; i < 5; i++ {
		if got := Evaluate(rule, ctx); got != first {
			t.Fatalf("evaluation is not deterministic")
		}
	}
}
