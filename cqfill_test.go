package cqfill

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/chrisuehlinger/cqfill/query"
)

func TestTranspileStyleSheet(t *testing.T) {
	result := TranspileStyleSheet(
		`@container card (min-width: 200px) { .a { width: 50cqw } }`,
		WithSalt("s"),
		WithLogger(zaptest.NewLogger(t)),
	)

	if len(result.Descriptors) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(result.Descriptors))
	}
	d := result.Descriptors[0]

	if d.Rule.Name != "card" {
		t.Errorf("container name: got %q", d.Rule.Name)
	}
	if d.UID == "" {
		t.Error("descriptor must carry an id")
	}
	if !strings.Contains(result.Source, d.UID) {
		t.Errorf("descriptor id must appear in the rewritten source")
	}
	if !strings.Contains(result.Source, "@media all{") {
		t.Errorf("@container should become @media all, got %q", result.Source)
	}
	if !strings.Contains(result.Source, "calc(50 * var(--cq-w-s))") {
		t.Errorf("container units should be rewritten, got %q", result.Source)
	}
}

func TestTranspileStyleSheetAlwaysUsable(t *testing.T) {
	// Arbitrarily malformed input still returns a usable result.
	inputs := []string{
		"",
		"}}}}",
		"@container",
		`@container ( { ] `,
		strings.Repeat("(", 100),
	}

	for _, input := range inputs {
		result := TranspileStyleSheet(input, WithSalt("s"))
		if len(result.Descriptors) != 0 {
			t.Errorf("input %q: no descriptors expected", input)
		}
		// Re-transpiling the output must also not blow up.
		TranspileStyleSheet(result.Source, WithSalt("s"))
	}
}

func TestTranspileStyleSheetNilLogger(t *testing.T) {
	// An explicit nil logger must not break the always-usable
	// guarantee; the fallback path logs through the same logger.
	result := TranspileStyleSheet(
		`@container (width > 10px) { .a { color: red } }`,
		WithSalt("s"),
		WithLogger(nil),
	)

	if len(result.Descriptors) != 1 {
		t.Errorf("expected 1 descriptor, got %d", len(result.Descriptors))
	}
	if !strings.Contains(result.Source, "@media all{") {
		t.Errorf("transformation should proceed with a nil logger, got %q", result.Source)
	}
}

func TestTranspileStyleSheetDeterministicWithSalt(t *testing.T) {
	source := `@container (width > 10px) { .a { color: red } }`

	a := TranspileStyleSheet(source, WithSalt("fixed"))
	b := TranspileStyleSheet(source, WithSalt("fixed"))

	if a.Source != b.Source {
		t.Errorf("fixed salt must make output deterministic")
	}
}

func TestTranspileStyleSheetRandomSaltsDiffer(t *testing.T) {
	source := `.a { width: 50cqw }`

	a := TranspileStyleSheet(source)
	b := TranspileStyleSheet(source)

	if a.Source == b.Source {
		t.Errorf("two runs should not share custom property names")
	}
}

func TestTranspileStyleSheetWithBaseURL(t *testing.T) {
	result := TranspileStyleSheet(
		`.a { background: url(img.png) }`,
		WithSalt("s"),
		WithBaseURL("https://example.com/css/app.css"),
	)

	if !strings.Contains(result.Source, "url(https://example.com/css/img.png)") {
		t.Errorf("url should be absolutized, got %q", result.Source)
	}
}

func TestEvaluateContainerCondition(t *testing.T) {
	result := TranspileStyleSheet(
		`@container (min-width: 200px) { .a { color: red } }`,
		WithSalt("s"),
	)
	rule := result.Descriptors[0].Rule

	matching := query.Context{
		Features: map[query.Feature]query.Value{
			query.FeatureWidth:  query.PxValue(300),
			query.FeatureHeight: query.PxValue(100),
		},
		Tree: query.TreeContext{FontSize: 16, RootFontSize: 16},
	}
	if got := EvaluateContainerCondition(rule, matching); got == nil || !*got {
		t.Errorf("width 300 should match min-width 200")
	}

	narrow := matching
	narrow.Features = map[query.Feature]query.Value{
		query.FeatureWidth:  query.PxValue(100),
		query.FeatureHeight: query.PxValue(100),
	}
	if got := EvaluateContainerCondition(rule, narrow); got == nil || *got {
		t.Errorf("width 100 should not match min-width 200")
	}

	unknown := matching
	unknown.Features = map[query.Feature]query.Value{}
	if got := EvaluateContainerCondition(rule, unknown); got != nil {
		t.Errorf("missing width should evaluate to nil (unknown)")
	}
}
