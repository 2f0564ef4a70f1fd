package query

import (
	"testing"

	"github.com/chrisuehlinger/cqfill/css"
)

// conditionValues parses a prelude fragment into component values by
// treating it as the prelude of a dummy qualified rule.
func conditionValues(t *testing.T, source string) []css.ComponentValue {
	t.Helper()
	sheet := css.Parse(source + "{}")
	if len(sheet.Rules) == 1 {
		if qr, ok := sheet.Rules[0].(*css.QualifiedRule); ok {
			return qr.Prelude
		}
	}
	t.Fatalf("cannot parse fragment %q", source)
	return nil
}

func TestParseConditionNot(t *testing.T) {
	node, err := ParseCondition(conditionValues(t, "not (width)"), ParseFeatureBlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	neg, ok := node.(*Negation)
	if !ok {
		t.Fatalf("expected Negation, got %T", node)
	}
	ref, ok := neg.Child.(*FeatureRef)
	if !ok {
		t.Fatalf("expected FeatureRef child, got %T", neg.Child)
	}
	if ref.Feature != FeatureWidth {
		t.Errorf("expected width, got %v", ref.Feature)
	}
}

func TestParseConditionAndChain(t *testing.T) {
	node, err := ParseCondition(conditionValues(t, "(width) and (height) and (orientation)"), ParseFeatureBlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outer, ok := node.(*Conjunction)
	if !ok {
		t.Fatalf("expected Conjunction, got %T", node)
	}
	if _, ok := outer.Left.(*Conjunction); !ok {
		t.Errorf("and-chain should be left-associative, got %T", outer.Left)
	}
}

func TestParseConditionOrChain(t *testing.T) {
	node, err := ParseCondition(conditionValues(t, "(width) or (height)"), ParseFeatureBlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := node.(*Disjunction); !ok {
		t.Fatalf("expected Disjunction, got %T", node)
	}
}

func TestParseConditionMixedAndOrIsError(t *testing.T) {
	_, err := ParseCondition(conditionValues(t, "(width) and (height) or (orientation)"), ParseFeatureBlock)
	if err == nil {
		t.Fatal("mixing and/or at one level must be a parse error")
	}
}

func TestParseConditionGrouping(t *testing.T) {
	node, err := ParseCondition(conditionValues(t, "((width) and (height)) or (orientation)"), ParseFeatureBlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	or, ok := node.(*Disjunction)
	if !ok {
		t.Fatalf("expected Disjunction, got %T", node)
	}
	if _, ok := or.Left.(*Conjunction); !ok {
		t.Errorf("grouped sub-condition should parse as Conjunction, got %T", or.Left)
	}
}

func TestParseConditionUnknownBlockIsUnknownLiteral(t *testing.T) {
	// A block that is neither a condition nor a feature stays as the
	// forward-compatible unknown leaf.
	node, err := ParseCondition(conditionValues(t, "(grid: 1)"), ParseFeatureBlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := node.(*Literal)
	if !ok {
		t.Fatalf("expected Literal, got %T", node)
	}
	if lit.Value.Kind != ValueUnknown {
		t.Errorf("expected unknown literal")
	}
}

func TestParseConditionFunctionIsUnknownLiteral(t *testing.T) {
	node, err := ParseCondition(conditionValues(t, "selector(a)"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := node.(*Literal)
	if !ok || lit.Value.Kind != ValueUnknown {
		t.Errorf("function leaf should lower to unknown literal")
	}
}

func TestParseConditionTrailingGarbageIsError(t *testing.T) {
	_, err := ParseCondition(conditionValues(t, "(width) bogus"), ParseFeatureBlock)
	if err == nil {
		t.Fatal("trailing garbage must be a parse error")
	}
}
