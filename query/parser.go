package query

import (
	"strings"

	"github.com/chrisuehlinger/cqfill/css"
)

// LeafParser interprets a parenthesised block that did not parse as a
// nested condition. The container-rule layer installs the feature-block
// parser here; a nil LeafParser lowers every such block to
// Literal(unknown).
type LeafParser func(*css.Block) (Node, error)

// conditionParser is a cursor over a component-value list.
type conditionParser struct {
	values []css.ComponentValue
	pos    int
	leaf   LeafParser
}

// ParseCondition parses the generic <condition> grammar:
//
//	<condition>  = <not> | <in-parens> [ (<and> <in-parens>)* | (<or> <in-parens>)* ]
//	<not>        = "not" <in-parens>
//	<in-parens>  = ( <condition> ) | ( <anything else> ) | <function>
//
// Mixing "and" and "or" at one level is a parse error.
func ParseCondition(values []css.ComponentValue, leaf LeafParser) (Node, error) {
	p := &conditionParser{values: values, leaf: leaf}
	node, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos < len(p.values) {
		return nil, ErrParse
	}
	return node, nil
}

func (p *conditionParser) skipWhitespace() {
	for p.pos < len(p.values) {
		pt, ok := p.values[p.pos].(css.PreservedToken)
		if !ok || pt.Token.Type != css.TokenWhitespace {
			return
		}
		p.pos++
	}
}

// peekIdent returns the lower-cased ident at the cursor, or "".
func (p *conditionParser) peekIdent() string {
	p.skipWhitespace()
	if p.pos >= len(p.values) {
		return ""
	}
	pt, ok := p.values[p.pos].(css.PreservedToken)
	if !ok || pt.Token.Type != css.TokenIdent {
		return ""
	}
	return strings.ToLower(pt.Token.Value)
}

func (p *conditionParser) parseCondition() (Node, error) {
	if p.peekIdent() == "not" {
		p.pos++
		child, err := p.parseInParens()
		if err != nil {
			return nil, err
		}
		return &Negation{Child: child}, nil
	}

	left, err := p.parseInParens()
	if err != nil {
		return nil, err
	}

	combinator := ""
	for {
		ident := p.peekIdent()
		if ident != "and" && ident != "or" {
			return left, nil
		}
		if combinator == "" {
			combinator = ident
		} else if combinator != ident {
			// and/or mixed at the same level
			return nil, ErrParse
		}
		p.pos++
		right, err := p.parseInParens()
		if err != nil {
			return nil, err
		}
		if ident == "and" {
			left = &Conjunction{Left: left, Right: right}
		} else {
			left = &Disjunction{Left: left, Right: right}
		}
	}
}

func (p *conditionParser) parseInParens() (Node, error) {
	p.skipWhitespace()
	if p.pos >= len(p.values) {
		return nil, ErrParse
	}

	switch v := p.values[p.pos].(type) {
	case *css.Block:
		if v.Token.Type != css.TokenOpenParen {
			return nil, ErrParse
		}
		p.pos++
		return p.lowerBlock(v), nil
	case *css.Function:
		// Unknown general-enclosed production: forward-compatible
		// unknown leaf.
		p.pos++
		return &Literal{Value: UnknownValue()}, nil
	default:
		return nil, ErrParse
	}
}

// lowerBlock interprets a parenthesised block: a grouped condition, a
// feature block if the enclosing context supplied a LeafParser, or the
// forward-compatible unknown literal.
func (p *conditionParser) lowerBlock(b *css.Block) Node {
	if node, err := ParseCondition(b.Values, p.leaf); err == nil {
		return node
	}
	if p.leaf != nil {
		if node, err := p.leaf(b); err == nil {
			return node
		}
	}
	return &Literal{Value: UnknownValue()}
}
