package transform

import (
	"strings"

	"github.com/chrisuehlinger/cqfill/css"
	"github.com/chrisuehlinger/cqfill/query"
)

// rewriteDeclarations rewrites one declaration list: container
// declarations become internal custom properties, and container-
// relative units become calc() expressions over the internal unit
// variables. Declarations that fail validation are left unchanged.
func (t *transformer) rewriteDeclarations(decls []*css.Declaration) []*css.Declaration {
	out := make([]*css.Declaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, t.rewriteDeclaration(d)...)
	}
	return out
}

func (t *transformer) rewriteDeclaration(d *css.Declaration) []*css.Declaration {
	switch strings.ToLower(d.Name) {
	case "container":
		names, types, err := query.ParseContainerShorthand(d.Value)
		if err != nil {
			return []*css.Declaration{d}
		}
		return []*css.Declaration{
			{Name: t.opts.containerNameProperty(), Value: identValues(names), Important: d.Important},
			{Name: t.opts.containerTypeProperty(), Value: identValues(types), Important: d.Important},
		}

	case "container-name":
		names, err := query.ParseContainerNameProperty(d.Value, true)
		if err != nil {
			return []*css.Declaration{d}
		}
		return []*css.Declaration{
			{Name: t.opts.containerNameProperty(), Value: identValues(names), Important: d.Important},
		}

	case "container-type":
		types, err := query.ParseContainerTypeProperty(d.Value, true)
		if err != nil {
			return []*css.Declaration{d}
		}
		return []*css.Declaration{
			{Name: t.opts.containerTypeProperty(), Value: identValues(types), Important: d.Important},
		}

	default:
		d.Value = t.rewriteUnits(d.Value)
		return []*css.Declaration{d}
	}
}

// identValues renders a keyword list as space-joined ident tokens.
func identValues(names []string) []css.ComponentValue {
	var out []css.ComponentValue
	for i, name := range names {
		if i > 0 {
			out = append(out, css.PreservedToken{Token: css.Token{Type: css.TokenWhitespace}})
		}
		out = append(out, css.PreservedToken{Token: css.Token{Type: css.TokenIdent, Value: name}})
	}
	return out
}

// Container-relative length units and the unit-variable axis each maps
// to.
var containerUnits = map[string]string{
	"cqw": "w",
	"cqh": "h",
	"cqi": "i",
	"cqb": "b",
}

// rewriteUnits replaces container-relative dimensions with calc()
// expressions, descending into functions and blocks.
func (t *transformer) rewriteUnits(values []css.ComponentValue) []css.ComponentValue {
	out := make([]css.ComponentValue, 0, len(values))
	for _, cv := range values {
		switch v := cv.(type) {
		case css.PreservedToken:
			if v.Token.Type == css.TokenDimension {
				if repl, ok := t.rewriteUnitToken(v.Token); ok {
					out = append(out, repl)
					continue
				}
			}
			out = append(out, v)
		case *css.Function:
			out = append(out, &css.Function{Name: v.Name, Values: t.rewriteUnits(v.Values)})
		case *css.Block:
			out = append(out, &css.Block{Token: v.Token, Values: t.rewriteUnits(v.Values)})
		default:
			out = append(out, cv)
		}
	}
	return out
}

func (t *transformer) rewriteUnitToken(tok css.Token) (css.ComponentValue, bool) {
	unit := strings.ToLower(tok.Unit)

	if axis, ok := containerUnits[unit]; ok {
		return calcProduct(tok, varFunction(t.opts.unitVariable(axis))), true
	}

	switch unit {
	case "cqmin":
		return calcProduct(tok, minMaxFunction("min", t.opts)), true
	case "cqmax":
		return calcProduct(tok, minMaxFunction("max", t.opts)), true
	}
	return nil, false
}

// calcProduct builds calc(<number> * <factor>) from a dimension token,
// preserving the raw numeric text.
func calcProduct(tok css.Token, factor css.ComponentValue) css.ComponentValue {
	number := css.Token{
		Type:     css.TokenNumber,
		Value:    tok.NumericText(),
		NumValue: tok.NumValue,
		NumType:  tok.NumType,
	}
	space := css.PreservedToken{Token: css.Token{Type: css.TokenWhitespace}}
	return &css.Function{
		Name: "calc",
		Values: []css.ComponentValue{
			css.PreservedToken{Token: number},
			space,
			css.PreservedToken{Token: css.Token{Type: css.TokenDelim, Delim: '*'}},
			space,
			factor,
		},
	}
}

func varFunction(name string) *css.Function {
	return &css.Function{
		Name: "var",
		Values: []css.ComponentValue{
			css.PreservedToken{Token: css.Token{Type: css.TokenIdent, Value: name}},
		},
	}
}

// minMaxFunction builds min(var(--cq-i-…), var(--cq-b-…)) or the max
// counterpart, the expansion of cqmin/cqmax.
func minMaxFunction(name string, opts Options) *css.Function {
	return &css.Function{
		Name: name,
		Values: []css.ComponentValue{
			varFunction(opts.unitVariable("i")),
			css.PreservedToken{Token: css.Token{Type: css.TokenComma}},
			css.PreservedToken{Token: css.Token{Type: css.TokenWhitespace}},
			varFunction(opts.unitVariable("b")),
		},
	}
}

// rewriteSupportsCondition passes every declaration leaf inside an
// @supports prelude through the declaration rewriter, so a
// container-type test keeps probing the polyfill's internal property.
func (t *transformer) rewriteSupportsCondition(values []css.ComponentValue) []css.ComponentValue {
	out := make([]css.ComponentValue, 0, len(values))
	for _, cv := range values {
		switch v := cv.(type) {
		case *css.Block:
			if v.Token.Type == css.TokenOpenParen {
				if repl, ok := t.rewriteSupportsLeaf(v); ok {
					out = append(out, repl)
					continue
				}
			}
			out = append(out, &css.Block{Token: v.Token, Values: t.rewriteSupportsCondition(v.Values)})
		case *css.Function:
			out = append(out, &css.Function{Name: v.Name, Values: t.rewriteSupportsCondition(v.Values)})
		default:
			out = append(out, cv)
		}
	}
	return out
}

// rewriteSupportsLeaf rewrites one (<declaration>) leaf; it reports
// false when the block is not a declaration, so grouping parentheses
// recurse instead.
func (t *transformer) rewriteSupportsLeaf(b *css.Block) (css.ComponentValue, bool) {
	decls := css.ParseDeclarationListFromValues(b.Values)
	if len(decls) != 1 {
		return nil, false
	}

	rewritten := t.rewriteDeclaration(decls[0])
	parts := make([]string, 0, len(rewritten))
	for _, d := range rewritten {
		parts = append(parts, css.SerializeDeclaration(d))
	}

	tokens := css.Tokenize(strings.Join(parts, "; "))
	values := make([]css.ComponentValue, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == css.TokenEOF {
			break
		}
		values = append(values, css.PreservedToken{Token: tok})
	}
	return &css.Block{Token: b.Token, Values: values}, true
}
