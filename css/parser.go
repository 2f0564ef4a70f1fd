package css

import (
	"strings"
)

// ComponentValue represents a component value: a preserved token, a
// function, or a simple block.
type ComponentValue interface {
	componentValue()
}

// PreservedToken wraps a token as a component value.
type PreservedToken struct {
	Token Token
}

func (PreservedToken) componentValue() {}

// Function represents a CSS function and its arguments.
type Function struct {
	Name   string
	Values []ComponentValue
}

func (*Function) componentValue() {}

// Block represents a simple block. The opening token is preserved so the
// serializer can re-emit the matching bracket pair.
type Block struct {
	Token  Token // The opening token
	Values []ComponentValue
}

func (*Block) componentValue() {}

// CloseType returns the token type that closes this block.
func (b *Block) CloseType() TokenType {
	switch b.Token.Type {
	case TokenOpenCurly:
		return TokenCloseCurly
	case TokenOpenSquare:
		return TokenCloseSquare
	default:
		return TokenCloseParen
	}
}

// Rule is either an at-rule or a qualified rule.
type Rule interface {
	cssRule()
}

// QualifiedRule represents a qualified rule such as a style rule.
type QualifiedRule struct {
	Prelude []ComponentValue
	Block   *Block
}

func (*QualifiedRule) cssRule() {}

// AtRule represents an at-rule. Block is nil for statement at-rules.
type AtRule struct {
	Name    string
	Prelude []ComponentValue
	Block   *Block
}

func (*AtRule) cssRule() {}

// Declaration represents a property declaration. Value holds component
// values, so nested functions and blocks survive.
type Declaration struct {
	Name      string
	Value     []ComponentValue
	Important bool
}

// Stylesheet is the parse result of a full stylesheet.
type Stylesheet struct {
	Rules []Rule
}

// Parser parses a token stream according to CSS Syntax Level 3 §5.3.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over the given source.
func NewParser(input string) *Parser {
	return &Parser{tokens: Tokenize(input)}
}

// NewParserForTokens creates a parser over an existing token slice.
func NewParserForTokens(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// consume consumes and returns the current token.
func (p *Parser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// reconsume backs up one token.
func (p *Parser) reconsume() {
	if p.pos > 0 {
		p.pos--
	}
}

// skipWhitespace skips whitespace tokens.
func (p *Parser) skipWhitespace() {
	for p.current().Type == TokenWhitespace {
		p.consume()
	}
}

// ParseStylesheet parses the input in top-level mode: CDO and CDC
// tokens at the top level are discarded.
func (p *Parser) ParseStylesheet() *Stylesheet {
	return &Stylesheet{Rules: p.consumeRuleList(true)}
}

// ParseRuleList parses the input as a nested list of rules.
func (p *Parser) ParseRuleList() []Rule {
	return p.consumeRuleList(false)
}

// consumeRuleList consumes a list of rules per §5.4.1.
func (p *Parser) consumeRuleList(topLevel bool) []Rule {
	var rules []Rule

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return rules
		case TokenWhitespace:
			p.consume()
		case TokenCDO, TokenCDC:
			if topLevel {
				p.consume()
			} else {
				if rule := p.consumeQualifiedRule(); rule != nil {
					rules = append(rules, rule)
				}
			}
		case TokenAtKeyword:
			if rule := p.consumeAtRule(); rule != nil {
				rules = append(rules, rule)
			}
		default:
			if rule := p.consumeQualifiedRule(); rule != nil {
				rules = append(rules, rule)
			}
		}
	}
}

// consumeAtRule consumes an at-rule per §5.4.2.
func (p *Parser) consumeAtRule() *AtRule {
	tok := p.consume() // at-keyword
	rule := &AtRule{Name: tok.Value}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return rule
		case TokenSemicolon:
			p.consume()
			return rule
		case TokenOpenCurly:
			rule.Block = p.consumeBlock()
			return rule
		default:
			rule.Prelude = append(rule.Prelude, p.consumeComponentValue())
		}
	}
}

// consumeQualifiedRule consumes a qualified rule per §5.4.3. A rule
// whose prelude is cut short by EOF is a parse error and is dropped; a
// block cut short by EOF is closed implicitly and the rule is kept.
func (p *Parser) consumeQualifiedRule() *QualifiedRule {
	rule := &QualifiedRule{}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return nil
		case TokenOpenCurly:
			rule.Block = p.consumeBlock()
			return rule
		default:
			rule.Prelude = append(rule.Prelude, p.consumeComponentValue())
		}
	}
}

// consumeBlock consumes a simple block, keeping the opening token.
func (p *Parser) consumeBlock() *Block {
	tok := p.consume() // opening bracket
	block := &Block{Token: tok}

	var endToken TokenType
	switch tok.Type {
	case TokenOpenCurly:
		endToken = TokenCloseCurly
	case TokenOpenSquare:
		endToken = TokenCloseSquare
	case TokenOpenParen:
		endToken = TokenCloseParen
	default:
		return block
	}

	for {
		tok := p.current()
		if tok.Type == endToken || tok.Type == TokenEOF {
			p.consume()
			return block
		}
		block.Values = append(block.Values, p.consumeComponentValue())
	}
}

// consumeComponentValue consumes a component value per §5.4.7.
func (p *Parser) consumeComponentValue() ComponentValue {
	tok := p.consume()

	switch tok.Type {
	case TokenOpenCurly, TokenOpenSquare, TokenOpenParen:
		p.reconsume()
		return p.consumeBlock()
	case TokenFunction:
		return p.consumeFunction(tok.Value)
	default:
		return PreservedToken{Token: tok}
	}
}

// ParseComponentValue parses a single component value, requiring only
// trailing whitespace after it.
func (p *Parser) ParseComponentValue() (ComponentValue, bool) {
	p.skipWhitespace()
	if p.current().Type == TokenEOF {
		return nil, false
	}
	cv := p.consumeComponentValue()
	p.skipWhitespace()
	if p.current().Type != TokenEOF {
		return nil, false
	}
	return cv, true
}

// consumeFunction consumes a function per §5.4.8.
func (p *Parser) consumeFunction(name string) *Function {
	fn := &Function{Name: name}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF, TokenCloseParen:
			p.consume()
			return fn
		default:
			fn.Values = append(fn.Values, p.consumeComponentValue())
		}
	}
}

// ParseDeclarationList parses the input as a list of declarations.
// At-rules encountered in the list are consumed and dropped.
func (p *Parser) ParseDeclarationList() []*Declaration {
	return p.consumeDeclarationList()
}

// StyleBlock holds the contents of a style block: declarations plus any
// nested at-rules, per §5.4.4.
type StyleBlock struct {
	Declarations []*Declaration
	Rules        []Rule
}

// ParseStyleBlockContents parses the input as a style block's contents.
func (p *Parser) ParseStyleBlockContents() *StyleBlock {
	sb := &StyleBlock{}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return sb
		case TokenWhitespace, TokenSemicolon:
			p.consume()
		case TokenAtKeyword:
			if rule := p.consumeAtRule(); rule != nil {
				sb.Rules = append(sb.Rules, rule)
			}
		case TokenIdent:
			if decl := p.consumeDeclaration(); decl != nil {
				sb.Declarations = append(sb.Declarations, decl)
			}
		default:
			// Parse error: recover at the next semicolon, keeping
			// surrounding declarations.
			p.recoverToSemicolon()
		}
	}
}

// consumeDeclarationList consumes a list of declarations per §5.4.5.
func (p *Parser) consumeDeclarationList() []*Declaration {
	var declarations []*Declaration

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return declarations
		case TokenWhitespace, TokenSemicolon:
			p.consume()
		case TokenAtKeyword:
			p.consumeAtRule()
		case TokenIdent:
			if decl := p.consumeDeclaration(); decl != nil {
				declarations = append(declarations, decl)
			}
		default:
			p.recoverToSemicolon()
		}
	}
}

// recoverToSemicolon consumes component values until the next top-level
// semicolon, leaving it for the caller.
func (p *Parser) recoverToSemicolon() {
	for {
		tok := p.current()
		if tok.Type == TokenSemicolon || tok.Type == TokenEOF {
			return
		}
		p.consumeComponentValue()
	}
}

// consumeDeclaration consumes a declaration per §5.4.6, returning nil on
// parse error after recovering to the next semicolon.
func (p *Parser) consumeDeclaration() *Declaration {
	name := p.consume() // ident
	decl := &Declaration{Name: name.Value}

	p.skipWhitespace()
	if p.current().Type != TokenColon {
		p.recoverToSemicolon()
		return nil
	}
	p.consume() // colon
	p.skipWhitespace()

	for p.current().Type != TokenSemicolon && p.current().Type != TokenEOF {
		decl.Value = append(decl.Value, p.consumeComponentValue())
	}

	extractImportant(decl)
	trimTrailingWhitespace(decl)

	if len(decl.Value) == 0 {
		return nil
	}
	return decl
}

// ParseDeclaration parses the input as a single declaration.
func ParseDeclaration(input string) *Declaration {
	p := NewParser(input)
	p.skipWhitespace()
	if p.current().Type != TokenIdent {
		return nil
	}
	return p.consumeDeclaration()
}

// extractImportant removes a trailing "! important" from the value list
// and sets the important flag, inspecting the last two non-whitespace
// children per §5.4.6.
func extractImportant(decl *Declaration) {
	last := lastNonWhitespace(decl.Value, len(decl.Value))
	if last < 0 {
		return
	}
	pt, ok := decl.Value[last].(PreservedToken)
	if !ok || pt.Token.Type != TokenIdent || !strings.EqualFold(pt.Token.Value, "important") {
		return
	}
	prev := lastNonWhitespace(decl.Value, last)
	if prev < 0 {
		return
	}
	bang, ok := decl.Value[prev].(PreservedToken)
	if !ok || bang.Token.Type != TokenDelim || bang.Token.Delim != '!' {
		return
	}
	decl.Important = true
	decl.Value = decl.Value[:prev]
}

// lastNonWhitespace returns the index of the last non-whitespace value
// before limit, or -1.
func lastNonWhitespace(values []ComponentValue, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		if pt, ok := values[i].(PreservedToken); ok && pt.Token.Type == TokenWhitespace {
			continue
		}
		return i
	}
	return -1
}

func trimTrailingWhitespace(decl *Declaration) {
	for len(decl.Value) > 0 {
		pt, ok := decl.Value[len(decl.Value)-1].(PreservedToken)
		if !ok || pt.Token.Type != TokenWhitespace {
			return
		}
		decl.Value = decl.Value[:len(decl.Value)-1]
	}
}

// ComponentValuesToTokens flattens component values back into a token
// stream, re-synthesizing the closing brackets recorded on each block.
func ComponentValuesToTokens(values []ComponentValue) []Token {
	var tokens []Token
	for _, cv := range values {
		tokens = append(tokens, componentValueToTokens(cv)...)
	}
	return tokens
}

func componentValueToTokens(cv ComponentValue) []Token {
	switch v := cv.(type) {
	case PreservedToken:
		return []Token{v.Token}
	case *Function:
		tokens := []Token{{Type: TokenFunction, Value: v.Name}}
		for _, val := range v.Values {
			tokens = append(tokens, componentValueToTokens(val)...)
		}
		return append(tokens, Token{Type: TokenCloseParen})
	case *Block:
		tokens := []Token{v.Token}
		for _, val := range v.Values {
			tokens = append(tokens, componentValueToTokens(val)...)
		}
		return append(tokens, Token{Type: v.CloseType()})
	default:
		return nil
	}
}

// ParseRuleListFromValues re-parses block contents as a rule list, the
// way nested at-rule bodies are interpreted.
func ParseRuleListFromValues(values []ComponentValue) []Rule {
	p := NewParserForTokens(ComponentValuesToTokens(values))
	return p.consumeRuleList(false)
}

// ParseDeclarationListFromValues re-parses block contents as a list of
// declarations, the way style-rule bodies are interpreted.
func ParseDeclarationListFromValues(values []ComponentValue) []*Declaration {
	p := NewParserForTokens(ComponentValuesToTokens(values))
	return p.consumeDeclarationList()
}

// Parse parses a complete stylesheet in top-level mode.
func Parse(input string) *Stylesheet {
	return NewParser(input).ParseStylesheet()
}
