package css

import (
	"fmt"
	"strings"
)

// SerializeToken emits the canonical textual form of a single token.
// Whitespace runs collapse to a single space; numeric tokens re-emit
// their raw text so precision flags survive.
func SerializeToken(t Token) string {
	switch t.Type {
	case TokenEOF:
		return ""
	case TokenIdent:
		return t.Value
	case TokenFunction:
		return t.Value + "("
	case TokenAtKeyword:
		return "@" + t.Value
	case TokenHash:
		return "#" + t.Value
	case TokenString:
		return serializeString(t.Value)
	case TokenBadString:
		return "\"\n"
	case TokenURL:
		return "url(" + escapeURL(t.Value) + ")"
	case TokenBadURL:
		return "url(bad-url)"
	case TokenDelim:
		if t.Delim == '\\' {
			return "\\\n"
		}
		return string(t.Delim)
	case TokenNumber:
		return t.NumericText()
	case TokenPercentage:
		return t.NumericText() + "%"
	case TokenDimension:
		return t.NumericText() + t.Unit
	case TokenWhitespace:
		return " "
	case TokenCDO:
		return "<!--"
	case TokenCDC:
		return "-->"
	case TokenColon:
		return ":"
	case TokenSemicolon:
		return ";"
	case TokenComma:
		return ","
	case TokenOpenSquare:
		return "["
	case TokenCloseSquare:
		return "]"
	case TokenOpenParen:
		return "("
	case TokenCloseParen:
		return ")"
	case TokenOpenCurly:
		return "{"
	case TokenCloseCurly:
		return "}"
	case TokenUnicodeRange:
		if t.StartRange == t.EndRange {
			return fmt.Sprintf("U+%X", t.StartRange)
		}
		return fmt.Sprintf("U+%X-%X", t.StartRange, t.EndRange)
	default:
		return ""
	}
}

// serializeString re-quotes a string value, escaping the quote, the
// backslash and newlines.
func serializeString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString("\\\"")
		case r == '\\':
			sb.WriteString("\\\\")
		case r == '\n':
			sb.WriteString("\\a ")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// escapeURL escapes a URL value so it re-tokenizes as an unquoted URL
// token with the same value.
func escapeURL(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '"' || r == '\'' || r == '(' || r == ')' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case isWhitespace(r) || isNonPrintable(r):
			fmt.Fprintf(&sb, "\\%x ", r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Serialize emits one component value.
func Serialize(cv ComponentValue) string {
	var sb strings.Builder
	writeComponentValue(&sb, cv)
	return sb.String()
}

// SerializeValues emits a list of component values with no separators
// beyond the whitespace tokens already present.
func SerializeValues(values []ComponentValue) string {
	var sb strings.Builder
	for _, cv := range values {
		writeComponentValue(&sb, cv)
	}
	return sb.String()
}

func writeComponentValue(sb *strings.Builder, cv ComponentValue) {
	switch v := cv.(type) {
	case PreservedToken:
		sb.WriteString(SerializeToken(v.Token))
	case *Function:
		sb.WriteString(v.Name)
		sb.WriteByte('(')
		for _, val := range v.Values {
			writeComponentValue(sb, val)
		}
		sb.WriteByte(')')
	case *Block:
		sb.WriteString(SerializeToken(v.Token))
		for _, val := range v.Values {
			writeComponentValue(sb, val)
		}
		sb.WriteString(SerializeToken(Token{Type: v.CloseType()}))
	}
}

// SerializeDeclaration emits one declaration without a trailing
// semicolon.
func SerializeDeclaration(d *Declaration) string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	sb.WriteString(": ")
	sb.WriteString(strings.TrimSpace(SerializeValues(d.Value)))
	if d.Important {
		sb.WriteString(" !important")
	}
	return sb.String()
}

// SerializeDeclarations emits a declaration list; each declaration gets
// a trailing semicolon since the containing block is a declaration list
// or style block.
func SerializeDeclarations(decls []*Declaration) string {
	var sb strings.Builder
	for _, d := range decls {
		sb.WriteString(SerializeDeclaration(d))
		sb.WriteByte(';')
	}
	return sb.String()
}

// SerializeRule emits one rule.
func SerializeRule(r Rule) string {
	var sb strings.Builder
	writeRule(&sb, r)
	return sb.String()
}

// SerializeRules emits a rule list.
func SerializeRules(rules []Rule) string {
	var sb strings.Builder
	for _, r := range rules {
		writeRule(&sb, r)
	}
	return sb.String()
}

func writeRule(sb *strings.Builder, r Rule) {
	switch v := r.(type) {
	case *AtRule:
		sb.WriteByte('@')
		sb.WriteString(v.Name)
		sb.WriteString(SerializeValues(v.Prelude))
		if v.Block == nil {
			sb.WriteByte(';')
		} else {
			writeComponentValue(sb, v.Block)
		}
	case *QualifiedRule:
		sb.WriteString(SerializeValues(v.Prelude))
		if v.Block != nil {
			writeComponentValue(sb, v.Block)
		}
	}
}

// SerializeTokens emits a raw token slice.
func SerializeTokens(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(SerializeToken(t))
	}
	return sb.String()
}
