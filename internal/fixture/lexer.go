package fixture

import "github.com/alecthomas/participle/v2/lexer"

// FixtureLexer tokenizes the small statement DSL internal/fixture parses.
// Rule order matters exactly the way it does in a hand-rolled stateful
// lexer: keywords before identifiers (a keyword is its own token kind, so
// it never lexes as an Ident; the grammar matches it by its literal text),
// then numbers, operators, punctuation, and finally whitespace to discard.
var FixtureLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Keyword", Pattern: `(let|if|else|while|break|continue|return)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Operator", Pattern: `(==|!=|<=|>=|&&|\|\||[-+*/%<>=!])`},
	{Name: "Punctuation", Pattern: `[{}()\[\],;:]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
