package fixture

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var fixtureParser = participle.MustBuild[Program](
	participle.Lexer(FixtureLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseSource parses a fixture program, returning a friendly caret-style
// error when it fails.
func ParseSource(name, source string) (*Program, error) {
	prog, err := fixtureParser.ParseString(name, source)
	if err != nil {
		return nil, formatParseError(source, err)
	}
	return prog, nil
}

func formatParseError(src string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return err
	}
	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return fmt.Errorf("syntax error at unknown location: %w", err)
	}
	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"
	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	return fmt.Errorf("%s", pe.Message())
}
