// Package shell parses raw command text. The library uses it to derive
// default labels for new commands and to surface parse diagnostics as
// non-fatal warnings.
package shell

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command represents a parsed command with its arguments.
type Command struct {
	Name       string   // Command name (e.g., "docker-compose", "git")
	Args       []string // Command arguments
	Subcommand string   // First non-flag argument (e.g., "up" in "docker-compose up")
}

// Parse parses shell command text into structured commands.
func Parse(text string) ([]Command, error) {
	parser := syntax.NewParser(
		syntax.Variant(syntax.LangBash),
		syntax.KeepComments(false),
	)

	file, err := parser.Parse(strings.NewReader(text), "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	var commands []Command
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			cmd := extractCommand(n)
			if cmd != nil {
				commands = append(commands, *cmd)
			}
		}
		return true
	})

	return commands, nil
}

// Check reports whether the text parses as valid shell. The error is
// advisory: commands are stored and executed verbatim either way.
func Check(text string) error {
	_, err := Parse(text)
	return err
}

// DefaultLabel derives a display label from command text: the first command
// name plus its subcommand when present. Falls back to the first whitespace
// token when the text does not parse.
func DefaultLabel(text string) string {
	commands, err := Parse(text)
	if err != nil || len(commands) == 0 {
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}

	first := commands[0]
	if first.Subcommand != "" {
		return first.Name + " " + first.Subcommand
	}
	return first.Name
}

// extractCommand extracts command name and arguments from a CallExpr.
func extractCommand(call *syntax.CallExpr) *Command {
	if len(call.Args) == 0 {
		return nil
	}

	cmd := &Command{}

	// Extract command name from first word
	cmd.Name = wordToString(call.Args[0])
	if cmd.Name == "" {
		return nil
	}

	// Extract arguments
	for _, arg := range call.Args[1:] {
		argStr := wordToString(arg)
		cmd.Args = append(cmd.Args, argStr)

		// Find first non-flag argument as subcommand
		if cmd.Subcommand == "" && !strings.HasPrefix(argStr, "-") {
			cmd.Subcommand = argStr
		}
	}

	return cmd
}

// wordToString converts a syntax.Word to a string.
func wordToString(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, qp := range p.Parts {
				if lit, ok := qp.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		case *syntax.ParamExp:
			// Variable expansion - return placeholder
			sb.WriteString("$" + p.Param.Value)
		case *syntax.CmdSubst:
			// Command substitution - ignore the content, mark as dynamic
			sb.WriteString("$()")
		}
	}
	return sb.String()
}
