// Package argtl implements the ARGX transformation language: fragment
// composition strategies, fragment validation, and the line-oriented
// scripting surface that drives them.
package argtl

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/veridic/ARGX/errors"
)

// Strategy names a composition approach
type Strategy string

const (
	StrategyParallel     Strategy = "parallel"
	StrategySequential   Strategy = "sequential"
	StrategyHierarchical Strategy = "hierarchical"
)

// Command is the tagged-union AST for ArgTL script lines. Each parsed
// line becomes exactly one Command; the executor dispatches on the
// concrete type.
type Command interface {
	command()
}

// ComposeCmd merges the named fragments into a new one bound to Target
type ComposeCmd struct {
	FragmentIDs []string
	Strategy    Strategy
	Target      string
}

// ValidateCmd runs the validation checks against one fragment
type ValidateCmd struct {
	FragmentID string
}

// LinkCmd records a dependency from A to B with an interface description
type LinkCmd struct {
	FromID    string
	ToID      string
	Interface string
}

func (ComposeCmd) command()  {}
func (ValidateCmd) command() {}
func (LinkCmd) command()     {}

// ErrUnknownCommand is returned for lines whose first keyword is not
// part of the grammar
var ErrUnknownCommand = errors.New("Unknown command")

// ParseLine parses a single ArgTL script line into a Command.
// Keywords are case-insensitive; quoted strings keep their spaces.
//
// Grammar:
//
//	compose <id> [<id> ...] [using <strategy>] -> <name>
//	validate <id>
//	link <id> to <id> via "<free text>"
func ParseLine(line string) (Command, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		// Unbalanced quotes; fall back to whitespace fields
		tokens = strings.Fields(line)
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty command")
	}

	switch strings.ToLower(tokens[0]) {
	case "compose":
		return parseCompose(tokens[1:])
	case "validate":
		return parseValidate(tokens[1:])
	case "link":
		return parseLink(tokens[1:])
	default:
		return nil, ErrUnknownCommand
	}
}

func parseCompose(tokens []string) (Command, error) {
	cmd := ComposeCmd{Strategy: StrategyParallel}

	state := "ids"
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		switch {
		case strings.EqualFold(token, "using"):
			state = "strategy"
		case token == "->":
			state = "target"
		default:
			switch state {
			case "ids":
				cmd.FragmentIDs = append(cmd.FragmentIDs, token)
			case "strategy":
				cmd.Strategy = Strategy(strings.ToLower(token))
				state = "ids"
			case "target":
				if cmd.Target != "" {
					return nil, errors.New("compose: multiple targets after ->")
				}
				cmd.Target = token
			}
		}
	}

	if len(cmd.FragmentIDs) == 0 {
		return nil, errors.New("compose: at least one fragment id is required")
	}
	if cmd.Target == "" {
		return nil, errors.New("compose: missing -> <name>")
	}
	switch cmd.Strategy {
	case StrategyParallel, StrategySequential, StrategyHierarchical:
	default:
		return nil, errors.Wrapf(errors.ErrUnknownStrategy, "%s", cmd.Strategy)
	}
	return cmd, nil
}

func parseValidate(tokens []string) (Command, error) {
	if len(tokens) != 1 {
		return nil, errors.New("validate: expected exactly one fragment id")
	}
	return ValidateCmd{FragmentID: tokens[0]}, nil
}

func parseLink(tokens []string) (Command, error) {
	// link <id> to <id> via "<text>"
	if len(tokens) != 5 ||
		!strings.EqualFold(tokens[1], "to") ||
		!strings.EqualFold(tokens[3], "via") {
		return nil, errors.New(`link: expected 'link <id> to <id> via "<text>"'`)
	}
	return LinkCmd{
		FromID:    tokens[0],
		ToID:      tokens[2],
		Interface: tokens[4],
	}, nil
}
