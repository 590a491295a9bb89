package argtl

import (
	"strings"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// ScriptEntry is the outcome of one script line: either a result or an
// error, never both. Script execution never raises; malformed lines
// become error entries and sibling lines still run.
type ScriptEntry struct {
	Command string      `json:"command"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExecuteScript runs an ArgTL script line by line. Blank lines and
// lines starting with # are skipped. Names bound with -> are
// referenceable by later lines of the same run only.
func (c *Composer) ExecuteScript(script string) []ScriptEntry {
	var entries []ScriptEntry
	bindings := make(map[string]*fragment.Fragment)

	for _, rawLine := range strings.Split(script, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cmd, err := ParseLine(line)
		if err != nil {
			entries = append(entries, ScriptEntry{Command: line, Error: err.Error()})
			continue
		}

		result, err := c.execute(cmd, bindings)
		if err != nil {
			entries = append(entries, ScriptEntry{Command: line, Error: err.Error()})
			continue
		}
		entries = append(entries, ScriptEntry{Command: line, Result: result})
	}

	logger.Debugw("ArgTL script executed",
		"symbol", sym.Compose,
		"entries", len(entries),
	)
	return entries
}

// execute dispatches one parsed command against the composer state
// plus the run-local bindings
func (c *Composer) execute(cmd Command, bindings map[string]*fragment.Fragment) (interface{}, error) {
	switch cmd := cmd.(type) {
	case ComposeCmd:
		fragments := make([]*fragment.Fragment, 0, len(cmd.FragmentIDs))
		for _, id := range cmd.FragmentIDs {
			f, err := c.resolve(id, bindings)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, f)
		}
		merged, err := c.Compose(fragments, cmd.Target, cmd.Strategy)
		if err != nil {
			return nil, err
		}
		bindings[cmd.Target] = merged
		return merged, nil

	case ValidateCmd:
		f, err := c.resolve(cmd.FragmentID, bindings)
		if err != nil {
			return nil, err
		}
		return c.ValidateFragment(f, c.ValidatorNames()), nil

	case LinkCmd:
		a, err := c.resolve(cmd.FromID, bindings)
		if err != nil {
			return nil, err
		}
		b, err := c.resolve(cmd.ToID, bindings)
		if err != nil {
			return nil, err
		}
		c.link(a, b, cmd.Interface)
		return map[string]string{
			"from":      a.FragmentID,
			"to":        b.FragmentID,
			"interface": cmd.Interface,
		}, nil

	default:
		return nil, ErrUnknownCommand
	}
}

// resolve looks an id up in the run bindings first, then the
// composer's registry
func (c *Composer) resolve(id string, bindings map[string]*fragment.Fragment) (*fragment.Fragment, error) {
	if f, ok := bindings[id]; ok {
		return f, nil
	}
	if f, ok := c.fragments[id]; ok {
		return f, nil
	}
	return nil, errors.NewNotFoundError("fragment %s", id)
}
