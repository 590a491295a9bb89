package acql

import (
	"fmt"
	"strings"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/logger"
)

// ScriptEntry is the outcome of one script line, in source order
type ScriptEntry struct {
	QueryType string      `json:"query_type"`
	Target    string      `json:"target"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// parseQueryLine parses `<query_type> on <target_name>`
func parseQueryLine(line string) (Kind, string, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || !strings.EqualFold(fields[1], "on") {
		return "", "", errors.Newf("malformed query %q: expected <query_type> on <target>", line)
	}
	return Kind(strings.ToLower(fields[0])), fields[2], nil
}

// ExecuteScript runs a newline-separated query script against named
// targets. A failing line becomes an error entry; later lines still
// run.
func (e *Engine) ExecuteScript(script string, targets map[string]Target) []ScriptEntry {
	var entries []ScriptEntry

	for _, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		kind, name, err := parseQueryLine(line)
		if err != nil {
			entries = append(entries, ScriptEntry{Error: err.Error()})
			continue
		}

		entry := ScriptEntry{QueryType: string(kind), Target: name}
		target, ok := targets[name]
		if !ok {
			entry.Error = fmt.Sprintf("unknown target %s", name)
			entries = append(entries, entry)
			continue
		}

		result, err := e.ExecuteQuery(kind, target)
		if err != nil {
			logger.Warnw("query failed", "kind", kind, "target", name, "error", err)
			entry.Error = err.Error()
		} else {
			entry.Result = result
		}
		entries = append(entries, entry)
	}

	return entries
}
