package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridic/ARGX/acql"
	"github.com/veridic/ARGX/config"
	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/store"
	"github.com/veridic/ARGX/sym"
)

// QueryCmd runs a query script against stored cases
var QueryCmd = &cobra.Command{
	Use:   "query [script-file]",
	Short: sym.Query + " Run a query script against stored cases",
	Long: sym.Query + ` query — Run a query script against stored cases

Each script line is <query_type> on <target_name>, where the target name
is a case id in the evidence store. Unknown targets and malformed lines
become error entries; the remaining lines still run.

Query types: consistency, completeness, soundness, coverage,
traceability, weaknesses, dependencies, defeaters.

Examples:
  argx query -e "coverage on case_1"
  argx query checks.acql`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

var queryEvalFlag string

func init() {
	QueryCmd.Flags().StringVarP(&queryEvalFlag, "eval", "e", "", "Script text to run instead of a script file")
}

func runQuery(cmd *cobra.Command, args []string) error {
	script, err := scriptText(queryEvalFlag, args)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	// Pre-resolve every target name the script mentions; names that are
	// not stored cases stay absent and fail per-line, not up front
	targets := map[string]acql.Target{}
	for _, line := range strings.Split(script, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) != 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		name := fields[2]
		if _, ok := targets[name]; ok {
			continue
		}
		argCase, err := s.LoadCase(name)
		if err != nil {
			logger.Debugw("Target is not a stored case", "target", name, "error", err)
			continue
		}
		targets[name] = acql.Target{Case: argCase}
	}

	entries := acql.NewEngine().ExecuteScript(script, targets)
	return printEntries(entries)
}

// openStore opens the configured evidence store
func openStore() (*store.SQLiteStore, error) {
	path, err := config.GetDatabasePath()
	if err != nil {
		return nil, errors.Wrap(err, "resolve database path")
	}
	return store.Open(path)
}
