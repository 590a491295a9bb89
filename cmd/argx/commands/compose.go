package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/veridic/ARGX/argtl"
	"github.com/veridic/ARGX/config"
	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/gsn"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/store"
	"github.com/veridic/ARGX/sym"
)

// ComposeCmd runs a composition script over instantiated fragments
var ComposeCmd = &cobra.Command{
	Use:   "compose [script-file]",
	Short: sym.Compose + " Run a composition script",
	Long: sym.Compose + ` compose — Run a composition script

Instantiates fragments from named patterns, then executes a line-oriented
composition script against them. Script results are printed as JSON; a
failing line is reported in place and its siblings still run.

With --assemble, the instantiated fragments are merged into a complete
case and saved to the evidence store, where query and reason can find it.
When patterns.watch is enabled, compose stays running and re-executes the
script after every pattern directory reload; interrupt to stop.

Script commands:
  compose <id>... [using <strategy>] -> <name>
  validate <id>
  link <id> to <id> via "<interface>"

Examples:
  argx compose -F q=component_quality:payments -F s=security_assurance:payments script.argtl
  argx compose -F q=component_quality:payments -e "validate q"
  argx compose -F q=component_quality:payments -e "validate q" --assemble case_1 --title "Payments quality"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompose,
}

var (
	composeEvalFlag      string
	composeFragmentFlags []string
	composeAssembleFlag  string
	composeTitleFlag     string
)

func init() {
	ComposeCmd.Flags().StringVarP(&composeEvalFlag, "eval", "e", "", "Script text to run instead of a script file")
	ComposeCmd.Flags().StringArrayVarP(&composeFragmentFlags, "fragment", "F", nil,
		"Fragment to instantiate, as name=pattern:component (repeatable)")
	ComposeCmd.Flags().StringVar(&composeAssembleFlag, "assemble", "",
		"Assemble the fragments into a case with this id and save it to the store")
	ComposeCmd.Flags().StringVar(&composeTitleFlag, "title", "", "Title for the assembled case (defaults to the case id)")
}

func runCompose(cmd *cobra.Command, args []string) error {
	script, err := scriptText(composeEvalFlag, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	lib := fragment.NewLibrary()
	if cfg.Patterns.Dir != "" {
		if _, err := lib.LoadPatternDir(cfg.Patterns.Dir); err != nil {
			return errors.Wrap(err, "load pattern directory")
		}
	}

	// One full pass: instantiate the -F fragments against the current
	// pattern library, run the script, and optionally persist a case
	run := func() error {
		composer := argtl.NewComposer()
		fragmentIDs := make([]string, 0, len(composeFragmentFlags))
		for _, spec := range composeFragmentFlags {
			name, patternName, componentName, err := parseFragmentSpec(spec)
			if err != nil {
				return err
			}
			frag, err := lib.CreateFromPattern(patternName, componentName)
			if err != nil {
				return errors.Wrapf(err, "instantiate %s", name)
			}
			frag.FragmentID = name
			if err := composer.Register(frag); err != nil {
				return err
			}
			fragmentIDs = append(fragmentIDs, name)
		}

		entries := composer.ExecuteScript(script)
		if err := printEntries(entries); err != nil {
			return err
		}
		if composeAssembleFlag == "" {
			return nil
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		argCase, err := assembleAndStore(composer, s, fragmentIDs, composeAssembleFlag, composeTitleFlag)
		if err != nil {
			return err
		}
		logger.Infow("Case stored",
			"symbol", sym.Case,
			"case_id", argCase.CaseID,
			"nodes", len(argCase.Nodes),
		)
		return nil
	}

	if err := run(); err != nil {
		return err
	}
	if !cfg.Patterns.Watch || cfg.Patterns.Dir == "" {
		return nil
	}
	return watchAndRerun(cfg.Patterns.Dir, lib, run)
}

// assembleAndStore merges the instantiated fragments into a case and
// persists it in the evidence store
func assembleAndStore(composer *argtl.Composer, cs store.CaseStore, fragmentIDs []string, caseID, title string) (*gsn.ArgumentCase, error) {
	if title == "" {
		title = caseID
	}
	argCase, err := composer.AssembleCase(fragmentIDs, caseID, title)
	if err != nil {
		return nil, err
	}
	if err := cs.SaveCase(argCase); err != nil {
		return nil, errors.Wrapf(err, "store case %s", caseID)
	}
	return argCase, nil
}

// watchAndRerun keeps the command alive and re-runs the pass after
// every pattern directory reload, until interrupted
func watchAndRerun(dir string, lib *fragment.Library, run func() error) error {
	watcher, err := fragment.NewWatcher(dir, lib)
	if err != nil {
		return errors.Wrap(err, "watch pattern directory")
	}
	reloads := make(chan struct{}, 1)
	watcher.SetOnReload(func() {
		select {
		case reloads <- struct{}{}:
		default:
		}
	})
	watcher.Start()
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("Watching pattern directory",
		"symbol", sym.Fragment,
		"dir", dir,
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloads:
			if err := run(); err != nil {
				logger.Errorw("Re-run after pattern reload failed",
					"symbol", sym.Compose,
					"error", err,
				)
			}
		}
	}
}

// parseFragmentSpec splits name=pattern:component
func parseFragmentSpec(spec string) (name, pattern, component string, err error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", "", "", errors.Newf("invalid fragment spec %q: expected name=pattern:component", spec)
	}
	pattern, component, ok = strings.Cut(rest, ":")
	if !ok || pattern == "" || component == "" {
		return "", "", "", errors.Newf("invalid fragment spec %q: expected name=pattern:component", spec)
	}
	return name, pattern, component, nil
}

// scriptText resolves the script from -e or a file argument
func scriptText(eval string, args []string) (string, error) {
	if eval != "" {
		return eval, nil
	}
	if len(args) == 0 {
		return "", errors.New("provide a script file or -e <script>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "read script %s", args[0])
	}
	return string(data), nil
}

// printEntries renders script results as indented JSON. Per-line
// failures are data, not a command failure: partial success exits zero.
func printEntries(entries interface{}) error {
	output, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "format results")
	}
	fmt.Println(string(output))
	return nil
}
