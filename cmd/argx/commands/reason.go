package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/veridic/ARGX/config"
	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/reason"
	"github.com/veridic/ARGX/sym"
)

// ReasonCmd scores a stored case against an evidence context
var ReasonCmd = &cobra.Command{
	Use:   "reason",
	Short: sym.Reason + " Score a stored case against an evidence context",
	Long: sym.Reason + ` reason — Score a stored case against an evidence context

Loads a case from the evidence store and evaluates the theory and
defeater libraries against a flat context map supplied as YAML, e.g.:

  coverage: 85
  branch_coverage: 72
  tests_pass: true

Output includes applicable theories, active defeaters, the confidence
score, a consistency report, and a banded risk estimate.

Examples:
  argx reason --case case_1 --context evidence.yaml
  argx reason --case case_1`,
	RunE: runReason,
}

var (
	reasonCaseFlag    string
	reasonContextFlag string
)

func init() {
	ReasonCmd.Flags().StringVar(&reasonCaseFlag, "case", "", "Case id to reason about (required)")
	ReasonCmd.Flags().StringVar(&reasonContextFlag, "context", "", "YAML file with the evidence context map")
	ReasonCmd.MarkFlagRequired("case")
}

// reasonReport is the combined CLI output
type reasonReport struct {
	CaseID      string                   `json:"case_id"`
	Reasoning   reason.Result            `json:"reasoning"`
	Consistency reason.ConsistencyReport `json:"consistency"`
	Risk        reason.RiskAssessment    `json:"risk"`
}

func runReason(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	argCase, err := s.LoadCase(reasonCaseFlag)
	if err != nil {
		return err
	}

	context := map[string]interface{}{}
	if reasonContextFlag != "" {
		data, err := os.ReadFile(reasonContextFlag)
		if err != nil {
			return errors.Wrapf(err, "read context %s", reasonContextFlag)
		}
		if err := yaml.Unmarshal(data, &context); err != nil {
			return errors.Wrapf(err, "parse context %s", reasonContextFlag)
		}
	}

	engine := reason.NewEngine()
	if cfg, err := config.Load(); err == nil && cfg.Reasoning.RiskHighAt > 0 {
		engine.SetRiskBands(int(cfg.Reasoning.RiskMediumAt), int(cfg.Reasoning.RiskHighAt))
	}

	report := reasonReport{
		CaseID:      argCase.CaseID,
		Reasoning:   engine.ReasonAboutCase(argCase, context),
		Consistency: engine.AnalyzeConsistency(argCase),
		Risk:        engine.EstimateRisk(argCase, context),
	}
	return printEntries(report)
}
