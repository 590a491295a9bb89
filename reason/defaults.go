package reason

// defaultTheories seeds every new engine. The baseline covers the
// evidence signals a CI pipeline can cheaply provide.
func defaultTheories() []Theory {
	return []Theory{
		{
			TheoryID: "test_coverage",
			Name:     "Test coverage supports correctness claims",
			Category: CategoryReliability,
			Premises: []Predicate{
				{Key: "coverage", Op: OpGTE, Value: 80},
				{Key: "tests_pass", Op: OpFlag},
				{Key: "branch_coverage", Op: OpGTE, Value: 70},
			},
			Conclusion:    "The component is adequately tested",
			Justification: "Line and branch coverage above threshold with a green suite",
			Confidence:    0.85,
		},
		{
			TheoryID: "static_analysis",
			Name:     "Clean static analysis supports defect-freedom claims",
			Category: CategoryMaintainability,
			Premises: []Predicate{
				{Key: "static_analysis_clean", Op: OpFlag},
				{Key: "lint_warnings", Op: OpLTE, Value: 5},
			},
			Conclusion:    "The code is free of common defect patterns",
			Justification: "Analyzer ran clean with warnings within tolerance",
			Confidence:    0.7,
		},
		{
			TheoryID: "code_review",
			Name:     "Independent review supports design claims",
			Category: CategoryMaintainability,
			Premises: []Predicate{
				{Key: "review_completed", Op: OpFlag},
				{Key: "review_approvals", Op: OpGTE, Value: 1},
			},
			Conclusion:    "The changes were independently reviewed",
			Justification: "At least one approving reviewer outside the author",
			Confidence:    0.75,
		},
	}
}

// defaultDefeaters seeds every new engine
func defaultDefeaters() []Defeater {
	return []Defeater{
		{
			DefeaterID:  "coverage_defeater",
			Name:        "Coverage below floor",
			Kind:        Undermine,
			TargetClaim: "adequately tested",
			Argument:    "Low coverage means the test evidence does not measure what it claims to",
			Conditions: []Predicate{
				{Key: "coverage", Op: OpLTE, Value: 50},
			},
			Severity:    SeverityHigh,
			Remediation: "Raise line coverage above 50% before relying on test evidence",
		},
		{
			DefeaterID:  "static_analysis_defeater",
			Name:        "Outstanding analyzer findings",
			Kind:        Undercut,
			TargetClaim: "free of common defect patterns",
			Argument:    "Open findings break the inference from a passing build to defect-freedom",
			Conditions: []Predicate{
				{Key: "static_analysis_errors", Op: OpGTE, Value: 1},
			},
			Severity:    SeverityMedium,
			Remediation: "Resolve or triage every open static analysis finding",
		},
		{
			DefeaterID:  "dependency_defeater",
			Name:        "Stale dependencies",
			Kind:        Rebuttal,
			TargetClaim: "independently reviewed",
			Argument:    "Review conclusions do not extend to unreviewed dependency updates",
			Conditions: []Predicate{
				{Key: "outdated_dependencies", Op: OpGTE, Value: 1},
			},
			Severity:    SeverityMedium,
			Remediation: "Update outdated dependencies and re-run the evidence pipeline",
		},
	}
}
