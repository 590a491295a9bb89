package acql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veridic/ARGX/gsn"
)

// ConsistencyResult reports lexically opposing goal statements
type ConsistencyResult struct {
	Consistent   bool     `json:"consistent"`
	NodesChecked int      `json:"nodes_checked"`
	Issues       []string `json:"issues"`
}

// CompletenessResult reports whether a fragment has the minimum
// argument structure
type CompletenessResult struct {
	Complete        bool     `json:"complete"`
	HasGoal         bool     `json:"has_goal"`
	HasStrategy     bool     `json:"has_strategy"`
	MissingElements []string `json:"missing_elements"`
}

// SoundnessResult reports strategies with no grounded descendants
type SoundnessResult struct {
	Sound  bool     `json:"sound"`
	Issues []string `json:"issues"`
}

// CoverageResult reports the evidence coverage of leaf nodes
type CoverageResult struct {
	CoverageRatio   float64 `json:"coverage_ratio"`
	TotalLeaves     int     `json:"total_leaves"`
	SupportedLeaves int     `json:"supported_leaves"`
}

// TraceabilityResult reports whether linked evidence is reachable from
// the root through a solution node
type TraceabilityResult struct {
	Traceable  bool `json:"traceable"`
	PathsCount int  `json:"paths_count"`
}

// WeaknessResult reports heuristic structural weaknesses
type WeaknessResult struct {
	WeaknessCount int      `json:"weakness_count"`
	Weaknesses    []string `json:"weaknesses"`
}

// DependenciesResult reports a fragment's declared dependencies
type DependenciesResult struct {
	HasDependencies bool `json:"has_dependencies"`
	DependencyCount int  `json:"dependency_count"`
}

// DefeatersResult reports goal statements using brittle universal
// quantifiers
type DefeatersResult struct {
	DefeaterCount      int      `json:"defeater_count"`
	PotentialDefeaters []string `json:"potential_defeaters"`
}

// opposingTerms are absolute-term pairs whose co-occurrence across two
// goal statements suggests contradiction. Matching is lexical, not
// semantic.
var opposingTerms = [][2]string{
	{"always", "never"},
	{"all", "none"},
	{"every", "no"},
	{"must", "cannot"},
}

// universalQuantifiers mark claims that a single counter-example
// defeats
var universalQuantifiers = []string{"always", "never", "all", "every"}

func queryConsistency(target Target) interface{} {
	result := ConsistencyResult{Consistent: true, Issues: []string{}}
	if target.Case == nil {
		return result
	}

	goals := target.Case.NodesByKind(gsn.KindGoal)
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	result.NodesChecked = len(goals)

	for i := 0; i < len(goals); i++ {
		for j := i + 1; j < len(goals); j++ {
			a := strings.ToLower(goals[i].Statement)
			b := strings.ToLower(goals[j].Statement)
			for _, pair := range opposingTerms {
				if (containsWord(a, pair[0]) && containsWord(b, pair[1])) ||
					(containsWord(a, pair[1]) && containsWord(b, pair[0])) {
					result.Consistent = false
					result.Issues = append(result.Issues,
						fmt.Sprintf("goals %s and %s use opposing terms %q/%q",
							goals[i].ID, goals[j].ID, pair[0], pair[1]))
				}
			}
		}
	}
	return result
}

func queryCompleteness(target Target) interface{} {
	result := CompletenessResult{MissingElements: []string{}}
	if target.Fragment == nil || len(target.Fragment.Nodes) == 0 {
		result.MissingElements = append(result.MissingElements,
			"no nodes", "no root goal", "no strategy")
		return result
	}

	frag := target.Fragment
	result.HasGoal = len(frag.NodesByKind(gsn.KindGoal)) > 0
	result.HasStrategy = len(frag.NodesByKind(gsn.KindStrategy)) > 0

	if !result.HasGoal {
		result.MissingElements = append(result.MissingElements, "no goal node")
	}
	if !result.HasStrategy {
		result.MissingElements = append(result.MissingElements, "no strategy node")
	}
	if frag.RootGoalID == "" {
		result.MissingElements = append(result.MissingElements, "no root goal")
	}
	if len(frag.RequiredEvidenceTypes) > 0 {
		for _, missing := range frag.RequiredEvidenceTypes {
			result.MissingElements = append(result.MissingElements,
				fmt.Sprintf("unsatisfied evidence: %s", missing))
		}
	}

	result.Complete = len(result.MissingElements) == 0
	return result
}

func querySoundness(target Target) interface{} {
	result := SoundnessResult{Sound: true, Issues: []string{}}
	if target.Case == nil {
		return result
	}

	strategies := target.Case.NodesByKind(gsn.KindStrategy)
	sort.Slice(strategies, func(i, j int) bool { return strategies[i].ID < strategies[j].ID })

	for _, strat := range strategies {
		if !hasGroundedDescendant(target.Case, strat.ID) {
			result.Sound = false
			result.Issues = append(result.Issues,
				fmt.Sprintf("strategy %s has no goal or solution descendant", strat.ID))
		}
	}
	return result
}

// hasGroundedDescendant walks below a node looking for a Goal or
// Solution, visited-set safe against re-converging paths
func hasGroundedDescendant(argCase *gsn.ArgumentCase, nodeID string) bool {
	visited := map[string]bool{nodeID: true}
	queue := append([]string{}, argCase.Nodes[nodeID].ChildIDs...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := argCase.Nodes[id]
		if !ok {
			continue
		}
		if node.Kind == gsn.KindGoal || node.Kind == gsn.KindSolution {
			return true
		}
		queue = append(queue, node.ChildIDs...)
	}
	return false
}

func queryCoverage(target Target) interface{} {
	result := CoverageResult{}
	if target.Case == nil {
		return result
	}

	leaves := target.Case.LeafNodes()
	result.TotalLeaves = len(leaves)
	if len(leaves) == 0 {
		return result
	}

	for _, leaf := range leaves {
		if leaf.HasEvidence() {
			result.SupportedLeaves++
		}
	}
	result.CoverageRatio = float64(result.SupportedLeaves) / float64(result.TotalLeaves)
	return result
}

func queryTraceability(target Target) interface{} {
	result := TraceabilityResult{}
	if target.Fragment == nil || len(target.Fragment.EvidenceIDs) == 0 {
		return result
	}

	frag := target.Fragment

	// Evidence carried by a solution node reachable from the root
	// counts as traceable
	reachableSolutions := map[string]*gsn.ArgumentNode{}
	for _, node := range frag.TraverseFromRoot() {
		if node.Kind == gsn.KindSolution {
			reachableSolutions[node.ID] = node
		}
	}

	for _, evidenceID := range frag.EvidenceIDs {
		for _, solution := range reachableSolutions {
			if hasEvidenceID(solution, evidenceID) {
				result.PathsCount++
				break
			}
		}
	}

	result.Traceable = result.PathsCount == len(frag.EvidenceIDs)
	return result
}

func hasEvidenceID(node *gsn.ArgumentNode, evidenceID string) bool {
	for _, id := range node.EvidenceIDs {
		if id == evidenceID {
			return true
		}
	}
	return false
}

func queryWeaknesses(target Target) interface{} {
	result := WeaknessResult{Weaknesses: []string{}}

	var nodes map[string]*gsn.ArgumentNode
	var rootID string
	switch {
	case target.Case != nil:
		nodes, rootID = target.Case.Nodes, target.Case.RootGoalID
	case target.Fragment != nil:
		nodes, rootID = target.Fragment.Nodes, target.Fragment.RootGoalID
	default:
		return result
	}

	if rootID == "" {
		result.Weaknesses = append(result.Weaknesses, "no root goal set")
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := nodes[id]
		if node.IsLeaf() && !node.HasEvidence() {
			result.Weaknesses = append(result.Weaknesses,
				fmt.Sprintf("leaf %s has no evidence", id))
		}
		if len(node.ParentIDs) == 0 && id != rootID {
			result.Weaknesses = append(result.Weaknesses,
				fmt.Sprintf("node %s is orphaned", id))
		}
	}

	result.WeaknessCount = len(result.Weaknesses)
	return result
}

func queryDependencies(target Target) interface{} {
	result := DependenciesResult{}
	if target.Fragment == nil {
		return result
	}
	result.DependencyCount = len(target.Fragment.DependsOn)
	result.HasDependencies = result.DependencyCount > 0
	return result
}

func queryDefeaters(target Target) interface{} {
	result := DefeatersResult{PotentialDefeaters: []string{}}
	if target.Case == nil {
		return result
	}

	goals := target.Case.NodesByKind(gsn.KindGoal)
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })

	for _, goal := range goals {
		statement := strings.ToLower(goal.Statement)
		for _, quantifier := range universalQuantifiers {
			if containsWord(statement, quantifier) {
				result.PotentialDefeaters = append(result.PotentialDefeaters,
					fmt.Sprintf("goal %s claims %q: a single counter-example defeats it", goal.ID, quantifier))
				break
			}
		}
	}

	result.DefeaterCount = len(result.PotentialDefeaters)
	return result
}

// containsWord reports whether text contains word as a whole token
func containsWord(text, word string) bool {
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_')
	}) {
		if strings.EqualFold(token, word) {
			return true
		}
	}
	return false
}
