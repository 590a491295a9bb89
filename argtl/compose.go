package argtl

import (
	"fmt"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/gsn"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// ComposeIDs resolves fragment ids against the composer's namespace
// and composes them
func (c *Composer) ComposeIDs(fragmentIDs []string, targetID string, strategy Strategy) (*fragment.Fragment, error) {
	fragments := make([]*fragment.Fragment, 0, len(fragmentIDs))
	for _, id := range fragmentIDs {
		f, ok := c.fragments[id]
		if !ok {
			return nil, errors.NewNotFoundError("fragment %s", id)
		}
		fragments = append(fragments, f)
	}
	return c.Compose(fragments, targetID, strategy)
}

// Compose merges the input fragments into a new fragment according to
// the strategy. Inputs are never mutated: every node is deep-copied
// into the result, which exclusively owns its arena.
//
//   - parallel: a synthesized root goal and strategy node; each input
//     root becomes a child of the synthesized strategy. The result has
//     the sum of input node counts plus two.
//   - sequential: input roots chained goal to goal in input order; the
//     first root is the overall root; no synthetic nodes.
//   - hierarchical: the first input's root is the overall root; later
//     inputs attach under the first input's strategy node when it has
//     one, otherwise directly under the root.
func (c *Composer) Compose(fragments []*fragment.Fragment, targetID string, strategy Strategy) (*fragment.Fragment, error) {
	if len(fragments) == 0 {
		return nil, errors.New("compose requires at least one fragment")
	}

	merged := fragment.New(targetID, targetID, fragments[0].Type)
	rootIDs := make([]string, 0, len(fragments))

	for _, input := range fragments {
		if input.RootGoalID == "" {
			return nil, errors.Newf("fragment %s has no root goal", input.FragmentID)
		}
		for _, node := range input.Nodes {
			if err := merged.AddNode(copyNode(node)); err != nil {
				return nil, errors.Wrapf(err, "merging fragment %s", input.FragmentID)
			}
		}
		rootIDs = append(rootIDs, input.RootGoalID)
		mergeBookkeeping(merged, input)
	}

	var err error
	switch strategy {
	case StrategyParallel:
		err = composeParallel(merged, targetID, rootIDs)
	case StrategySequential:
		err = composeSequential(merged, rootIDs)
	case StrategyHierarchical:
		err = composeHierarchical(merged, rootIDs)
	default:
		return nil, errors.Wrapf(errors.ErrUnknownStrategy, "%s", strategy)
	}
	if err != nil {
		return nil, err
	}

	inputs := make([]string, len(fragments))
	for i, f := range fragments {
		inputs[i] = f.FragmentID
	}
	c.record("compose", inputs, targetID, map[string]string{"strategy": string(strategy)})

	logger.Debugw("Fragments composed",
		"symbol", sym.Compose,
		"strategy", strategy,
		"inputs", len(fragments),
		"nodes", merged.NodeCount(),
	)
	return merged, nil
}

func composeParallel(merged *fragment.Fragment, targetID string, rootIDs []string) error {
	root := gsn.NewNode(targetID+"_goal", gsn.KindGoal,
		fmt.Sprintf("Composite argument %s holds", targetID))
	strat := gsn.NewNode(targetID+"_strategy", gsn.KindStrategy,
		"Argue over each composed sub-argument in parallel")

	if err := merged.AddNode(root); err != nil {
		return err
	}
	if err := merged.AddNode(strat); err != nil {
		return err
	}
	if err := merged.SetRootGoal(root.ID); err != nil {
		return err
	}
	if err := merged.Link(root.ID, strat.ID); err != nil {
		return err
	}
	for _, rootID := range rootIDs {
		if err := merged.Link(strat.ID, rootID); err != nil {
			return err
		}
	}
	return nil
}

func composeSequential(merged *fragment.Fragment, rootIDs []string) error {
	if err := merged.SetRootGoal(rootIDs[0]); err != nil {
		return err
	}
	for i := 1; i < len(rootIDs); i++ {
		if err := merged.Link(rootIDs[i-1], rootIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

func composeHierarchical(merged *fragment.Fragment, rootIDs []string) error {
	overallRoot := rootIDs[0]
	if err := merged.SetRootGoal(overallRoot); err != nil {
		return err
	}

	// Attach under the first fragment's strategy node when it has one
	attachPoint := overallRoot
	for _, child := range merged.ChildrenOf(overallRoot) {
		if child.Kind == gsn.KindStrategy {
			attachPoint = child.ID
			break
		}
	}

	for i := 1; i < len(rootIDs); i++ {
		if err := merged.Link(attachPoint, rootIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// mergeBookkeeping unions an input fragment's evidence and dependency
// records into the merged result
func mergeBookkeeping(merged, input *fragment.Fragment) {
	for _, id := range input.EvidenceIDs {
		if !containsID(merged.EvidenceIDs, id) {
			merged.EvidenceIDs = append(merged.EvidenceIDs, id)
		}
	}
	for _, required := range input.RequiredEvidenceTypes {
		if !containsID(merged.RequiredEvidenceTypes, required) {
			merged.RequiredEvidenceTypes = append(merged.RequiredEvidenceTypes, required)
		}
	}
	for _, satisfied := range input.SatisfiedEvidenceTypes {
		if !containsID(merged.SatisfiedEvidenceTypes, satisfied) {
			merged.SatisfiedEvidenceTypes = append(merged.SatisfiedEvidenceTypes, satisfied)
		}
	}
	for _, dep := range input.DependsOn {
		if !containsID(merged.DependsOn, dep) {
			merged.DependsOn = append(merged.DependsOn, dep)
		}
	}
}

// copyNode deep-copies a node so composed fragments never share state
// with their inputs
func copyNode(node *gsn.ArgumentNode) *gsn.ArgumentNode {
	clone := *node
	clone.ParentIDs = append([]string{}, node.ParentIDs...)
	clone.ChildIDs = append([]string{}, node.ChildIDs...)
	clone.EvidenceIDs = append([]string{}, node.EvidenceIDs...)
	clone.Properties = make(map[string]interface{}, len(node.Properties))
	for key, value := range node.Properties {
		clone.Properties[key] = value
	}
	return &clone
}
