// Package gsn provides the Goal Structuring Notation argument model:
// typed nodes, id-keyed adjacency, and the argument case envelope that
// every other ARGX engine builds on.
package gsn

import (
	"time"

	"github.com/veridic/ARGX/sym"
)

// NodeKind classifies an argument node's role in the GSN vocabulary
type NodeKind string

const (
	KindGoal          NodeKind = "goal"          // a claim to be supported
	KindStrategy      NodeKind = "strategy"      // a decomposition of a goal into sub-claims
	KindSolution      NodeKind = "solution"      // evidence grounding a claim
	KindContext       NodeKind = "context"       // scoping information for a claim
	KindAssumption    NodeKind = "assumption"    // an unproven premise the argument relies on
	KindJustification NodeKind = "justification" // rationale for a strategy choice
)

// ValidKinds lists every recognized node kind
var ValidKinds = []NodeKind{
	KindGoal, KindStrategy, KindSolution,
	KindContext, KindAssumption, KindJustification,
}

// Glyph returns the notation symbol for the kind, or the kind name
// when it has no dedicated symbol
func (k NodeKind) Glyph() string {
	switch k {
	case KindGoal:
		return sym.Goal
	case KindStrategy:
		return sym.Strategy
	case KindSolution:
		return sym.Solution
	default:
		return string(k)
	}
}

// IsValid reports whether the kind is part of the GSN vocabulary
func (k NodeKind) IsValid() bool {
	for _, valid := range ValidKinds {
		if k == valid {
			return true
		}
	}
	return false
}

// ArgumentNode is a single node in an argument tree.
//
// Adjacency is stored as ids, never direct references: the owning case or
// fragment holds the only node pointers, so re-converging paths introduce
// no cyclic ownership. ParentIDs and ChildIDs are always mirrored by Link.
type ArgumentNode struct {
	ID          string                 `json:"id"`
	Kind        NodeKind               `json:"node_type"`
	Statement   string                 `json:"statement"`
	Description string                 `json:"description,omitempty"`
	ParentIDs   []string               `json:"parent_ids"`
	ChildIDs    []string               `json:"child_ids"`
	EvidenceIDs []string               `json:"evidence_ids"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewNode creates an argument node with initialized collections
func NewNode(id string, kind NodeKind, statement string) *ArgumentNode {
	now := time.Now()
	return &ArgumentNode{
		ID:          id,
		Kind:        kind,
		Statement:   statement,
		ParentIDs:   []string{},
		ChildIDs:    []string{},
		EvidenceIDs: []string{},
		Properties:  map[string]interface{}{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsLeaf reports whether the node has no children
func (n *ArgumentNode) IsLeaf() bool {
	return len(n.ChildIDs) == 0
}

// HasEvidence reports whether any evidence id is linked to the node
func (n *ArgumentNode) HasEvidence() bool {
	return len(n.EvidenceIDs) > 0
}

// hasID reports whether ids contains id
func hasID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
