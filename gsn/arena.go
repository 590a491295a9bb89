package gsn

import (
	"time"

	"github.com/veridic/ARGX/errors"
)

// NodeSet is an id-keyed arena of argument nodes with an optional root
// goal. Cases and fragments both embed it: a case owns a complete
// argument, a fragment a partial one, but the adjacency operations are
// identical.
//
// Mutation assumes a single writer. Hosts fanning requests across
// goroutines must confine each owning case or fragment to one session
// or serialize mutating calls externally.
type NodeSet struct {
	RootGoalID string                   `json:"root_goal_id,omitempty"`
	Nodes      map[string]*ArgumentNode `json:"nodes"`
}

// NewNodeSet creates an empty arena
func NewNodeSet() NodeSet {
	return NodeSet{Nodes: map[string]*ArgumentNode{}}
}

// AddNode adds a node to the arena. The id must not already be present.
func (s *NodeSet) AddNode(node *ArgumentNode) error {
	if node == nil {
		return errors.New("nil node")
	}
	if _, exists := s.Nodes[node.ID]; exists {
		return errors.NewConflictError("node %s", node.ID)
	}
	s.Nodes[node.ID] = node
	return nil
}

// Link records a parent/child relationship between two existing nodes.
// Adjacency is mirrored on both ends. Linking an already linked pair is
// a no-op.
func (s *NodeSet) Link(parentID, childID string) error {
	parent, ok := s.Nodes[parentID]
	if !ok {
		return errors.NewNotFoundError("parent node %s", parentID)
	}
	child, ok := s.Nodes[childID]
	if !ok {
		return errors.NewNotFoundError("child node %s", childID)
	}

	if hasID(parent.ChildIDs, childID) {
		return nil
	}

	parent.ChildIDs = append(parent.ChildIDs, childID)
	if !hasID(child.ParentIDs, parentID) {
		child.ParentIDs = append(child.ParentIDs, parentID)
	}

	now := time.Now()
	parent.UpdatedAt = now
	child.UpdatedAt = now
	return nil
}

// LinkEvidence attaches an evidence id to a node. Idempotent.
func (s *NodeSet) LinkEvidence(nodeID, evidenceID string) error {
	node, ok := s.Nodes[nodeID]
	if !ok {
		return errors.NewNotFoundError("node %s", nodeID)
	}
	if hasID(node.EvidenceIDs, evidenceID) {
		return nil
	}
	node.EvidenceIDs = append(node.EvidenceIDs, evidenceID)
	node.UpdatedAt = time.Now()
	return nil
}

// SetRootGoal designates the arena's root. Only a Goal node may be root.
func (s *NodeSet) SetRootGoal(nodeID string) error {
	node, ok := s.Nodes[nodeID]
	if !ok {
		return errors.NewNotFoundError("node %s", nodeID)
	}
	if node.Kind != KindGoal {
		return errors.Wrapf(errors.ErrInvalidNodeKind, "node %s is %s, root must be a goal", nodeID, node.Kind)
	}
	s.RootGoalID = nodeID
	return nil
}

// ChildrenOf returns the child nodes of the given node in link order
func (s *NodeSet) ChildrenOf(nodeID string) []*ArgumentNode {
	node, ok := s.Nodes[nodeID]
	if !ok {
		return nil
	}
	children := make([]*ArgumentNode, 0, len(node.ChildIDs))
	for _, childID := range node.ChildIDs {
		if child, ok := s.Nodes[childID]; ok {
			children = append(children, child)
		}
	}
	return children
}

// NodesByKind returns every node of the given kind
func (s *NodeSet) NodesByKind(kind NodeKind) []*ArgumentNode {
	var matched []*ArgumentNode
	for _, node := range s.Nodes {
		if node.Kind == kind {
			matched = append(matched, node)
		}
	}
	return matched
}

// TraverseFromRoot walks the argument breadth-first from the root goal.
// Every reachable node is returned exactly once, even when child paths
// re-converge.
func (s *NodeSet) TraverseFromRoot() []*ArgumentNode {
	if s.RootGoalID == "" {
		return nil
	}
	root, ok := s.Nodes[s.RootGoalID]
	if !ok {
		return nil
	}

	visited := map[string]bool{root.ID: true}
	order := []*ArgumentNode{root}
	queue := []*ArgumentNode{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, childID := range current.ChildIDs {
			if visited[childID] {
				continue
			}
			child, ok := s.Nodes[childID]
			if !ok {
				continue
			}
			visited[childID] = true
			order = append(order, child)
			queue = append(queue, child)
		}
	}

	return order
}

// LeafNodes returns every node without children
func (s *NodeSet) LeafNodes() []*ArgumentNode {
	var leaves []*ArgumentNode
	for _, node := range s.Nodes {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}
	return leaves
}
