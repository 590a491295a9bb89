package depgraph

import (
	"sort"

	"github.com/veridic/ARGX/errors"
)

// ChainNode is one level of a resource's outgoing dependency closure
type ChainNode struct {
	ResourceID   string       `json:"resource_id"`
	Name         string       `json:"name"`
	Kind         ResourceKind `json:"resource_type"`
	Dependencies []ChainNode  `json:"dependencies"`
}

// ImpactAnalysis lists everything that transitively depends on a
// resource
type ImpactAnalysis struct {
	Resource          *Resource   `json:"resource"`
	ImpactedCount     int         `json:"impacted_count"`
	ImpactedResources []*Resource `json:"impacted_resources"`
}

// GetDependencyChain returns the recursive outgoing closure of a
// resource as a nested structure. Cycles terminate at the first
// revisited id.
func (t *Tracker) GetDependencyChain(resourceID string) (*ChainNode, error) {
	if _, ok := t.resources[resourceID]; !ok {
		return nil, errors.NewNotFoundError("resource %s", resourceID)
	}
	visited := map[string]bool{}
	return t.chain(resourceID, visited), nil
}

func (t *Tracker) chain(resourceID string, visited map[string]bool) *ChainNode {
	resource := t.resources[resourceID]
	node := &ChainNode{
		ResourceID:   resourceID,
		Name:         resource.Name,
		Kind:         resource.Kind,
		Dependencies: []ChainNode{},
	}
	visited[resourceID] = true

	for _, dep := range t.GetDependencies(resourceID, Outgoing) {
		if visited[dep.TargetID] {
			continue
		}
		if _, ok := t.resources[dep.TargetID]; !ok {
			continue
		}
		node.Dependencies = append(node.Dependencies, *t.chain(dep.TargetID, visited))
	}
	return node
}

// GenerateImpactAnalysis computes the incoming transitive closure of a
// resource: every resource that directly or indirectly depends on it.
// Converging paths report each impacted resource once.
func (t *Tracker) GenerateImpactAnalysis(resourceID string) (*ImpactAnalysis, error) {
	resource, ok := t.resources[resourceID]
	if !ok {
		return nil, errors.NewNotFoundError("resource %s", resourceID)
	}

	impacted := map[string]bool{}
	queue := []string{resourceID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range t.GetDependencies(current, Incoming) {
			if dep.SourceID == resourceID || impacted[dep.SourceID] {
				continue
			}
			impacted[dep.SourceID] = true
			queue = append(queue, dep.SourceID)
		}
	}

	ids := make([]string, 0, len(impacted))
	for id := range impacted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	analysis := &ImpactAnalysis{
		Resource:          resource,
		ImpactedCount:     len(ids),
		ImpactedResources: make([]*Resource, 0, len(ids)),
	}
	for _, id := range ids {
		analysis.ImpactedResources = append(analysis.ImpactedResources, t.resources[id])
	}
	return analysis, nil
}
