// Package depgraph tracks resources and the dependencies between them,
// answering "what breaks if this changes" via transitive impact
// analysis. Tool adapters keep the graph current from external
// collaborators such as version control.
package depgraph

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// ResourceKind classifies a tracked resource
type ResourceKind string

const (
	KindFile      ResourceKind = "file"
	KindDirectory ResourceKind = "directory"
	KindFragment  ResourceKind = "fragment"
	KindTest      ResourceKind = "test"
	KindEvidence  ResourceKind = "evidence"
	KindService   ResourceKind = "service"
)

// DependencyKind classifies an edge between resources
type DependencyKind string

const (
	DepRequires  DependencyKind = "requires"
	DepTests     DependencyKind = "tests"
	DepValidates DependencyKind = "validates"
	DepProduces  DependencyKind = "produces"
)

// Resource is one tracked artifact. Version increases by exactly one
// per update, never otherwise.
type Resource struct {
	ResourceID string                 `json:"resource_id"`
	Kind       ResourceKind           `json:"resource_type"`
	Name       string                 `json:"name"`
	Location   string                 `json:"location"`
	Tool       string                 `json:"tool"`
	Version    int                    `json:"version"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Dependency is a directed edge: Source depends on Target
type Dependency struct {
	SourceID    string         `json:"source_id"`
	TargetID    string         `json:"target_id"`
	Kind        DependencyKind `json:"dependency_type"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Direction selects which edges GetDependencies returns
type Direction string

const (
	Outgoing Direction = "outgoing" // edges where the resource is the source
	Incoming Direction = "incoming" // edges where the resource is the target
)

// UpdateListener observes one resource's mutations
type UpdateListener func(resource *Resource, event string)

// ToolAdapter syncs external state into the tracker and returns the
// ids it registered or touched
type ToolAdapter func(tracker *Tracker, args map[string]interface{}) ([]string, error)

// Tracker owns a per-instance resource and dependency registry.
// Mutation assumes a single writer per instance.
type Tracker struct {
	resources    map[string]*Resource
	dependencies []Dependency
	listeners    map[string][]UpdateListener
	adapters     map[string]ToolAdapter
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		resources: map[string]*Resource{},
		listeners: map[string][]UpdateListener{},
		adapters:  map[string]ToolAdapter{},
	}
}

// RegisterResource adds a resource. With an empty resourceID an id is
// generated; a caller-supplied id must not collide.
func (t *Tracker) RegisterResource(kind ResourceKind, name, location, tool string, metadata map[string]interface{}, resourceID string) (*Resource, error) {
	if resourceID == "" {
		resourceID = "res-" + uuid.NewString()[:8]
	} else if _, exists := t.resources[resourceID]; exists {
		return nil, errors.NewConflictError("resource %s", resourceID)
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	now := time.Now()
	resource := &Resource{
		ResourceID: resourceID,
		Kind:       kind,
		Name:       name,
		Location:   location,
		Tool:       tool,
		Version:    1,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	t.resources[resourceID] = resource

	logger.Debugw("Resource registered",
		"symbol", sym.Deps,
		"resource_id", resourceID,
		"kind", kind,
		"tool", tool,
	)
	return resource, nil
}

// GetResource returns a registered resource
func (t *Tracker) GetResource(resourceID string) (*Resource, error) {
	resource, ok := t.resources[resourceID]
	if !ok {
		return nil, errors.NewNotFoundError("resource %s", resourceID)
	}
	return resource, nil
}

// UpdateResource merges the metadata patch, bumps the version by one,
// and notifies the resource's listeners. A panicking listener is
// logged and never aborts the mutation.
func (t *Tracker) UpdateResource(resourceID string, metadataPatch map[string]interface{}) (*Resource, error) {
	resource, ok := t.resources[resourceID]
	if !ok {
		return nil, errors.NewNotFoundError("resource %s", resourceID)
	}

	for key, value := range metadataPatch {
		resource.Metadata[key] = value
	}
	resource.Version++
	resource.UpdatedAt = time.Now()

	for _, listener := range t.listeners[resourceID] {
		t.notify(listener, resource, "updated")
	}
	return resource, nil
}

// notify invokes one listener, containing any panic
func (t *Tracker) notify(listener UpdateListener, resource *Resource, event string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("Update listener panicked",
				"resource_id", resource.ResourceID,
				"event", event,
				"panic", r,
			)
		}
	}()
	listener(resource, event)
}

// RegisterUpdateListener subscribes a callback to one resource's
// mutations. The resource must exist.
func (t *Tracker) RegisterUpdateListener(resourceID string, listener UpdateListener) error {
	if _, ok := t.resources[resourceID]; !ok {
		return errors.NewNotFoundError("resource %s", resourceID)
	}
	t.listeners[resourceID] = append(t.listeners[resourceID], listener)
	return nil
}

// LinkResources records that source depends on target. Both ends must
// exist. Duplicate edges of the same shape are permitted: each link
// call is an independent observation.
func (t *Tracker) LinkResources(sourceID, targetID string, kind DependencyKind, description string) error {
	if _, ok := t.resources[sourceID]; !ok {
		return errors.NewNotFoundError("source resource %s", sourceID)
	}
	if _, ok := t.resources[targetID]; !ok {
		return errors.NewNotFoundError("target resource %s", targetID)
	}

	t.dependencies = append(t.dependencies, Dependency{
		SourceID:    sourceID,
		TargetID:    targetID,
		Kind:        kind,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

// GetDependencies returns the direct edges touching a resource
func (t *Tracker) GetDependencies(resourceID string, direction Direction) []Dependency {
	var edges []Dependency
	for _, dep := range t.dependencies {
		switch direction {
		case Outgoing:
			if dep.SourceID == resourceID {
				edges = append(edges, dep)
			}
		case Incoming:
			if dep.TargetID == resourceID {
				edges = append(edges, dep)
			}
		}
	}
	return edges
}

// QueryResources scans for resources matching every supplied filter.
// Zero-value filters are ignored; namePattern matches as a substring.
func (t *Tracker) QueryResources(kind ResourceKind, tool, namePattern string) []*Resource {
	var matched []*Resource
	for _, resource := range t.resources {
		if kind != "" && resource.Kind != kind {
			continue
		}
		if tool != "" && resource.Tool != tool {
			continue
		}
		if namePattern != "" && !strings.Contains(resource.Name, namePattern) {
			continue
		}
		matched = append(matched, resource)
	}
	return matched
}

// RegisterToolAdapter registers the sync function for an external tool
func (t *Tracker) RegisterToolAdapter(toolName string, adapter ToolAdapter) error {
	if toolName == "" || adapter == nil {
		return errors.New("tool name and adapter are required")
	}
	if _, exists := t.adapters[toolName]; exists {
		return errors.NewConflictError("tool adapter %s", toolName)
	}
	t.adapters[toolName] = adapter
	return nil
}

// SyncFromTool runs a registered adapter. Adapter errors are returned
// to the caller but have already been logged; the tracker's state stays
// whatever the adapter managed to register before failing.
func (t *Tracker) SyncFromTool(toolName string, args map[string]interface{}) ([]string, error) {
	adapter, ok := t.adapters[toolName]
	if !ok {
		return nil, errors.NewNotFoundError("tool adapter %s", toolName)
	}

	ids, err := adapter(t, args)
	if err != nil {
		logger.Errorw("Tool sync failed",
			"symbol", sym.Deps,
			"tool", toolName,
			"error", err,
		)
		return ids, errors.Wrapf(err, "sync from %s", toolName)
	}

	logger.Infow("Tool sync complete",
		"symbol", sym.Deps,
		"tool", toolName,
		"resources", len(ids),
	)
	return ids, nil
}

// Statistics summarizes the tracker's contents
type Statistics struct {
	TotalResources    int                  `json:"total_resources"`
	TotalDependencies int                  `json:"total_dependencies"`
	ByKind            map[ResourceKind]int `json:"by_type"`
	ByTool            map[string]int       `json:"by_tool"`
}

// GetStatistics counts resources by kind and tool
func (t *Tracker) GetStatistics() Statistics {
	stats := Statistics{
		TotalResources:    len(t.resources),
		TotalDependencies: len(t.dependencies),
		ByKind:            map[ResourceKind]int{},
		ByTool:            map[string]int{},
	}
	for _, resource := range t.resources {
		stats.ByKind[resource.Kind]++
		if resource.Tool != "" {
			stats.ByTool[resource.Tool]++
		}
	}
	return stats
}
