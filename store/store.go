// Package store persists argument nodes and cases. The core engines
// never perform I/O themselves; they hand records to a NodeStore or
// CaseStore collaborator and move on.
package store

import (
	"github.com/veridic/ARGX/gsn"
)

// NodeStore is the document-shaped CRUD surface the engines require
// of a graph backend
type NodeStore interface {
	// CreateNode persists a labeled property document and returns its
	// id. A caller-supplied "id" property is honored; collisions fail.
	CreateNode(label string, properties map[string]interface{}) (string, error)

	// GetNode returns a node's properties by id
	GetNode(id string) (map[string]interface{}, error)

	// FindNodes returns every node with the label whose properties
	// contain the filter entries. A nil filter matches all nodes of
	// the label.
	FindNodes(label string, filter map[string]interface{}) ([]map[string]interface{}, error)
}

// CaseStore persists whole argument cases
type CaseStore interface {
	SaveCase(argCase *gsn.ArgumentCase) error
	LoadCase(caseID string) (*gsn.ArgumentCase, error)
}
