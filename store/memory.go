package store

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/gsn"
)

// MemoryStore is an in-process NodeStore and CaseStore. It backs tests
// and ephemeral sessions; nothing survives the process.
type MemoryStore struct {
	nodes map[string]memoryNode
	cases map[string][]byte
}

type memoryNode struct {
	label      string
	properties map[string]interface{}
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: map[string]memoryNode{},
		cases: map[string][]byte{},
	}
}

// CreateNode persists a labeled property document
func (m *MemoryStore) CreateNode(label string, properties map[string]interface{}) (string, error) {
	if label == "" {
		return "", errors.New("node label is required")
	}

	id, _ := properties["id"].(string)
	if id == "" {
		id = "node-" + uuid.NewString()[:8]
	} else if _, exists := m.nodes[id]; exists {
		return "", errors.NewConflictError("node %s", id)
	}

	copied := make(map[string]interface{}, len(properties)+1)
	for key, value := range properties {
		copied[key] = value
	}
	copied["id"] = id

	m.nodes[id] = memoryNode{label: label, properties: copied}
	return id, nil
}

// GetNode returns a node's properties by id
func (m *MemoryStore) GetNode(id string) (map[string]interface{}, error) {
	node, ok := m.nodes[id]
	if !ok {
		return nil, errors.NewNotFoundError("node %s", id)
	}
	return node.properties, nil
}

// FindNodes returns label matches whose properties contain the filter
func (m *MemoryStore) FindNodes(label string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	var matched []map[string]interface{}
	for _, node := range m.nodes {
		if node.label != label {
			continue
		}
		if propertiesMatch(node.properties, filter) {
			matched = append(matched, node.properties)
		}
	}
	return matched, nil
}

// SaveCase stores the case's serialized record, overwriting any
// previous version
func (m *MemoryStore) SaveCase(argCase *gsn.ArgumentCase) error {
	if argCase == nil || argCase.CaseID == "" {
		return errors.New("case with a case id is required")
	}
	payload, err := json.Marshal(argCase)
	if err != nil {
		return errors.Wrapf(err, "serialize case %s", argCase.CaseID)
	}
	m.cases[argCase.CaseID] = payload
	return nil
}

// LoadCase restores a saved case
func (m *MemoryStore) LoadCase(caseID string) (*gsn.ArgumentCase, error) {
	payload, ok := m.cases[caseID]
	if !ok {
		return nil, errors.NewNotFoundError("case %s", caseID)
	}
	var argCase gsn.ArgumentCase
	if err := json.Unmarshal(payload, &argCase); err != nil {
		return nil, errors.Wrapf(err, "deserialize case %s", caseID)
	}
	return &argCase, nil
}

// propertiesMatch reports whether properties contains every filter entry
func propertiesMatch(properties, filter map[string]interface{}) bool {
	for key, want := range filter {
		if properties[key] != want {
			return false
		}
	}
	return true
}
