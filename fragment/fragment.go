// Package fragment provides reusable partial arguments instantiated
// from named patterns, with strength and completeness self-assessment.
package fragment

import (
	"time"

	"github.com/veridic/ARGX/gsn"
)

// Type classifies what aspect of a system a fragment argues about.
// The set is open: plugins and pattern files may introduce new types.
type Type string

const (
	TypeQuality     Type = "quality"
	TypeSecurity    Type = "security"
	TypePerformance Type = "performance"
	TypeComponent   Type = "component"
	TypeIntegration Type = "integration"
)

// Status tracks a fragment's validation lifecycle
type Status string

const (
	StatusDraft     Status = "draft"
	StatusValidated Status = "validated"
)

// Fragment is a reusable, possibly incomplete argument sub-tree.
//
// RequiredEvidenceTypes shrinks as evidence of each type is linked;
// an empty set means the fragment's evidence obligations are met.
// DependsOn and ProvidesTo are fragment-id references, never ownership.
type Fragment struct {
	FragmentID string `json:"fragment_id"`
	Name       string `json:"name"`
	Type       Type   `json:"fragment_type"`
	Status     Status `json:"status"`
	gsn.NodeSet
	RequiredEvidenceTypes  []string          `json:"required_evidence_types"`
	SatisfiedEvidenceTypes []string          `json:"satisfied_evidence_types"`
	EvidenceIDs            []string          `json:"evidence_ids"`
	DependsOn              []string          `json:"depends_on"`
	InterfacePoints        map[string]string `json:"interface_points,omitempty"`
	ProvidesTo             []string          `json:"provides_to"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// New creates an empty draft fragment
func New(fragmentID, name string, ftype Type) *Fragment {
	now := time.Now()
	return &Fragment{
		FragmentID:             fragmentID,
		Name:                   name,
		Type:                   ftype,
		Status:                 StatusDraft,
		NodeSet:                gsn.NewNodeSet(),
		RequiredEvidenceTypes:  []string{},
		SatisfiedEvidenceTypes: []string{},
		EvidenceIDs:            []string{},
		DependsOn:              []string{},
		InterfacePoints:        map[string]string{},
		ProvidesTo:             []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// SatisfyEvidence records evidence of the given type against the
// fragment: the evidence id joins EvidenceIDs and the type moves from
// the outstanding requirements to the satisfied set. Unknown types
// still record the evidence; satisfying an already met type is a no-op
// on the sets.
func (f *Fragment) SatisfyEvidence(evidenceType, evidenceID string) {
	if !contains(f.EvidenceIDs, evidenceID) {
		f.EvidenceIDs = append(f.EvidenceIDs, evidenceID)
	}

	remaining := f.RequiredEvidenceTypes[:0]
	for _, required := range f.RequiredEvidenceTypes {
		if required == evidenceType {
			if !contains(f.SatisfiedEvidenceTypes, evidenceType) {
				f.SatisfiedEvidenceTypes = append(f.SatisfiedEvidenceTypes, evidenceType)
			}
			continue
		}
		remaining = append(remaining, required)
	}
	f.RequiredEvidenceTypes = remaining
	f.UpdatedAt = time.Now()
}

// AddDependency records that this fragment depends on another
func (f *Fragment) AddDependency(fragmentID string) {
	if !contains(f.DependsOn, fragmentID) {
		f.DependsOn = append(f.DependsOn, fragmentID)
		f.UpdatedAt = time.Now()
	}
}

// NodeCount returns the number of nodes in the fragment's tree
func (f *Fragment) NodeCount() int {
	return len(f.Nodes)
}

// ResetStatus returns a validated fragment to draft. Validation is
// one-way otherwise.
func (f *Fragment) ResetStatus() {
	f.Status = StatusDraft
	f.UpdatedAt = time.Now()
}

func contains(values []string, value string) bool {
	for _, existing := range values {
		if existing == value {
			return true
		}
	}
	return false
}
