package argtl

import (
	"time"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/gsn"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// ValidatorFunc is a named validation predicate over a fragment.
// Custom validators extend the built-in check set.
type ValidatorFunc func(*fragment.Fragment) bool

// Transformation is one audit-log entry for a composition operation
type Transformation struct {
	Type       string            `json:"type"`
	Inputs     []string          `json:"inputs"`
	Output     string            `json:"output"`
	Parameters map[string]string `json:"parameters,omitempty"`
	At         time.Time         `json:"at"`
}

// Composer merges and links fragments. It owns a per-instance fragment
// registry (the namespace script ids resolve against), a validator
// registry, and an ordered transformation history for audit.
type Composer struct {
	fragments  map[string]*fragment.Fragment
	validators map[string]ValidatorFunc
	history    []Transformation
}

// NewComposer creates a composer with the built-in validators
func NewComposer() *Composer {
	c := &Composer{
		fragments:  make(map[string]*fragment.Fragment),
		validators: make(map[string]ValidatorFunc),
	}

	c.validators["completeness"] = func(f *fragment.Fragment) bool {
		return len(f.RequiredEvidenceTypes) == 0
	}
	c.validators["structure"] = func(f *fragment.Fragment) bool {
		if f.RootGoalID == "" {
			return false
		}
		_, ok := f.Nodes[f.RootGoalID]
		return ok
	}
	c.validators["dependencies"] = func(f *fragment.Fragment) bool {
		for _, dep := range f.DependsOn {
			if _, ok := c.fragments[dep]; !ok {
				return false
			}
		}
		return true
	}

	return c
}

// Register adds a fragment to the composer's namespace
func (c *Composer) Register(f *fragment.Fragment) error {
	if f == nil {
		return errors.New("nil fragment")
	}
	if _, exists := c.fragments[f.FragmentID]; exists {
		return errors.NewConflictError("fragment %s", f.FragmentID)
	}
	c.fragments[f.FragmentID] = f
	return nil
}

// Get resolves a fragment by id
func (c *Composer) Get(id string) (*fragment.Fragment, bool) {
	f, ok := c.fragments[id]
	return f, ok
}

// RegisterValidator adds a named validation predicate, making the
// check set open for extension
func (c *Composer) RegisterValidator(name string, fn ValidatorFunc) error {
	if name == "" || fn == nil {
		return errors.New("validator name and predicate are required")
	}
	if _, exists := c.validators[name]; exists {
		return errors.NewConflictError("validator %s", name)
	}
	c.validators[name] = fn
	return nil
}

// ValidateFragment runs the named checks against a fragment and
// returns a check-name to outcome map. Unknown check names report
// false rather than failing the whole run.
func (c *Composer) ValidateFragment(f *fragment.Fragment, checks []string) map[string]bool {
	results := make(map[string]bool, len(checks))
	for _, name := range checks {
		fn, ok := c.validators[name]
		if !ok {
			results[name] = false
			continue
		}
		results[name] = fn(f)
	}
	return results
}

// ValidatorNames returns the registered check names
func (c *Composer) ValidatorNames() []string {
	names := make([]string, 0, len(c.validators))
	for name := range c.validators {
		names = append(names, name)
	}
	return names
}

// LinkFragments records that a depends on b across the given
// interface. Nodes are not merged; this is pure bookkeeping on both
// fragments.
func (c *Composer) LinkFragments(aID, bID, interfaceText string) error {
	a, ok := c.fragments[aID]
	if !ok {
		return errors.NewNotFoundError("fragment %s", aID)
	}
	b, ok := c.fragments[bID]
	if !ok {
		return errors.NewNotFoundError("fragment %s", bID)
	}

	c.link(a, b, interfaceText)
	return nil
}

// link records the dependency and interface on both fragments
func (c *Composer) link(a, b *fragment.Fragment, interfaceText string) {
	a.AddDependency(b.FragmentID)
	a.InterfacePoints[b.FragmentID] = interfaceText
	if !containsID(b.ProvidesTo, a.FragmentID) {
		b.ProvidesTo = append(b.ProvidesTo, a.FragmentID)
	}

	c.record("link", []string{a.FragmentID, b.FragmentID}, a.FragmentID,
		map[string]string{"interface": interfaceText})
}

// AssembleCase composes the fragments hierarchically and wraps the
// result as a complete argument case
func (c *Composer) AssembleCase(fragmentIDs []string, caseID, title string) (*gsn.ArgumentCase, error) {
	merged, err := c.ComposeIDs(fragmentIDs, caseID+"_root", StrategyHierarchical)
	if err != nil {
		return nil, err
	}

	argCase := gsn.NewCase(caseID, title)
	argCase.NodeSet = merged.NodeSet

	c.record("assemble_case", fragmentIDs, caseID, map[string]string{"title": title})

	logger.Infow("Case assembled",
		"symbol", sym.Case,
		"case_id", caseID,
		"fragments", len(fragmentIDs),
		"nodes", len(argCase.Nodes),
	)
	return argCase, nil
}

// TransformationHistory returns the ordered audit log of operations
func (c *Composer) TransformationHistory() []Transformation {
	history := make([]Transformation, len(c.history))
	copy(history, c.history)
	return history
}

func (c *Composer) record(opType string, inputs []string, output string, params map[string]string) {
	c.history = append(c.history, Transformation{
		Type:       opType,
		Inputs:     inputs,
		Output:     output,
		Parameters: params,
		At:         time.Now(),
	})
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
