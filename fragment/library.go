package fragment

import (
	"strings"

	"github.com/google/uuid"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/gsn"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// Validation gate defaults. Overridable per library via Thresholds.
const (
	DefaultStrengthThreshold     = 0.7
	DefaultCompletenessThreshold = 0.8
)

// Thresholds are the gates a fragment must clear for MarkValidated
type Thresholds struct {
	Strength     float64
	Completeness float64
}

// Library owns a per-instance pattern registry and instantiates
// fragments from it. Independent sessions get independent libraries;
// nothing here is process-global.
type Library struct {
	patterns   map[string]Pattern
	thresholds Thresholds
}

// NewLibrary creates a library seeded with the built-in patterns
func NewLibrary() *Library {
	lib := &Library{
		patterns: make(map[string]Pattern),
		thresholds: Thresholds{
			Strength:     DefaultStrengthThreshold,
			Completeness: DefaultCompletenessThreshold,
		},
	}
	for _, pattern := range defaultPatterns() {
		lib.patterns[pattern.Name] = pattern
	}
	return lib
}

// SetThresholds overrides the validation gates
func (l *Library) SetThresholds(t Thresholds) {
	l.thresholds = t
}

// RegisterPattern adds a pattern under its name.
// Registering an already present name is a caller error; use
// ReplacePattern for reload semantics.
func (l *Library) RegisterPattern(pattern Pattern) error {
	if pattern.Name == "" {
		return errors.New("pattern name is required")
	}
	if _, exists := l.patterns[pattern.Name]; exists {
		return errors.NewConflictError("pattern %s", pattern.Name)
	}
	l.patterns[pattern.Name] = pattern
	return nil
}

// ReplacePattern adds or overwrites a pattern. Used by the pattern
// directory loader and watcher, where re-registration is expected.
func (l *Library) ReplacePattern(pattern Pattern) error {
	if pattern.Name == "" {
		return errors.New("pattern name is required")
	}
	l.patterns[pattern.Name] = pattern
	return nil
}

// Patterns returns the registered pattern names
func (l *Library) Patterns() []string {
	names := make([]string, 0, len(l.patterns))
	for name := range l.patterns {
		names = append(names, name)
	}
	return names
}

// CreateFromPattern instantiates a fresh fragment from a named pattern.
//
// The first node of the pattern structure must be a goal; it becomes
// the fragment root. Strategy nodes attach to the root; every other
// node attaches to the most recent strategy, or to the root when the
// pattern has none.
func (l *Library) CreateFromPattern(patternName, componentName string) (*Fragment, error) {
	pattern, ok := l.patterns[patternName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownPattern, "%s", patternName)
	}
	if len(pattern.Structure) == 0 {
		return nil, errors.Newf("pattern %s has no structure", patternName)
	}
	if gsn.NodeKind(pattern.Structure[0].Kind) != gsn.KindGoal {
		return nil, errors.Wrapf(errors.ErrInvalidNodeKind, "pattern %s must start with a goal", patternName)
	}

	frag := New(newID("FR"), componentName+" "+strings.ReplaceAll(patternName, "_", " "), pattern.Type)
	frag.RequiredEvidenceTypes = append([]string{}, pattern.RequiredEvidence...)

	var rootID, lastStrategyID string
	for i, pnode := range pattern.Structure {
		kind := gsn.NodeKind(pnode.Kind)
		if !kind.IsValid() {
			return nil, errors.Wrapf(errors.ErrInvalidNodeKind, "pattern %s node %d kind %q", patternName, i, pnode.Kind)
		}

		node := gsn.NewNode(newID(idPrefix(kind)), kind, render(pnode.Statement, componentName))
		if err := frag.AddNode(node); err != nil {
			return nil, err
		}

		switch {
		case i == 0:
			rootID = node.ID
			if err := frag.SetRootGoal(rootID); err != nil {
				return nil, err
			}
		case kind == gsn.KindStrategy:
			lastStrategyID = node.ID
			if err := frag.Link(rootID, node.ID); err != nil {
				return nil, err
			}
		case lastStrategyID != "":
			if err := frag.Link(lastStrategyID, node.ID); err != nil {
				return nil, err
			}
		default:
			if err := frag.Link(rootID, node.ID); err != nil {
				return nil, err
			}
		}
	}

	logger.Debugw("Fragment instantiated",
		"symbol", sym.Fragment,
		"pattern", patternName,
		"fragment_id", frag.FragmentID,
		"nodes", frag.NodeCount(),
	)

	return frag, nil
}

// newID generates a prefixed unique id
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// idPrefix maps a node kind to its conventional GSN id prefix
func idPrefix(kind gsn.NodeKind) string {
	switch kind {
	case gsn.KindGoal:
		return "G"
	case gsn.KindStrategy:
		return "S"
	case gsn.KindSolution:
		return "Sn"
	case gsn.KindContext:
		return "C"
	case gsn.KindAssumption:
		return "A"
	case gsn.KindJustification:
		return "J"
	default:
		return "N"
	}
}
