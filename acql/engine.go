// Package acql implements the ARGX case query language: read-only
// structural and semantic queries over argument cases and fragments,
// plus the line-oriented scripting surface that drives them.
package acql

import (
	"strings"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/fragment"
	"github.com/veridic/ARGX/gsn"
)

// Kind names a query type
type Kind string

const (
	KindConsistency  Kind = "consistency"
	KindCompleteness Kind = "completeness"
	KindSoundness    Kind = "soundness"
	KindCoverage     Kind = "coverage"
	KindTraceability Kind = "traceability"
	KindWeaknesses   Kind = "weaknesses"
	KindDependencies Kind = "dependencies"
	KindDefeaters    Kind = "defeaters"
)

// TargetType constrains what a handler accepts
type TargetType int

const (
	TargetCase TargetType = iota
	TargetFragment
	TargetEither
)

// Target is the subject of a query: a case, a fragment, or both unset
// (queries degrade to empty results rather than failing)
type Target struct {
	Case     *gsn.ArgumentCase
	Fragment *fragment.Fragment
}

// HandlerFunc evaluates one query against a target. Handlers must
// return a result for any target content, including nil or empty.
type HandlerFunc func(Target) interface{}

// handler pairs a query function with the target type it accepts
type handler struct {
	accepts TargetType
	fn      HandlerFunc
}

// Engine owns a per-instance registry of query handlers. Independent
// sessions get independent engines.
type Engine struct {
	handlers map[Kind]handler
}

// NewEngine creates an engine with every built-in query registered
func NewEngine() *Engine {
	e := &Engine{handlers: make(map[Kind]handler)}

	e.handlers[KindConsistency] = handler{TargetCase, queryConsistency}
	e.handlers[KindCompleteness] = handler{TargetFragment, queryCompleteness}
	e.handlers[KindSoundness] = handler{TargetCase, querySoundness}
	e.handlers[KindCoverage] = handler{TargetCase, queryCoverage}
	e.handlers[KindTraceability] = handler{TargetFragment, queryTraceability}
	e.handlers[KindWeaknesses] = handler{TargetEither, queryWeaknesses}
	e.handlers[KindDependencies] = handler{TargetFragment, queryDependencies}
	e.handlers[KindDefeaters] = handler{TargetCase, queryDefeaters}

	return e
}

// RegisterHandler adds a custom query kind. Kinds are stored
// lowercase to match ExecuteQuery's case-insensitive lookup.
func (e *Engine) RegisterHandler(kind Kind, accepts TargetType, fn HandlerFunc) error {
	if kind == "" || fn == nil {
		return errors.New("query kind and handler are required")
	}
	kind = Kind(strings.ToLower(string(kind)))
	if _, exists := e.handlers[kind]; exists {
		return errors.NewConflictError("query handler %s", kind)
	}
	e.handlers[kind] = handler{accepts, fn}
	return nil
}

// Kinds returns the registered query kinds
func (e *Engine) Kinds() []Kind {
	kinds := make([]Kind, 0, len(e.handlers))
	for kind := range e.handlers {
		kinds = append(kinds, kind)
	}
	return kinds
}

// ExecuteQuery runs one query against a target. Unknown kinds and
// kind/target mismatches are caller errors; empty or missing target
// content degrades inside the handler instead.
func (e *Engine) ExecuteQuery(kind Kind, target Target) (interface{}, error) {
	h, ok := e.handlers[Kind(strings.ToLower(string(kind)))]
	if !ok {
		return nil, errors.NewNotFoundError("query kind %s", kind)
	}

	switch h.accepts {
	case TargetCase:
		if target.Case == nil && target.Fragment != nil {
			return nil, errors.Newf("query %s requires a case target", kind)
		}
	case TargetFragment:
		if target.Fragment == nil && target.Case != nil {
			return nil, errors.Newf("query %s requires a fragment target", kind)
		}
	}

	return h.fn(target), nil
}
