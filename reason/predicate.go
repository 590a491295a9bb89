// Package reason implements defeasible reasoning over argument cases:
// theories infer supported conclusions from a runtime evidence context,
// defeaters identify conditions that undermine them, and the engine
// folds both into a confidence score and risk estimate.
package reason

// Op is a predicate comparator. The set is closed: predicates are data
// evaluated by switch dispatch, never executable text, so the engine is
// safe to run on untrusted context input.
type Op string

const (
	OpGTE  Op = "gte"  // numeric context value >= Value
	OpLTE  Op = "lte"  // numeric context value <= Value
	OpEq   Op = "eq"   // context value equals Value
	OpFlag Op = "flag" // context value is boolean true
)

// Predicate is one condition over a flat context map
type Predicate struct {
	Key   string      `json:"key"`
	Op    Op          `json:"op"`
	Value interface{} `json:"value,omitempty"`
}

// Holds evaluates the predicate against the context. Missing keys and
// non-comparable values evaluate false, never panic.
func (p Predicate) Holds(context map[string]interface{}) bool {
	raw, ok := context[p.Key]
	if !ok {
		return false
	}

	switch p.Op {
	case OpGTE:
		have, haveOK := asFloat(raw)
		want, wantOK := asFloat(p.Value)
		return haveOK && wantOK && have >= want
	case OpLTE:
		have, haveOK := asFloat(raw)
		want, wantOK := asFloat(p.Value)
		return haveOK && wantOK && have <= want
	case OpEq:
		if have, haveOK := asFloat(raw); haveOK {
			want, wantOK := asFloat(p.Value)
			return wantOK && have == want
		}
		return raw == p.Value
	case OpFlag:
		flag, ok := raw.(bool)
		return ok && flag
	default:
		return false
	}
}

// asFloat widens the numeric types a context map realistically carries
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	default:
		return 0, false
	}
}
