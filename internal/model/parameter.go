package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Impact ranks how strongly a parameter moves the ROI.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Unit describes how a value should be presented.
type Unit string

const (
	UnitCount    Unit = "count"
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitRatio    Unit = "ratio"
	UnitHours    Unit = "hours"
	UnitDays     Unit = "days"
	UnitRate     Unit = "rate"
)

// ParameterSpec is the contract for one adjustable input.
type ParameterSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Label   string  `json:"label" yaml:"label"`
	Unit    Unit    `json:"unit" yaml:"unit"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Step    float64 `json:"step" yaml:"step"`
	Default float64 `json:"default" yaml:"default"`
	Impact  Impact  `json:"impact,omitempty" yaml:"impact,omitempty"`
}

// Contains reports whether v lies within [Min, Max].
func (s ParameterSpec) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// RangeError reports a parameter value outside its declared range.
type RangeError struct {
	Module ModuleID
	Param  string
	Value  float64
	Min    float64
	Max    float64
}

func (e *RangeError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("model: %s.%s = %g outside [%g, %g]", e.Module, e.Param, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("model: %s = %g outside [%g, %g]", e.Param, e.Value, e.Min, e.Max)
}

// ErrUnknownParameter is returned when a name is not part of a set.
var ErrUnknownParameter = errors.New("model: unknown parameter")

// ParameterSet is an immutable set of named values with their specs.
// Methods that change a value return a new set.
type ParameterSet struct {
	module ModuleID
	specs  []ParameterSpec
	values map[string]float64
}

// NewParameterSet builds a set holding each spec's default.
func NewParameterSet(module ModuleID, specs []ParameterSpec) ParameterSet {
	ps := ParameterSet{
		module: module,
		specs:  append([]ParameterSpec(nil), specs...),
		values: make(map[string]float64, len(specs)),
	}
	for _, s := range specs {
		ps.values[s.Name] = s.Default
	}
	return ps
}

// Module returns the module the set belongs to.
func (p ParameterSet) Module() ModuleID { return p.module }

// Specs returns the parameter contracts in declaration order.
func (p ParameterSet) Specs() []ParameterSpec {
	return append([]ParameterSpec(nil), p.specs...)
}

// Spec looks up the contract for name.
func (p ParameterSet) Spec(name string) (ParameterSpec, bool) {
	for _, s := range p.specs {
		if s.Name == name {
			return s, true
		}
	}
	return ParameterSpec{}, false
}

// Lookup returns the value for name.
func (p ParameterSet) Lookup(name string) (float64, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Get returns the value for name, or zero if absent.
func (p ParameterSet) Get(name string) float64 {
	return p.values[name]
}

// Values returns a copy of all values keyed by name.
func (p ParameterSet) Values() map[string]float64 {
	out := make(map[string]float64, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// With returns a copy of the set with name set to v. Range is not checked
// here so that sensitivity scenarios can step outside slider bounds.
func (p ParameterSet) With(name string, v float64) (ParameterSet, error) {
	if _, ok := p.values[name]; !ok {
		return p, eris.Wrapf(ErrUnknownParameter, "%s.%s", p.module, name)
	}
	out := p.clone()
	out.values[name] = v
	return out, nil
}

// WithAll applies every override, failing on the first unknown name.
func (p ParameterSet) WithAll(overrides map[string]float64) (ParameterSet, error) {
	out := p.clone()
	for _, k := range sortedKeys(overrides) {
		if _, ok := out.values[k]; !ok {
			return p, eris.Wrapf(ErrUnknownParameter, "%s.%s", p.module, k)
		}
		out.values[k] = overrides[k]
	}
	return out, nil
}

// Validate reports every value that is non-finite or outside its range.
func (p ParameterSet) Validate() error {
	var errs []error
	for _, s := range p.specs {
		v := p.values[s.Name]
		if math.IsNaN(v) || math.IsInf(v, 0) || !s.Contains(v) {
			errs = append(errs, &RangeError{Module: p.module, Param: s.Name, Value: v, Min: s.Min, Max: s.Max})
		}
	}
	return errors.Join(errs...)
}

// Clamp returns a copy with every value forced into its range.
// Non-finite values fall back to the default.
func (p ParameterSet) Clamp() ParameterSet {
	out := p.clone()
	for _, s := range p.specs {
		v := out.values[s.Name]
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			v = s.Default
		case v < s.Min:
			v = s.Min
		case v > s.Max:
			v = s.Max
		}
		out.values[s.Name] = v
	}
	return out
}

func (p ParameterSet) clone() ParameterSet {
	out := ParameterSet{module: p.module, specs: p.specs, values: make(map[string]float64, len(p.values))}
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Parameters holds one ParameterSet per module.
type Parameters map[ModuleID]ParameterSet

// Clone returns a shallow copy; sets themselves are immutable.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// With returns a copy with module.name set to v.
func (p Parameters) With(module ModuleID, name string, v float64) (Parameters, error) {
	set, ok := p[module]
	if !ok {
		return p, eris.Wrapf(ErrUnknownParameter, "module %s not configured", module)
	}
	next, err := set.With(name, v)
	if err != nil {
		return p, err
	}
	out := p.Clone()
	out[module] = next
	return out, nil
}

// Apply sets each "module.param" key in overrides, in key order.
func (p Parameters) Apply(overrides map[string]float64) (Parameters, error) {
	out := p
	for _, key := range sortedKeys(overrides) {
		module, name, err := ParseParameterKey(key)
		if err != nil {
			return p, err
		}
		if out, err = out.With(module, name, overrides[key]); err != nil {
			return p, err
		}
	}
	return out, nil
}

// ParseParameterKey splits "module.param" into its parts.
func ParseParameterKey(key string) (ModuleID, string, error) {
	mod, name, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || name == "" {
		return "", "", eris.Errorf("model: parameter key %q is not module.param", key)
	}
	id, err := ParseModuleID(mod)
	if err != nil {
		return "", "", err
	}
	return id, name, nil
}

// Validate validates every module's set.
func (p Parameters) Validate() error {
	var errs []error
	for _, id := range p.Modules() {
		if err := p[id].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clamp clamps every module's set.
func (p Parameters) Clamp() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v.Clamp()
	}
	return out
}

// Modules returns the configured module IDs in canonical order.
func (p Parameters) Modules() []ModuleID {
	ids := make([]ModuleID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].order() < ids[j].order() })
	return ids
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
