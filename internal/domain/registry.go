package domain

import "strings"

// Instrument ties a tracked instrument to its provider registry code.
type Instrument struct {
	Name        string // unique key, e.g. "GOLD"
	Code        string // provider code used as the fetch filter, e.g. "088691"
	DisplayName string // diagnostics label, defaults to Name
}

// Registry is the set of instruments one sync cycle iterates, in registration
// order. It is built once at startup and handed to the syncer; there is no
// shared global.
type Registry struct {
	instruments []Instrument
	byName      map[string]struct{}
}

// NewRegistry builds a registry from the given instruments. Blank entries and
// duplicate names are dropped.
func NewRegistry(instruments ...Instrument) *Registry {
	r := &Registry{byName: make(map[string]struct{})}
	for _, inst := range instruments {
		r.Register(inst)
	}
	return r
}

// Register adds an instrument if its name is not already present. It returns
// false, without modifying the registry, for duplicates and for entries
// missing a name or code.
func (r *Registry) Register(inst Instrument) bool {
	inst.Name = strings.TrimSpace(inst.Name)
	inst.Code = strings.TrimSpace(inst.Code)
	if inst.Name == "" || inst.Code == "" {
		return false
	}
	if _, ok := r.byName[inst.Name]; ok {
		return false
	}
	if inst.DisplayName == "" {
		inst.DisplayName = inst.Name
	}
	r.byName[inst.Name] = struct{}{}
	r.instruments = append(r.instruments, inst)
	return true
}

// Instruments returns the registered instruments in registration order.
func (r *Registry) Instruments() []Instrument {
	out := make([]Instrument, len(r.instruments))
	copy(out, r.instruments)
	return out
}

// Len returns the number of registered instruments.
func (r *Registry) Len() int { return len(r.instruments) }
