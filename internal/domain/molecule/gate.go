// Package molecule holds the client-side rules a descriptor must pass before
// it is sent to the prediction service.
package molecule

import (
	"strings"

	"github.com/turtacn/DeepBDE-Console/internal/intelligence/chem_engine"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// Verdict is the outcome of classifying one descriptor.
type Verdict int

const (
	// Indeterminate means the structure engine was not ready; classify again later.
	Indeterminate Verdict = iota
	Valid
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "indeterminate"
}

// MarshalText lets verdicts appear by name in JSON payloads.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Engine is the structure engine the gate consults.
type Engine interface {
	Ready() bool
	Parse(descriptor string) (*chem_engine.Structure, error)
}

// Gate classifies descriptors without any network access.
type Gate struct {
	engine Engine
}

// NewGate returns a gate backed by engine. A nil engine is never ready.
func NewGate(engine Engine) *Gate {
	return &Gate{engine: engine}
}

// Classify returns Invalid for blank or multi-fragment descriptors regardless
// of engine state, Indeterminate while the engine is loading, and otherwise
// the engine's parse result.
func (g *Gate) Classify(descriptor string) Verdict {
	if _, err := g.Check(descriptor); err != nil {
		if errors.IsCode(err, errors.ErrCodeEngineNotReady) {
			return Indeterminate
		}
		return Invalid
	}
	return Valid
}

// Check is Classify with the reason attached. It returns the parsed structure
// for valid descriptors.
func (g *Gate) Check(descriptor string) (*chem_engine.Structure, error) {
	d := strings.TrimSpace(descriptor)
	if d == "" {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidSMILES, "descriptor is empty")
	}
	if strings.Contains(d, ".") {
		return nil, errors.New(errors.ErrCodeMoleculeDisconnected, "disconnected structures are not supported").
			WithDetail("smiles=" + d)
	}
	if g.engine == nil || !g.engine.Ready() {
		return nil, errors.New(errors.ErrCodeEngineNotReady, "structure engine is still loading")
	}
	st, err := g.engine.Parse(d)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeEngineNotReady) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeMoleculeInvalidSMILES, "invalid SMILES").
			WithDetail(err.Error())
	}
	return st, nil
}

// Ready reports whether the gate can give definite answers.
func (g *Gate) Ready() bool {
	return g.engine != nil && g.engine.Ready()
}

//Personal.AI order the ending
