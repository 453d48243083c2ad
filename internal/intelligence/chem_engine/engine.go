// Package chem_engine is the console's local structure engine.  It parses
// SMILES into atoms and bonds for client-side validation and draws schematic
// previews; canonicalization and energy prediction stay on the remote
// service.
package chem_engine

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// ErrNotReady is returned by Parse before Init has completed.
var ErrNotReady = errors.New(errors.ErrCodeEngineNotReady, "structure engine is still loading")

var periodicTable = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne", "Na", "Mg",
	"Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca", "Sc", "Ti", "V", "Cr",
	"Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu", "Hf",
	"Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po",
	"At", "Rn", "Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm",
	"Bk", "Cf", "Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs",
	"Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

type tables struct {
	elements        map[string]bool
	organic         map[string]bool
	aromaticOrganic map[string]bool
	aromaticBracket map[string]bool
}

func buildTables() *tables {
	set := func(symbols ...string) map[string]bool {
		m := make(map[string]bool, len(symbols))
		for _, s := range symbols {
			m[s] = true
		}
		return m
	}
	return &tables{
		elements:        set(periodicTable...),
		organic:         set("B", "C", "N", "O", "P", "S", "F", "Cl", "Br", "I"),
		aromaticOrganic: set("b", "c", "n", "o", "p", "s"),
		aromaticBracket: set("b", "c", "n", "o", "p", "s", "se", "as", "te"),
	}
}

// Engine parses descriptors once initialized. It is safe for concurrent use.
type Engine struct {
	ready  atomic.Bool
	once   sync.Once
	tables atomic.Pointer[tables]
	logger logging.Logger
}

// New returns an engine that is not yet ready.
func New(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{logger: logger}
}

// Init loads the element tables and marks the engine ready. Calling it more
// than once is harmless.
func (e *Engine) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.once.Do(func() {
		start := time.Now()
		e.tables.Store(buildTables())
		e.ready.Store(true)
		e.logger.Debug("structure engine ready", logging.Duration("elapsed", time.Since(start)))
	})
	return nil
}

// Start runs Init in the background. The returned channel yields Init's
// result and is then closed.
func (e *Engine) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- e.Init(ctx)
	}()
	return done
}

// Ready reports whether Parse can be used.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Parse reads a SMILES descriptor. Surrounding whitespace is ignored.
func (e *Engine) Parse(descriptor string) (*Structure, error) {
	t := e.tables.Load()
	if !e.Ready() || t == nil {
		return nil, ErrNotReady
	}
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return nil, &ParseError{Pos: 0, Msg: "empty descriptor"}
	}
	return parseSMILES(descriptor, t)
}

//Personal.AI order the ending
