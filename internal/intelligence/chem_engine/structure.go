package chem_engine

import (
	"fmt"
	"sort"
	"strings"
)

// BondOrder classifies a bond the way SMILES spells it.
type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

func (o BondOrder) String() string {
	switch o {
	case BondSingle:
		return "SINGLE"
	case BondDouble:
		return "DOUBLE"
	case BondTriple:
		return "TRIPLE"
	case BondQuadruple:
		return "QUADRUPLE"
	case BondAromatic:
		return "AROMATIC"
	}
	return "UNSPECIFIED"
}

// Multiplicity is the number of strokes used to draw the bond.
func (o BondOrder) Multiplicity() int {
	switch o {
	case BondDouble, BondAromatic:
		return 2
	case BondTriple:
		return 3
	case BondQuadruple:
		return 4
	}
	return 1
}

// Atom is one parsed atom. Index follows input order.
type Atom struct {
	Index     int    `json:"index"`
	Symbol    string `json:"symbol"`
	Aromatic  bool   `json:"aromatic"`
	Bracket   bool   `json:"bracket"`
	Isotope   int    `json:"isotope,omitempty"`
	Charge    int    `json:"charge,omitempty"`
	HCount    int    `json:"h_count,omitempty"`
	Component int    `json:"component"`
}

// Element returns the capitalized element symbol.
func (a Atom) Element() string {
	if a.Aromatic && a.Symbol != "" {
		return strings.ToUpper(a.Symbol[:1]) + a.Symbol[1:]
	}
	return a.Symbol
}

// Bond is one parsed bond. Index follows creation order: chain bonds as they
// are read and ring bonds when their closure digit is seen.
type Bond struct {
	Index int       `json:"index"`
	Begin int       `json:"begin"`
	End   int       `json:"end"`
	Order BondOrder `json:"order"`
	Ring  bool      `json:"ring"`
}

// Structure is the result of parsing one descriptor.
type Structure struct {
	Descriptor string `json:"descriptor"`
	Atoms      []Atom `json:"atoms"`
	Bonds      []Bond `json:"bonds"`
	Components int    `json:"components"`
}

// Connected reports whether the structure is a single fragment.
func (s *Structure) Connected() bool {
	return s.Components == 1
}

// Formula returns the heavy-atom formula in Hill order (C, then H, then the
// rest alphabetically). Explicit bracket hydrogens are counted; implicit ones
// are not.
func (s *Structure) Formula() string {
	counts := map[string]int{}
	for _, a := range s.Atoms {
		if a.Symbol == "*" {
			continue
		}
		counts[a.Element()]++
		if a.HCount > 0 {
			counts["H"] += a.HCount
		}
	}

	var keys []string
	for k := range counts {
		if k != "C" && k != "H" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := counts["C"]; ok {
		keys = append([]string{"C", "H"}, keys...)
	} else {
		keys = append([]string{"H"}, keys...)
		sort.Strings(keys)
	}

	var b strings.Builder
	for _, k := range keys {
		n, ok := counts[k]
		if !ok {
			continue
		}
		b.WriteString(k)
		if n > 1 {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	return b.String()
}

// BondLabel renders a bond as "C-O" style text using element symbols.
func (s *Structure) BondLabel(b Bond) string {
	sep := "-"
	switch b.Order {
	case BondDouble:
		sep = "="
	case BondTriple:
		sep = "#"
	case BondQuadruple:
		sep = "$"
	case BondAromatic:
		sep = ":"
	}
	return s.Atoms[b.Begin].Element() + sep + s.Atoms[b.End].Element()
}

//Personal.AI order the ending
