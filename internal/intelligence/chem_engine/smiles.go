package chem_engine

import (
	"fmt"
	"strconv"
)

// ParseError locates a syntax problem in a descriptor.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Msg)
}

type ringOpen struct {
	atom int
	bond byte
	pos  int
}

type parser struct {
	src      string
	pos      int
	tables   *tables
	st       *Structure
	prev     int
	pending  byte
	branches []int
	rings    map[int]ringOpen
}

func (p *parser) fail(format string, args ...interface{}) error {
	return &ParseError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func parseSMILES(src string, t *tables) (*Structure, error) {
	p := &parser{
		src:    src,
		tables: t,
		st:     &Structure{Descriptor: src},
		prev:   -1,
		rings:  map[int]ringOpen{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.st, nil
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail("branch opened before any atom")
			}
			if p.pending != 0 {
				return p.fail("bond %q before branch", p.pending)
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail("unbalanced ')'")
			}
			if p.pending != 0 {
				return p.fail("bond %q has no atom to attach to", p.pending)
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case isBondSymbol(c):
			if p.prev < 0 {
				return p.fail("bond %q before any atom", c)
			}
			if p.pending != 0 {
				return p.fail("consecutive bonds %q%q", p.pending, c)
			}
			p.pending = c
			p.pos++
		case c == '.':
			if p.prev < 0 || p.pending != 0 {
				return p.fail("misplaced '.'")
			}
			p.prev = -1
			p.pos++
		case c == '%' || isDigit(c):
			if err := p.ring(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	if len(p.branches) > 0 {
		return p.fail("unbalanced '('")
	}
	if p.pending != 0 {
		return p.fail("bond %q has no atom to attach to", p.pending)
	}
	for label, open := range p.rings {
		return &ParseError{Pos: open.pos, Msg: fmt.Sprintf("ring closure %d is never closed", label)}
	}
	if len(p.st.Atoms) == 0 {
		return p.fail("no atoms")
	}
	return nil
}

func (p *parser) ring() error {
	start := p.pos
	var label int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.fail("'%%' must be followed by two digits")
		}
		label, _ = strconv.Atoi(p.src[p.pos+1 : p.pos+3])
		p.pos += 3
	} else {
		label = int(p.src[p.pos] - '0')
		p.pos++
	}
	if p.prev < 0 {
		return &ParseError{Pos: start, Msg: "ring closure before any atom"}
	}

	open, ok := p.rings[label]
	if !ok {
		p.rings[label] = ringOpen{atom: p.prev, bond: p.pending, pos: start}
		p.pending = 0
		return nil
	}
	delete(p.rings, label)

	if open.atom == p.prev {
		return &ParseError{Pos: start, Msg: fmt.Sprintf("ring closure %d bonds an atom to itself", label)}
	}
	sym := p.pending
	if sym == 0 {
		sym = open.bond
	} else if open.bond != 0 && order(open.bond) != order(sym) {
		return &ParseError{Pos: start, Msg: fmt.Sprintf("ring closure %d has conflicting bond symbols", label)}
	}
	for _, b := range p.st.Bonds {
		if (b.Begin == open.atom && b.End == p.prev) || (b.Begin == p.prev && b.End == open.atom) {
			return &ParseError{Pos: start, Msg: fmt.Sprintf("ring closure %d duplicates an existing bond", label)}
		}
	}
	p.addBond(open.atom, p.prev, sym, true)
	p.pending = 0
	return nil
}

func (p *parser) organicAtom() error {
	c := p.src[p.pos]
	if c == '*' {
		p.addAtom(Atom{Symbol: "*"})
		p.pos++
		return nil
	}
	if p.pos+1 < len(p.src) {
		two := p.src[p.pos : p.pos+2]
		if p.tables.organic[two] {
			p.addAtom(Atom{Symbol: two})
			p.pos += 2
			return nil
		}
	}
	one := string(c)
	if p.tables.organic[one] {
		p.addAtom(Atom{Symbol: one})
		p.pos++
		return nil
	}
	if p.tables.aromaticOrganic[one] {
		p.addAtom(Atom{Symbol: one, Aromatic: true})
		p.pos++
		return nil
	}
	if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
		return p.fail("unknown atom %q (write it in brackets)", one)
	}
	return p.fail("unexpected character %q", one)
}

// bracketAtom parses [isotope? symbol chirality? hcount? charge? class?].
func (p *parser) bracketAtom() error {
	start := p.pos
	end := -1
	for i := p.pos + 1; i < len(p.src); i++ {
		if p.src[i] == ']' {
			end = i
			break
		}
		if p.src[i] == '[' {
			break
		}
	}
	if end < 0 {
		return p.fail("unclosed '['")
	}
	body := p.src[start+1 : end]
	i := 0
	atom := Atom{Bracket: true}

	isoStart := i
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i > isoStart {
		atom.Isotope, _ = strconv.Atoi(body[isoStart:i])
	}

	switch {
	case i < len(body) && body[i] == '*':
		atom.Symbol = "*"
		i++
	case i+1 < len(body) && p.tables.aromaticBracket[body[i:i+2]]:
		atom.Symbol, atom.Aromatic = body[i:i+2], true
		i += 2
	case i+1 < len(body) && isLower(body[i+1]) && p.tables.elements[body[i:i+2]]:
		atom.Symbol = body[i : i+2]
		i += 2
	case i < len(body) && p.tables.elements[body[i:i+1]]:
		atom.Symbol = body[i : i+1]
		i++
	case i < len(body) && p.tables.aromaticBracket[body[i:i+1]]:
		atom.Symbol, atom.Aromatic = body[i:i+1], true
		i++
	default:
		return &ParseError{Pos: start, Msg: fmt.Sprintf("invalid bracket atom [%s]", body)}
	}

	for i < len(body) && body[i] == '@' {
		i++
	}
	if i < len(body) && body[i] == 'H' {
		i++
		atom.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			atom.HCount = int(body[i] - '0')
			i++
		}
	}
	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		sym := body[i]
		i++
		n := 1
		switch {
		case i < len(body) && isDigit(body[i]):
			j := i
			for i < len(body) && isDigit(body[i]) {
				i++
			}
			n, _ = strconv.Atoi(body[j:i])
		default:
			for i < len(body) && body[i] == sym {
				n++
				i++
			}
		}
		atom.Charge = sign * n
	}
	if i < len(body) && body[i] == ':' {
		j := i + 1
		for j < len(body) && isDigit(body[j]) {
			j++
		}
		if j == i+1 {
			return &ParseError{Pos: start, Msg: "atom class needs digits"}
		}
		i = j
	}
	if i != len(body) {
		return &ParseError{Pos: start, Msg: fmt.Sprintf("invalid bracket atom [%s]", body)}
	}

	p.addAtom(atom)
	p.pos = end + 1
	return nil
}

func (p *parser) addAtom(a Atom) {
	a.Index = len(p.st.Atoms)
	if p.prev < 0 {
		p.st.Components++
	}
	a.Component = p.st.Components - 1
	p.st.Atoms = append(p.st.Atoms, a)
	if p.prev >= 0 {
		p.addBond(p.prev, a.Index, p.pending, false)
	}
	p.pending = 0
	p.prev = a.Index
}

func (p *parser) addBond(begin, end int, sym byte, ring bool) {
	o := order(sym)
	if sym == 0 && p.st.Atoms[begin].Aromatic && p.st.Atoms[end].Aromatic {
		o = BondAromatic
	}
	p.st.Bonds = append(p.st.Bonds, Bond{
		Index: len(p.st.Bonds),
		Begin: begin,
		End:   end,
		Order: o,
		Ring:  ring,
	})
}

func order(sym byte) BondOrder {
	switch sym {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	}
	return BondSingle
}

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

//Personal.AI order the ending
