package chem_engine

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// RenderOptions tunes the schematic preview.
type RenderOptions struct {
	Width      int
	Height     int
	BondLabels bool
}

var elementColors = map[string]string{
	"N":  "#3050F8",
	"O":  "#FF0D0D",
	"S":  "#C8A000",
	"P":  "#FF8000",
	"F":  "#1FB000",
	"Cl": "#1FB000",
	"Br": "#A62929",
	"I":  "#940094",
}

type point struct{ x, y float64 }

// Render draws s as an SVG sketch: each fragment's atoms on its own circle,
// bonds as one to four parallel strokes, heteroatoms labelled. It is a
// preview for picking bond indices, not a 2D depiction.
func Render(s *Structure, opts RenderOptions) string {
	if opts.Width <= 0 {
		opts.Width = 300
	}
	if opts.Height <= 0 {
		opts.Height = 300
	}
	pos := layout(s, float64(opts.Width), float64(opts.Height))

	var b strings.Builder
	fmt.Fprintf(&b, "<?xml version='1.0' encoding='iso-8859-1'?>\n")
	fmt.Fprintf(&b, "<svg version='1.1' xmlns='http://www.w3.org/2000/svg' width='%dpx' height='%dpx' viewBox='0 0 %d %d'>\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&b, "<rect width='%d' height='%d' fill='#FFFFFF'/>\n", opts.Width, opts.Height)

	for _, bond := range s.Bonds {
		writeBond(&b, bond, pos[bond.Begin], pos[bond.End])
		if opts.BondLabels {
			mid := point{(pos[bond.Begin].x + pos[bond.End].x) / 2, (pos[bond.Begin].y + pos[bond.End].y) / 2}
			fmt.Fprintf(&b, "<text class='bond-label' x='%.1f' y='%.1f' font-size='9' fill='#888888'>%d</text>\n", mid.x+3, mid.y-3, bond.Index)
		}
	}
	for _, a := range s.Atoms {
		writeAtom(&b, a, pos[a.Index])
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func layout(s *Structure, w, h float64) []point {
	pos := make([]point, len(s.Atoms))
	if len(s.Atoms) == 0 {
		return pos
	}
	comps := s.Components
	if comps < 1 {
		comps = 1
	}
	members := make([][]int, comps)
	for _, a := range s.Atoms {
		members[a.Component] = append(members[a.Component], a.Index)
	}

	cellW := w / float64(comps)
	for c, idxs := range members {
		cx := cellW*float64(c) + cellW/2
		cy := h / 2
		r := math.Min(cellW, h) * 0.38
		if len(idxs) == 1 {
			pos[idxs[0]] = point{cx, cy}
			continue
		}
		for k, idx := range idxs {
			theta := 2*math.Pi*float64(k)/float64(len(idxs)) - math.Pi/2
			pos[idx] = point{cx + r*math.Cos(theta), cy + r*math.Sin(theta)}
		}
	}
	return pos
}

func writeBond(b *strings.Builder, bond Bond, p1, p2 point) {
	n := bond.Order.Multiplicity()
	dx, dy := p2.x-p1.x, p2.y-p1.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// unit normal
	nx, ny := -dy/length, dx/length
	const gap = 3.0
	for i := 0; i < n; i++ {
		off := (float64(i) - float64(n-1)/2) * gap
		dash := ""
		if bond.Order == BondAromatic && i == n-1 {
			dash = " stroke-dasharray='3,2'"
		}
		fmt.Fprintf(b, "<path class='bond-%d atom-%d atom-%d' d='M %.1f,%.1f L %.1f,%.1f' style='fill:none;stroke:#000000;stroke-width:1.5px'%s/>\n",
			bond.Index, bond.Begin, bond.End,
			p1.x+nx*off, p1.y+ny*off, p2.x+nx*off, p2.y+ny*off, dash)
	}
}

func writeAtom(b *strings.Builder, a Atom, p point) {
	el := a.Element()
	if el == "C" && !a.Bracket {
		return
	}
	color, ok := elementColors[el]
	if !ok {
		color = "#000000"
	}
	label := el
	if a.HCount > 0 {
		label += "H"
		if a.HCount > 1 {
			label += fmt.Sprint(a.HCount)
		}
	}
	switch {
	case a.Charge == 1:
		label += "+"
	case a.Charge == -1:
		label += "-"
	case a.Charge > 1:
		label += fmt.Sprintf("%d+", a.Charge)
	case a.Charge < -1:
		label += fmt.Sprintf("%d-", -a.Charge)
	}
	fmt.Fprintf(b, "<circle cx='%.1f' cy='%.1f' r='8' fill='#FFFFFF'/>\n", p.x, p.y)
	fmt.Fprintf(b, "<text class='atom-%d' x='%.1f' y='%.1f' text-anchor='middle' dominant-baseline='central' font-size='12' fill='%s'>%s</text>\n",
		a.Index, p.x, p.y, color, html.EscapeString(label))
}

//Personal.AI order the ending
