package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
)

var bondHeaders = []string{"IDX", "ATOMS", "BOND", "TYPE", "BDE"}

func atomsLabel(atoms []int) string {
	if len(atoms) == 0 {
		return reporting.NotAvailable
	}
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, "-")
}

func orNA(s string) string {
	if s == "" {
		return reporting.NotAvailable
	}
	return s
}

func predictionRows(preds []client.BondPrediction) [][]string {
	rows := make([][]string, 0, len(preds))
	for _, p := range preds {
		rows = append(rows, []string{
			strconv.Itoa(p.Idx), atomsLabel(p.Atoms), orNA(p.BondAtoms), orNA(p.BondType), reporting.FormatBDE(p.BDE),
		})
	}
	return rows
}

// validationView lists descriptors with their local verdict.
type validationView struct {
	Items []bde.Item `json:"items"`
	Valid int        `json:"valid"`
}

func (v validationView) TableHeaders() []string { return []string{"DESCRIPTOR", "VALIDITY"} }

func (v validationView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Items))
	for _, it := range v.Items {
		rows = append(rows, []string{it.Descriptor, it.Validity.String()})
	}
	return rows
}

// structureView is a loaded structure.
type structureView struct {
	*bde.Structure
}

func (v structureView) TableHeaders() []string { return []string{"IDX", "ATOMS", "BOND", "TYPE", "RING"} }

func (v structureView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Bonds))
	for _, b := range v.Bonds {
		rows = append(rows, []string{
			strconv.Itoa(b.Idx), atomsLabel(b.Atoms), orNA(b.BondAtoms), orNA(b.BondType), strconv.FormatBool(b.IsRing),
		})
	}
	return rows
}

func (v structureView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SMILES:      %s\n", v.Source)
	fmt.Fprintf(&sb, "Canonical:   %s\n", v.Canonical)
	fmt.Fprintf(&sb, "Molecule ID: %s\n", v.Identifier)
	fmt.Fprintf(&sb, "Formula:     %s (%d atoms)\n", v.Formula, v.Atoms)
	if len(v.Bonds) > 0 {
		sb.WriteString("\n")
		sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// analysisView is one bond evaluation.
type analysisView struct {
	*bde.AnalysisResult
	Artifacts []reporting.Artifact `json:"artifacts,omitempty"`
}

func (v analysisView) TableHeaders() []string { return bondHeaders }
func (v analysisView) TableRows() [][]string  { return predictionRows(v.Bonds) }

func (v analysisView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Canonical:   %s\n", v.Canonical)
	fmt.Fprintf(&sb, "Molecule ID: %s\n", v.Identifier)
	if w := v.Weakest(); w != nil {
		fmt.Fprintf(&sb, "Weakest:     bond %d (%s kcal/mol)\n", w.Idx, reporting.FormatBDE(w.BDE))
	}
	sb.WriteString("\n")
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	if v.Fragments != "" {
		fmt.Fprintf(&sb, "\nFragments:\n%s\n", v.Fragments)
	}
	for _, a := range v.Artifacts {
		fmt.Fprintf(&sb, "\nexported %s -> %s", a.Name, a.Location)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// predictionView is a single or multiple bond prediction.
type predictionView struct {
	*client.PredictionResult
}

func (v predictionView) TableHeaders() []string { return bondHeaders }
func (v predictionView) TableRows() [][]string  { return predictionRows(v.BDEValues) }

// batchView is a finished batch run.
type batchView struct {
	*bde.Report
	Skipped   int                  `json:"skipped"`
	Artifacts []reporting.Artifact `json:"artifacts,omitempty"`
}

func (v batchView) TableHeaders() []string {
	return []string{"DESCRIPTOR", "CANONICAL", "MOLECULE ID", "BONDS", "WEAKEST"}
}

func (v batchView) TableRows() [][]string {
	s := v.Summary()
	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		weakest := r.Weakest
		if r.WeakestIdx >= 0 {
			weakest = fmt.Sprintf("%s (bond %d)", r.Weakest, r.WeakestIdx)
		}
		rows = append(rows, []string{r.Descriptor, r.Canonical, r.Identifier, strconv.Itoa(r.Bonds), weakest})
	}
	return rows
}

func (v batchView) String() string {
	out, err := reporting.RenderSummary(v.Summary())
	if err != nil {
		return FormatTable(v.TableHeaders(), v.TableRows())
	}
	return strings.TrimRight(out, "\n")
}

// historyView is the recent descriptor list, most recent first.
type historyView struct {
	Entries []string `json:"entries"`
	Size    int      `json:"size"`
}

func (v historyView) TableHeaders() []string { return []string{"#", "DESCRIPTOR"} }

func (v historyView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Entries))
	for i, e := range v.Entries {
		rows = append(rows, []string{strconv.Itoa(i + 1), e})
	}
	return rows
}

//Personal.AI order the ending
