// Package reporting turns analysis results into downloadable payloads: the
// bond table, fragment lists, coordinate blocks, decoded reports and the
// structure image, and writes them to a Sink.
package reporting

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// File name prefixes and content types of exported artifacts.
const (
	PrefixStructure = "molecular_structure"
	PrefixBondTable = "bde_table"
	PrefixFragments = "smiles_list"
	PrefixXYZ       = "molecule"
	PrefixReport    = "report"

	ContentTypeSVG  = "image/svg+xml"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeTSV  = "text/tab-separated-values; charset=utf-8"
	ContentTypeXYZ  = "chemical/x-xyz"
	ContentTypePDF  = "application/pdf"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// NotAvailable is printed for bonds without a predicted energy.
const NotAvailable = "N/A"

var bondTableHeader = []string{"idx", "atoms", "bond_atoms", "bond_type", "bde"}

// FormatBDE renders an energy with four decimals, or NotAvailable.
func FormatBDE(bde *float64) string {
	if bde == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*bde, 'f', 4, 64)
}

// LookupBDE returns the formatted energy of bond idx in predictions.
func LookupBDE(predictions []client.BondPrediction, idx int) string {
	for _, p := range predictions {
		if p.Idx == idx {
			return FormatBDE(p.BDE)
		}
	}
	return NotAvailable
}

func joinAtoms(atoms []int) string {
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, "-")
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// BondTable renders predictions as tab-separated text with a header row.
func BondTable(predictions []client.BondPrediction) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(bondTableHeader, "\t"))
	sb.WriteByte('\n')
	for _, p := range predictions {
		fmt.Fprintf(&sb, "%d\t%s\t%s\t%s\t%s\n",
			p.Idx, orNA(joinAtoms(p.Atoms)), orNA(p.BondAtoms), orNA(p.BondType), FormatBDE(p.BDE))
	}
	return sb.String()
}

// FragmentList joins fragment descriptors one per line.
func FragmentList(list []string) string {
	return strings.Join(list, "\n")
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName builds "<prefix>_<descriptor>.<ext>" with every character of the
// descriptor outside [a-zA-Z0-9] replaced by "_".
func FileName(prefix, descriptor, ext string) string {
	return prefix + "_" + unsafeFileChars.ReplaceAllString(descriptor, "_") + "." + strings.TrimPrefix(ext, ".")
}

// DecodeReport decodes a base64 report payload.
func DecodeReport(b64 string) ([]byte, error) {
	if strings.TrimSpace(b64) == "" {
		return nil, errors.New(errors.ErrCodeEmptyPayload, "report payload is empty")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, errors.Decoding(err, "report payload is not valid base64")
	}
	return data, nil
}

// ReportContentType maps a report format to its content type.
func ReportContentType(format string) string {
	switch format {
	case client.ReportFormatPDF:
		return ContentTypePDF
	case client.ReportFormatCSV:
		return ContentTypeCSV
	}
	return ContentTypeText
}

//Personal.AI order the ending
