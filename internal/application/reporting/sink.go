package reporting

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// Sink stores one exported artifact and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// DirSink writes artifacts into a local directory.
type DirSink struct {
	Dir string
}

// NewDirSink returns a sink rooted at dir.  The directory is created on the
// first Put.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (s *DirSink) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.New(errors.ErrCodeValidation, "invalid artifact name").WithDetail(name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "failed to create export directory")
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "failed to write artifact").WithDetail(path)
	}
	return path, nil
}

// Bundle is the set of artifacts derived from one analyzed structure.
// Empty fields are skipped by Export.
type Bundle struct {
	Descriptor string
	SVG        string
	BondTable  string
	Fragments  string
	XYZ        string
}

// Artifact records one stored file.
type Artifact struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// Export writes every non-empty artifact of b to sink.  It stops at the
// first failure and returns the artifacts stored so far.
func Export(ctx context.Context, sink Sink, b Bundle) ([]Artifact, error) {
	entries := []struct {
		name, contentType, body string
	}{
		{FileName(PrefixStructure, b.Descriptor, "svg"), ContentTypeSVG, b.SVG},
		{FileName(PrefixBondTable, b.Descriptor, "tsv"), ContentTypeTSV, b.BondTable},
		{FileName(PrefixFragments, b.Descriptor, "txt"), ContentTypeText, b.Fragments},
		{FileName(PrefixXYZ, b.Descriptor, "xyz"), ContentTypeXYZ, b.XYZ},
	}

	var out []Artifact
	for _, e := range entries {
		if e.body == "" {
			continue
		}
		loc, err := sink.Put(ctx, e.name, e.contentType, []byte(e.body))
		if err != nil {
			return out, err
		}
		out = append(out, Artifact{Name: e.name, Location: loc, Size: len(e.body)})
	}
	return out, nil
}

// ExportReport decodes a base64 report and stores it under
// report_<descriptor>.<format>.
func ExportReport(ctx context.Context, sink Sink, descriptor, format, b64 string) (*Artifact, error) {
	data, err := DecodeReport(b64)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = client.ReportFormatTXT
	}
	name := FileName(PrefixReport, descriptor, format)
	loc, err := sink.Put(ctx, name, ReportContentType(format), data)
	if err != nil {
		return nil, err
	}
	return &Artifact{Name: name, Location: loc, Size: len(data)}, nil
}

//Personal.AI order the ending
