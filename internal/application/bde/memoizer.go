// Package bde implements the console's analysis workflows: the per-session
// request memoizer, the batch analyzer and the single-structure workbench.
package bde

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// PredictionService is the remote surface used by a session.
// *client.PredictionsClient satisfies it.
type PredictionService interface {
	Info(ctx context.Context, smiles string) (*client.MoleculeInfo, error)
	Fragment(ctx context.Context, req *client.FragmentRequest) (*client.FragmentResult, error)
	PredictSingle(ctx context.Context, req *client.PredictSingleRequest) (*client.PredictionResult, error)
	PredictMultiple(ctx context.Context, req *client.PredictMultipleRequest) (*client.PredictionResult, error)
	DownloadReport(ctx context.Context, smiles, format string) (*client.ReportPayload, error)
}

const (
	opCanonicalize = "canonicalize"
	opEvaluate     = "evaluate"

	// keySep joins cache key parts.  It cannot occur in a descriptor or an
	// identifier, unlike "|" which is legal in extended SMILES.
	keySep = "\x00"

	// sharedCallTimeout bounds a remote call that outlives the caller that
	// started it.
	sharedCallTimeout = 2 * time.Minute
)

// EvaluateOptions selects the bonds and export payloads of a bond evaluation.
// The zero value evaluates every bond with no exports.
type EvaluateOptions struct {
	ExportSMILES bool
	ExportXYZ    bool
	BondIdx      *int
	BondIndices  []int
}

// IsZero reports whether o equals the zero options.
func (o EvaluateOptions) IsZero() bool {
	return !o.ExportSMILES && !o.ExportXYZ && o.BondIdx == nil && len(o.BondIndices) == 0
}

// canonical renders o in a stable order; index lists are sorted and deduplicated.
func (o EvaluateOptions) canonical() string {
	if o.IsZero() {
		return ""
	}
	parts := make([]string, 0, 4)
	if o.ExportSMILES {
		parts = append(parts, "smiles")
	}
	if o.ExportXYZ {
		parts = append(parts, "xyz")
	}
	if o.BondIdx != nil {
		parts = append(parts, "bond="+strconv.Itoa(*o.BondIdx))
	}
	if len(o.BondIndices) > 0 {
		idx := append([]int(nil), o.BondIndices...)
		sort.Ints(idx)
		var sb strings.Builder
		sb.WriteString("bonds=")
		for i, v := range idx {
			if i > 0 && idx[i-1] == v {
				continue
			}
			if sb.Len() > len("bonds=") {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(v))
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ";")
}

func (o EvaluateOptions) request(descriptor, identifier string) *client.FragmentRequest {
	return &client.FragmentRequest{
		SMILES:       descriptor,
		MoleculeID:   identifier,
		BondIdx:      o.BondIdx,
		BondIndices:  o.BondIndices,
		ExportSMILES: o.ExportSMILES,
		ExportXYZ:    o.ExportXYZ,
	}
}

func canonicalizeKey(descriptor string) string {
	return opCanonicalize + keySep + descriptor
}

func evaluateKey(descriptor, identifier string, opts EvaluateOptions) string {
	key := opEvaluate + keySep + descriptor + keySep + identifier
	if c := opts.canonical(); c != "" {
		key += keySep + c
	}
	return key
}

// Memoizer caches successful prediction responses for the lifetime of a
// session.  Entries never expire; Invalidate and Forget drop them on demand.
// Failed calls are not stored.  Concurrent misses on one key share a single
// remote call, which is detached from the caller that started it: a caller
// whose context ends stops waiting, while the call keeps running for the
// others and its result is still stored.
type Memoizer struct {
	svc     PredictionService
	cache   *gocache.Cache
	group   singleflight.Group
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewMemoizer wraps svc.  logger and metrics may be nil.
func NewMemoizer(svc PredictionService, logger logging.Logger, metrics *prometheus.AppMetrics) *Memoizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Memoizer{
		svc:     svc,
		cache:   gocache.New(gocache.NoExpiration, 0),
		logger:  logger.Named("memo"),
		metrics: metrics,
	}
}

// Canonicalize returns the canonical form and identifier of descriptor.
// Repeated calls return the same *MoleculeInfo.
func (m *Memoizer) Canonicalize(ctx context.Context, descriptor string) (*client.MoleculeInfo, error) {
	return memoize(ctx, m, opCanonicalize, canonicalizeKey(descriptor), func(ctx context.Context) (*client.MoleculeInfo, error) {
		return m.svc.Info(ctx, descriptor)
	})
}

// EvaluateBonds returns the bond predictions of the structure identified by
// identifier.  Repeated calls with equal arguments return the same
// *FragmentResult.
func (m *Memoizer) EvaluateBonds(ctx context.Context, descriptor, identifier string, opts EvaluateOptions) (*client.FragmentResult, error) {
	return memoize(ctx, m, opEvaluate, evaluateKey(descriptor, identifier, opts), func(ctx context.Context) (*client.FragmentResult, error) {
		return m.svc.Fragment(ctx, opts.request(descriptor, identifier))
	})
}

func memoize[T any](ctx context.Context, m *Memoizer, op, key string, call func(context.Context) (*T, error)) (*T, error) {
	if v, ok := m.cache.Get(key); ok {
		prometheus.RecordCacheAccess(m.metrics, op, true)
		m.logger.Debug("memo hit", logging.String("op", op))
		return v.(*T), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Transport(err, "request cancelled").WithDetail(op)
	}
	prometheus.RecordCacheAccess(m.metrics, op, false)

	ch := m.group.DoChan(key, func() (interface{}, error) {
		if v, ok := m.cache.Get(key); ok {
			return v, nil
		}
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()

		start := time.Now()
		res, err := call(callCtx)
		prometheus.RecordRemoteCall(m.metrics, op, time.Since(start), err)
		if err != nil {
			m.logger.Debug("remote call failed", logging.String("op", op), logging.Err(err))
			return nil, err
		}
		if res == nil {
			return nil, nil
		}
		m.cache.Set(key, res, gocache.NoExpiration)
		prometheus.RecordCacheSize(m.metrics, m.cache.ItemCount())
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.Transport(ctx.Err(), "request cancelled").WithDetail(op)
	case r := <-ch:
		if r.Err != nil || r.Val == nil {
			return nil, r.Err
		}
		return r.Val.(*T), nil
	}
}

// Invalidate drops every memoized response.
func (m *Memoizer) Invalidate() {
	m.cache.Flush()
	prometheus.RecordCacheSize(m.metrics, 0)
	m.logger.Info("memo invalidated")
}

// Forget drops the responses memoized for descriptor and returns how many
// entries were removed.
func (m *Memoizer) Forget(descriptor string) int {
	exact := canonicalizeKey(descriptor)
	prefix := opEvaluate + keySep + descriptor + keySep
	removed := 0
	for key := range m.cache.Items() {
		if key == exact || strings.HasPrefix(key, prefix) {
			m.cache.Delete(key)
			removed++
		}
	}
	prometheus.RecordCacheSize(m.metrics, m.cache.ItemCount())
	return removed
}

// Len returns the number of memoized responses.
func (m *Memoizer) Len() int {
	return m.cache.ItemCount()
}

//Personal.AI order the ending
