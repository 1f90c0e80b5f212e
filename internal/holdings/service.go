package holdings

import (
	"context"
	"fmt"

	"github.com/gcouto/patrimonio/internal/source"
	"github.com/gcouto/patrimonio/internal/source/upload"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=holdings

// MappingRepository persists per-sheet role-mapping overrides. These
// are user preferences, not normalized data: the canonical table
// itself is recomputed from the source on every load.
type MappingRepository interface {
	GetMapping(ctx context.Context, workbook, tab string) (Mapping, error)
	SaveMapping(ctx context.Context, workbook, tab string, m Mapping) error
}

// Service runs the full pipeline: source adapter, role mapping,
// normalizer. One call is one blocking recompute; the previous result
// is discarded, never merged.
type Service struct {
	cache    *source.Cache
	mappings MappingRepository
}

// NewService wires the cache-backed source and an optional mapping
// repository (nil means overrides are never persisted and defaults
// are always inferred).
func NewService(cache *source.Cache, mappings MappingRepository) *Service {
	return &Service{cache: cache, mappings: mappings}
}

// Load is the result of one pipeline run.
type Load struct {
	Workbook string
	Tab      string
	Columns  []string
	Mapping  Mapping
	Result   *Result
}

// Load fetches (or reuses the cached) raw table for (workbook, tab),
// resolves the role mapping and normalizes.
func (s *Service) Load(ctx context.Context, workbook, tab string) (*Load, error) {
	t, err := s.cache.Load(ctx, workbook, tab)
	if err != nil {
		return nil, err
	}

	m, err := s.resolveMapping(ctx, workbook, tab, t.Columns)
	if err != nil {
		return nil, err
	}

	res, err := Normalize(t, m)
	if err != nil {
		return nil, err
	}

	return &Load{
		Workbook: workbook,
		Tab:      tab,
		Columns:  t.Columns,
		Mapping:  m,
		Result:   res,
	}, nil
}

// Reload drops the cached raw table and runs Load again. This is the
// only way a cache entry is ever refreshed; there is no time-based
// expiry.
func (s *Service) Reload(ctx context.Context, workbook, tab string) (*Load, error) {
	s.cache.Invalidate(workbook, tab)
	return s.Load(ctx, workbook, tab)
}

// NormalizeUpload parses an uploaded delimited file and normalizes it.
// Defaults are inferred from the file's own columns; the caller's
// override wins role by role.
func (s *Service) NormalizeUpload(data []byte, override Mapping) (*Load, error) {
	t, err := upload.Parse(data)
	if err != nil {
		return nil, err
	}

	m := InferMapping(t.Columns)
	for role, col := range override {
		m[role] = col
	}

	res, err := Normalize(t, m)
	if err != nil {
		return nil, err
	}

	return &Load{Columns: t.Columns, Mapping: m, Result: res}, nil
}

// SetMapping validates an override against the current raw columns and
// persists it for subsequent loads.
func (s *Service) SetMapping(ctx context.Context, workbook, tab string, m Mapping) error {
	if s.mappings == nil {
		return fmt.Errorf("mapping overrides are not persisted in this configuration")
	}

	t, err := s.cache.Load(ctx, workbook, tab)
	if err != nil {
		return err
	}

	if err := m.Validate(t.Columns); err != nil {
		return err
	}

	if err := s.mappings.SaveMapping(ctx, workbook, tab, m); err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}

	return nil
}

// resolveMapping prefers a saved override; a stale override surfaces
// as a MappingError from Normalize rather than being patched up here.
func (s *Service) resolveMapping(ctx context.Context, workbook, tab string, columns []string) (Mapping, error) {
	if s.mappings == nil {
		return InferMapping(columns), nil
	}

	saved, err := s.mappings.GetMapping(ctx, workbook, tab)
	if err != nil {
		return nil, fmt.Errorf("loading saved mapping: %w", err)
	}

	if saved == nil {
		return InferMapping(columns), nil
	}

	return saved, nil
}
