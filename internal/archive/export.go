// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepdive/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the results named by ids, or every archived result when
// ids is empty, as a YAML sequence. Illustration payloads are omitted.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, ids ...string) error {
	results, err := s.exportResults(ctx, ids)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the results named by ids, or every archived result when
// ids is empty, as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, ids ...string) error {
	results, err := s.exportResults(ctx, ids)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportResults(ctx context.Context, ids []string) ([]*types.ResearchResult, error) {
	if len(ids) == 0 {
		entries, err := s.List(ctx, exportLimit)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	}

	results := make([]*types.ResearchResult, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
