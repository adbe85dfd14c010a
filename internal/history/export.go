// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export is the full archive written by ExportYAML and ExportJSON.
type Export struct {
	Runs  []Run  `json:"runs" yaml:"runs"`
	Facts []Fact `json:"facts" yaml:"facts"`
}

const exportLimit = 100000

// ExportYAML writes every run and fact to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	export, err := s.export(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every run and fact to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	export, err := s.export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) export(ctx context.Context) (Export, error) {
	runs, err := s.ListRuns(ctx, ListOptions{Limit: exportLimit})
	if err != nil {
		return Export{}, fmt.Errorf("querying runs for export: %w", err)
	}
	facts, err := s.ListFacts(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("querying facts for export: %w", err)
	}
	if runs == nil {
		runs = []Run{}
	}
	if facts == nil {
		facts = []Fact{}
	}
	return Export{Runs: runs, Facts: facts}, nil
}
