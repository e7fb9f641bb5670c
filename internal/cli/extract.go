package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docverify/internal/canonical"
	"docverify/internal/domain"
	"docverify/internal/extractor"
	"docverify/internal/logging"
	"docverify/internal/merger"
	"docverify/internal/ner"
	"docverify/internal/relation"
	"docverify/internal/validator"
)

// factsFile is what extract writes and validate and export read back.
type factsFile struct {
	Canonical   domain.CanonicalDocumentData `json:"canonical"`
	NEREntities []domain.Entity              `json:"ner_entities"`
	Relations   []domain.Relation            `json:"relations"`
	Merged      domain.MergedData            `json:"merged"`
}

// hybridData assembles the hybrid validator input from a facts file.
func (f *factsFile) hybridData() domain.HybridData {
	facts := f.Canonical.Facts()
	merged := f.Merged
	return domain.HybridData{
		Deadlines:   facts.Deadlines,
		Obligations: facts.Obligations,
		Penalties:   facts.Penalties,
		NEREntities: f.NEREntities,
		Relations:   f.Relations,
		Merged:      &merged,
	}
}

// pipeline runs extraction in-process, without storage.
type pipeline struct {
	ex        *extractor.Extractor
	merger    *merger.Merger
	linker    *relation.Linker
	builder   *canonical.Builder
	validator *validator.Validator
}

func (a *app) pipeline() *pipeline {
	ex := extractor.New()
	m := merger.New(a.cfg.MergerConfig(), ex)
	return &pipeline{
		ex:        ex,
		merger:    m,
		linker:    relation.New(a.cfg.RelationConfig()),
		builder:   canonical.NewBuilder(nil),
		validator: validator.New(a.cfg.ValidatorConfig(), ex, m),
	}
}

func (p *pipeline) extract(text string, nerEntities []domain.Entity) *factsFile {
	text = extractor.PrepareText(text)
	if nerEntities == nil {
		nerEntities = []domain.Entity{}
	}
	merged := p.merger.Merge(nerEntities, text)
	relations := p.linker.ExtractRelations(text, merged.Entities)
	if relations == nil {
		relations = []domain.Relation{}
	}
	return &factsFile{
		Canonical:   p.builder.Build(merged, nil),
		NEREntities: nerEntities,
		Relations:   relations,
		Merged:      merged,
	}
}

// recognize calls the configured recognizer. Failures fall back to rule extraction.
func (a *app) recognize(ctx context.Context, text string) []domain.Entity {
	if !a.cfg.NER.Enabled() {
		return nil
	}
	entities, err := ner.NewClient(&a.cfg.NER).Recognize(ctx, extractor.PrepareText(text))
	if err != nil {
		logging.For("cli").Warnf("recognizer unavailable, using rule extraction only: %v", err)
		return nil
	}
	return entities
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		output  string
		noNER   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "extract <file|->",
		Short: "Extract the canonical facts of a notice",
		Long: `Extract reads a notice (or stdin with "-") and prints its canonical facts.

When ner.url is configured the recognizer's entities are merged in; if the
recognizer fails the facts come from the rule extractor alone.

Example:
  factcheck extract notice.txt
  factcheck extract notice.txt --output facts.json --format yaml
  cat notice.txt | factcheck extract - --no-ner`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return domain.ErrEmptyText
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var entities []domain.Entity
			if !noNER {
				entities = a.recognize(ctx, text)
			}
			facts := a.pipeline().extract(text, entities)

			if output != "" {
				data, err := json.MarshalIndent(facts, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding facts: %w", err)
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
			}
			return a.render(cmd.OutOrStdout(), facts.Canonical)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the full facts file (for validate --facts)")
	cmd.Flags().BoolVar(&noNER, "no-ner", false, "skip the entity recognizer")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "recognizer timeout")
	return cmd
}
