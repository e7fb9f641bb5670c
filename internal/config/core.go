package config

import (
	"docverify/internal/merger"
	"docverify/internal/relation"
	"docverify/internal/validator"
)

// MergerConfig overlays the configured merge settings on the defaults.
func (c *Config) MergerConfig() merger.Config {
	out := merger.DefaultConfig()
	if c.Merge.SpanStrategy != "" {
		out.SpanStrategy = c.Merge.SpanStrategy
	}
	if c.Merge.DefaultNERConfidence > 0 {
		out.DefaultNERConfidence = c.Merge.DefaultNERConfidence
	}
	return out
}

// RelationConfig overlays the configured linker settings on the default relation table.
func (c *Config) RelationConfig() relation.Config {
	out := relation.DefaultConfig()
	if c.Relation.ContextRadius > 0 {
		out.ContextRadius = c.Relation.ContextRadius
	}
	if c.Relation.RequirementWindow > 0 {
		out.Requirement.Window = c.Relation.RequirementWindow
	}
	return out
}

// ValidatorConfig overlays the configured thresholds on the default keyword sets.
func (c *Config) ValidatorConfig() validator.Config {
	out := validator.DefaultConfig()
	v := c.Validation
	if v.WeakRelationDistance > 0 {
		out.WeakRelationDistance = v.WeakRelationDistance
	}
	if v.MinObligationSubjectRunes > 0 {
		out.MinObligationSubjectRunes = v.MinObligationSubjectRunes
	}
	if v.AddedObligationFloor > 0 {
		out.AddedObligationFloor = v.AddedObligationFloor
	}
	if v.AddedObligationRatio > 0 {
		out.AddedObligationRatio = v.AddedObligationRatio
	}
	return out
}
