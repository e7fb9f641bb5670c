package validator

// Config holds the answer validation thresholds and keyword sets.
type Config struct {
	// ImportanceKeywords select the canonical obligations that may be reported missing.
	ImportanceKeywords []string
	// BoilerplatePhrases mark disclaimer text whose issues are dropped.
	BoilerplatePhrases []string
	// MinObligationSubjectRunes drops obligation issues about shorter fragments.
	MinObligationSubjectRunes int
	// Added obligations are reported only when the answer states more than
	// max(AddedObligationFloor, AddedObligationRatio * canonical count) of them.
	AddedObligationFloor int
	AddedObligationRatio float64
	// WeakRelationDistance is the rune gap above which a deadline relation counts as weak.
	WeakRelationDistance int
}

// DefaultConfig returns the standard validation settings.
func DefaultConfig() Config {
	return Config{
		ImportanceKeywords:        []string{"신고", "신청", "제출", "납부", "기한", "만료"},
		BoilerplatePhrases:        []string{"문의", "참고", "확인하시기 바랍니다", "정확한 내용", "담당 기관", "변경될 수 있"},
		MinObligationSubjectRunes: 10,
		AddedObligationFloor:      3,
		AddedObligationRatio:      1.5,
		WeakRelationDistance:      200,
	}
}

// withDefaults fills every unset field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.ImportanceKeywords) == 0 {
		c.ImportanceKeywords = d.ImportanceKeywords
	}
	if len(c.BoilerplatePhrases) == 0 {
		c.BoilerplatePhrases = d.BoilerplatePhrases
	}
	if c.MinObligationSubjectRunes <= 0 {
		c.MinObligationSubjectRunes = d.MinObligationSubjectRunes
	}
	if c.AddedObligationFloor <= 0 {
		c.AddedObligationFloor = d.AddedObligationFloor
	}
	if c.AddedObligationRatio <= 0 {
		c.AddedObligationRatio = d.AddedObligationRatio
	}
	if c.WeakRelationDistance <= 0 {
		c.WeakRelationDistance = d.WeakRelationDistance
	}
	return c
}
