package merger

import "docverify/internal/domain"

// Resolution names the rule that settles an overlap between two same-label entities.
type Resolution int

const (
	// PreferNER keeps the recognizer's entity over a rule-only one.
	PreferNER Resolution = iota
	// PreferHigherConfidence keeps the more confident of two recognizer entities.
	PreferHigherConfidence
	// PreferLonger keeps the longer span.
	PreferLonger
	// Union folds the candidate's provenance into the existing entity.
	Union
)

func (r Resolution) String() string {
	switch r {
	case PreferNER:
		return "prefer_ner"
	case PreferHigherConfidence:
		return "prefer_higher_confidence"
	case PreferLonger:
		return "prefer_longer"
	case Union:
		return "union"
	default:
		return "unknown"
	}
}

// outcome is what happens to one overlapping pair.
type outcome struct {
	resolution    Resolution
	candidateWins bool
	// absorb unions the loser's sources into the winner.
	absorb bool
}

// resolve decides an overlap between an already placed entity and an incoming candidate.
func resolve(existing, candidate domain.Entity) outcome {
	switch {
	case candidate.FromNER() && !existing.FromNER():
		return outcome{resolution: PreferNER, candidateWins: true, absorb: true}
	case !candidate.FromNER() && existing.FromNER():
		return outcome{resolution: PreferNER, candidateWins: false, absorb: true}
	case candidate.FromNER() && existing.FromNER():
		if candidate.Confidence != existing.Confidence {
			return outcome{resolution: PreferHigherConfidence, candidateWins: candidate.Confidence > existing.Confidence}
		}
		return outcome{resolution: PreferLonger, candidateWins: candidate.Len() > existing.Len()}
	case candidate.Text == existing.Text:
		return outcome{resolution: Union, candidateWins: false, absorb: true}
	default:
		return outcome{resolution: PreferLonger, candidateWins: candidate.Len() > existing.Len()}
	}
}
