package vetting

import (
	"fmt"
	"strings"
)

const noRiskReason = "No significant risk factors detected"

// ScoreFlags are the signals gathered for one link.
type ScoreFlags struct {
	AgeDays       *int
	TLD           string
	BrandMismatch bool
	Typosquat     bool
}

type ScoreResult struct {
	Score   int       `json:"score"`
	Label   RiskLabel `json:"label"`
	Reasons []string  `json:"reasons"`
}

// Score adds up the points of every signal that fired and labels the total.
// Reasons follow evaluation order: age, TLD, typosquat, brand.
func Score(cfg ScoringConfig, flags ScoreFlags) ScoreResult {
	w := cfg.Weights
	t := cfg.Thresholds

	score := 0
	reasons := []string{}

	// Domain age
	if flags.AgeDays != nil {
		age := *flags.AgeDays
		if age < t.VeryNewDays {
			score += w.DomainVeryNew
			reasons = append(reasons, fmt.Sprintf("Domain registered only %d days ago", age))
		} else if age < t.NewDays {
			score += w.DomainNew
			reasons = append(reasons, fmt.Sprintf("Domain is relatively new (%d days old)", age))
		}
	}

	// Risky TLD
	if flags.TLD != "" && isRiskyTLD(cfg.RiskyTLDs, flags.TLD) {
		score += w.RiskyTLD
		reasons = append(reasons, fmt.Sprintf("Uses risky top-level domain (%s)", flags.TLD))
	}

	// Typosquatting / homoglyph
	if flags.Typosquat {
		score += w.Typosquat
		reasons = append(reasons, "Potential typosquatting or homoglyph attack")
	}

	// Brand mismatch
	if flags.BrandMismatch {
		score += w.BrandMismatch
		reasons = append(reasons, "Domain does not match expected brand")
	}

	label := LabelLow
	if score >= t.HighMin {
		label = LabelHigh
	} else if score >= t.MediumMin {
		label = LabelMedium
	}

	if len(reasons) == 0 {
		reasons = append(reasons, noRiskReason)
	}

	return ScoreResult{
		Score:   score,
		Label:   label,
		Reasons: reasons,
	}
}

func isRiskyTLD(risky []string, tld string) bool {
	for _, r := range risky {
		if strings.EqualFold(r, tld) {
			return true
		}
	}
	return false
}
