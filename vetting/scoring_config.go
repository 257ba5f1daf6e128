package vetting

// RiskLabel is the coarse verdict attached to a score.
type RiskLabel string

const (
	LabelHigh   RiskLabel = "HIGH"
	LabelMedium RiskLabel = "MEDIUM"
	LabelLow    RiskLabel = "LOW"
)

// ScoringWeights are the points each signal adds to the score.
type ScoringWeights struct {
	DomainVeryNew int `json:"domain_very_new"` // age < VeryNewDays
	DomainNew     int `json:"domain_new"`      // age < NewDays
	RiskyTLD      int `json:"risky_tld"`
	Typosquat     int `json:"typosquat"`
	BrandMismatch int `json:"brand_mismatch"`
}

// DefaultScoringWeights returns the production weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		DomainVeryNew: 30,
		DomainNew:     15,
		RiskyTLD:      10,
		Typosquat:     15,
		BrandMismatch: 10,
	}
}

// ScoringThresholds defines domain-age cut-offs and label boundaries.
type ScoringThresholds struct {
	VeryNewDays int `json:"very_new_days"` // Default: 30
	NewDays     int `json:"new_days"`      // Default: 90
	HighMin     int `json:"high_min"`      // Default: 70
	MediumMin   int `json:"medium_min"`    // Default: 40
}

// DefaultScoringThresholds returns default thresholds
func DefaultScoringThresholds() ScoringThresholds {
	return ScoringThresholds{
		VeryNewDays: 30,
		NewDays:     90,
		HighMin:     70,
		MediumMin:   40,
	}
}

// ScoringConfig bundles everything the scorer needs.
type ScoringConfig struct {
	Weights    ScoringWeights
	Thresholds ScoringThresholds
	RiskyTLDs  []string
}

func DefaultScoringConfig(reg *Registry) ScoringConfig {
	return ScoringConfig{
		Weights:    DefaultScoringWeights(),
		Thresholds: DefaultScoringThresholds(),
		RiskyTLDs:  reg.RiskyTLDs,
	}
}
