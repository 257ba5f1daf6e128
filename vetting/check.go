package vetting

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type CheckRequest struct {
	URL     string
	Context string
}

type CheckMeta struct {
	AgeDays       *int `json:"ageDays"`
	IsGateway     bool `json:"isGateway"`
	IsVendorAsset bool `json:"isVendorAsset"`
}

type CheckResponse struct {
	Label   RiskLabel    `json:"label"`
	Score   int          `json:"score"`
	Target  UnwrapResult `json:"target"`
	Reasons []string     `json:"reasons"`
	Meta    CheckMeta    `json:"meta"`
}

// Checker runs the full link vetting pipeline for one request at a time;
// it is safe for concurrent use.
type Checker struct {
	unwrapper  *Unwrapper
	classifier *Classifier
	brands     *BrandMatcher
	ages       *AgeResolver
	scoring    ScoringConfig

	useBrandMismatch bool

	log *logrus.Entry
}

func NewChecker(reg *Registry, ages *AgeResolver, useBrandMismatch bool) (*Checker, error) {
	unwrapper, err := NewUnwrapperFromRegistry(reg)
	if err != nil {
		return nil, err
	}
	if ages == nil {
		ages = NewAgeResolver(false, nil, nil, 0)
	}
	return &Checker{
		unwrapper:        unwrapper,
		classifier:       NewClassifier(reg),
		brands:           NewBrandMatcher(reg),
		ages:             ages,
		scoring:          DefaultScoringConfig(reg),
		useBrandMismatch: useBrandMismatch,
		log:              logrus.WithField("component", "checker"),
	}, nil
}

// NewCheckerFromConfig wires the registry and domain-age source described
// by cfg.
func NewCheckerFromConfig(cfg Config) (*Checker, error) {
	reg := DefaultRegistry()
	if cfg.RegistryFile != "" {
		loaded, err := LoadRegistry(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		reg = loaded
		logrus.WithFields(logrus.Fields{
			"file":     cfg.RegistryFile,
			"gateways": len(reg.Gateways),
			"brands":   len(reg.Brands),
		}).Info("registry loaded")
	}

	var source RegistrationSource
	switch cfg.DomainAgeSource {
	case "whois":
		source = NewWhoisSource(cfg.DomainAgeTimeout)
	default:
		source = NewRDAPSource(cfg.RDAPBaseURL, &http.Client{Timeout: cfg.DomainAgeTimeout})
	}

	ages := NewAgeResolver(cfg.UseDomainAge, source, NewAgeCache(cfg.DomainAgeCacheTTL), cfg.DomainAgeTimeout)
	return NewChecker(reg, ages, cfg.UseBrandMismatch)
}

// Check vets req.URL. It returns *InputError for unusable input and
// *ResolutionError when a gateway hides an unusable target. Enrichment
// failures never surface as errors.
func (c *Checker) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return nil, &InputError{Msg: "Invalid URL provided"}
	}
	if _, err := parseAbsoluteURL(raw); err != nil {
		return nil, &InputError{Msg: "Invalid URL format"}
	}

	target, err := c.unwrapper.Unwrap(raw)
	if err != nil {
		return nil, err
	}
	target.Original = req.URL

	host, err := hostOf(target.Display)
	if err != nil {
		return nil, fmt.Errorf("display host: %w", err)
	}

	var (
		class   HostClassification
		ageDays *int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		class = c.classifier.Classify(host, target.Display)
		return nil
	})

	g.Go(func() error {
		ageDays = c.ages.AgeDays(gctx, target.BaseDomain)
		return nil
	})

	_ = g.Wait()

	brandMismatch := false
	if c.useBrandMismatch && req.Context != "" {
		brandMismatch = c.brands.BrandMismatch(req.Context, target.BaseDomain)
	}

	result := Score(c.scoring, ScoreFlags{
		AgeDays:       ageDays,
		TLD:           TLDOf(target.BaseDomain),
		BrandMismatch: brandMismatch,
		Typosquat:     false, // no homoglyph detection yet
	})

	c.log.WithFields(logrus.Fields{
		"display": target.Display,
		"via":     strings.Join(target.Via, ","),
		"score":   result.Score,
		"label":   result.Label,
	}).Info("link check completed")

	return &CheckResponse{
		Label:   result.Label,
		Score:   result.Score,
		Target:  target,
		Reasons: result.Reasons,
		Meta: CheckMeta{
			AgeDays:       ageDays,
			IsGateway:     class.IsGateway,
			IsVendorAsset: class.IsVendorAsset,
		},
	}, nil
}
