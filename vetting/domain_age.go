package vetting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRDAPBaseURL      = "https://rdap.org"
	DefaultDomainAgeTimeout = 3 * time.Second
)

var errNoRegistrationDate = errors.New("no registration date")

// RegistrationSource looks up when a domain was registered.
type RegistrationSource interface {
	Name() string
	RegisteredAt(ctx context.Context, domain string) (time.Time, error)
}

//
// RDAP
//

type RDAPSource struct {
	baseURL string
	http    *http.Client
}

func NewRDAPSource(baseURL string, client *http.Client) *RDAPSource {
	if baseURL == "" {
		baseURL = DefaultRDAPBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &RDAPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

func (s *RDAPSource) Name() string { return "rdap" }

type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

type rdapDomain struct {
	Events []rdapEvent `json:"events"`
}

func (s *RDAPSource) RegisteredAt(ctx context.Context, domain string) (time.Time, error) {
	endpoint := s.baseURL + "/domain/" + url.PathEscape(domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/rdap+json, application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return time.Time{}, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var data rdapDomain
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return time.Time{}, fmt.Errorf("decode response: %w", err)
	}

	reg, ok := registrationDate(data.Events)
	if !ok {
		return time.Time{}, errNoRegistrationDate
	}
	return reg, nil
}

// registrationDate picks the earliest "registration" event. "last changed"
// and "expiration" events pass the first filter but are never adopted.
func registrationDate(events []rdapEvent) (time.Time, bool) {
	var earliest time.Time
	found := false

	for _, ev := range events {
		switch ev.EventAction {
		case "registration", "last changed", "expiration":
		default:
			continue
		}
		if ev.EventDate == "" {
			continue
		}
		date, err := parseRegistryDate(ev.EventDate)
		if err != nil {
			continue
		}
		if !found || date.Before(earliest) {
			if ev.EventAction == "registration" {
				earliest = date
				found = true
			}
		}
	}
	return earliest, found
}

//
// WHOIS
//

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

func parseRegistryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range whoisDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// WhoisSource reads the creation date from a WHOIS record.
type WhoisSource struct {
	client *whois.Client
}

func NewWhoisSource(timeout time.Duration) *WhoisSource {
	c := whois.NewClient()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &WhoisSource{client: c}
}

func (s *WhoisSource) Name() string { return "whois" }

func (s *WhoisSource) RegisteredAt(ctx context.Context, domain string) (time.Time, error) {
	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := s.client.Whois(domain)
		ch <- result{raw: raw, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case res = <-ch:
	}
	if res.err != nil {
		return time.Time{}, fmt.Errorf("whois query: %w", res.err)
	}

	p, err := parser.Parse(res.raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("whois parse: %w", err)
	}
	if p.Domain == nil || strings.TrimSpace(p.Domain.CreatedDate) == "" {
		return time.Time{}, errNoRegistrationDate
	}
	return parseRegistryDate(p.Domain.CreatedDate)
}

//
// RESOLVER
//

// AgeResolver answers "how many days ago was this domain registered".
// Every failure is absorbed: the answer is simply unknown (nil).
type AgeResolver struct {
	enabled bool
	source  RegistrationSource
	cache   *AgeCache
	timeout time.Duration
	now     func() time.Time
	log     *logrus.Entry
}

func NewAgeResolver(enabled bool, source RegistrationSource, cache *AgeCache, timeout time.Duration) *AgeResolver {
	if timeout <= 0 {
		timeout = DefaultDomainAgeTimeout
	}
	if cache == nil {
		cache = NewAgeCache(DefaultAgeCacheTTL)
	}
	return &AgeResolver{
		enabled: enabled,
		source:  source,
		cache:   cache,
		timeout: timeout,
		now:     time.Now,
		log:     logrus.WithField("component", "domain-age"),
	}
}

// AgeDays returns the domain's age in whole days, or nil when unknown or
// when lookups are disabled.
func (r *AgeResolver) AgeDays(ctx context.Context, baseDomain string) *int {
	if !r.enabled || r.source == nil {
		return nil
	}
	key := strings.ToLower(baseDomain)
	return r.cache.GetOrFetch(ctx, key, func(ctx context.Context) *int {
		return r.lookup(ctx, key)
	})
}

func (r *AgeResolver) lookup(ctx context.Context, domain string) *int {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	log := r.log.WithFields(logrus.Fields{"domain": domain, "source": r.source.Name()})

	registered, err := r.source.RegisteredAt(ctx, domain)
	if err != nil {
		log.WithError(err).Warn("domain age lookup failed")
		return nil
	}

	days := int(math.Floor(r.now().Sub(registered).Hours() / 24))
	log.WithField("age_days", days).Debug("domain age resolved")
	return &days
}
