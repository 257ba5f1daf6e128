package vetting

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("decoded target is not valid UTF-8")

// GatewayDecoder extracts the wrapped destination from one gateway family.
type GatewayDecoder interface {
	Name() string
	// Matches reports whether the lowercased hostname belongs to the gateway.
	Matches(host string) bool
	// Extract returns the wrapped URL. ok is false when the gateway URL
	// carries no target. A non-nil error aborts the whole unwrap.
	Extract(u *url.URL) (target string, ok bool, err error)
}

// NewGatewayDecoder builds the decoder for a configured gateway.
func NewGatewayDecoder(cfg GatewayConfig) (GatewayDecoder, error) {
	base := hostMatcher{name: cfg.Name, param: cfg.Param}
	for _, h := range cfg.Hosts {
		base.hosts = append(base.hosts, strings.ToLower(h))
	}

	switch cfg.Encoding {
	case EncodingPercent:
		return &percentDecoder{hostMatcher: base}, nil
	case EncodingProofpoint:
		return &proofpointDecoder{hostMatcher: base}, nil
	default:
		return nil, fmt.Errorf("gateway %s: unknown encoding %q", cfg.Name, cfg.Encoding)
	}
}

type hostMatcher struct {
	name  string
	hosts []string
	param string
}

func (m hostMatcher) Name() string { return m.name }

// queryParam returns the first value of key in rawQuery. Pairs are split on
// '&' only, so a raw ';' inside a wrapped target does not hide the pair the
// way url.ParseQuery would. Escapes that fail to decode are kept verbatim.
func queryParam(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if k != key {
			continue
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		return v
	}
	return ""
}

func (m hostMatcher) Matches(host string) bool {
	for _, h := range m.hosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// percentDecoder handles SafeLinks and Mimecast style wrappers, where the
// target is carried percent-encoded in a query parameter.
type percentDecoder struct {
	hostMatcher
}

func (d *percentDecoder) Extract(u *url.URL) (string, bool, error) {
	v := queryParam(u.RawQuery, d.param)
	if v == "" {
		return "", false, nil
	}
	// Query parsing already removed one layer of escaping; gateways often
	// double-encode, so decode once more without turning '+' into spaces.
	target, err := url.PathUnescape(v)
	if err != nil {
		return "", false, fmt.Errorf("%s: decode %s param: %w", d.name, d.param, err)
	}
	if !utf8.ValidString(target) {
		return "", false, fmt.Errorf("%s: decode %s param: %w", d.name, d.param, errInvalidUTF8)
	}
	return target, true, nil
}

// proofpointDecoder handles URL Defense links, which encode '%' as '-' and
// '/' as '_' before percent-encoding the rest.
type proofpointDecoder struct {
	hostMatcher
}

var proofpointReplacer = strings.NewReplacer("-", "%", "_", "/")

func (d *proofpointDecoder) Extract(u *url.URL) (string, bool, error) {
	v := queryParam(u.RawQuery, d.param)
	if v == "" {
		return "", false, nil
	}
	target, err := url.PathUnescape(proofpointReplacer.Replace(v))
	if err != nil || !utf8.ValidString(target) {
		// Not fatal: the current URL becomes the final one.
		return "", false, nil
	}
	return target, true, nil
}
