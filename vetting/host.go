package vetting

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var errNotAbsolute = errors.New("url must contain scheme and host")

// parseAbsoluteURL accepts only URLs with both a scheme and a host.
func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, errNotAbsolute
	}
	return u, nil
}

// NormalizeHost lowercases a hostname, drops a trailing dot and converts
// IDN labels to their ASCII form. Hosts IDNA rejects are only lowercased.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return strings.ToLower(ascii)
}

// SplitDomain returns the registrable domain (eTLD+1) and public suffix of
// host. Only ICANN suffixes count: privately registered suffixes such as
// cloudfront.net are treated as ordinary domains. Either part is empty when
// it cannot be determined, e.g. for IP literals or bare public suffixes.
func SplitDomain(host string) (registrable, suffix string) {
	host = NormalizeHost(host)
	if host == "" || net.ParseIP(host) != nil {
		return "", ""
	}

	suffix = icannSuffix(host)
	if host == suffix || !strings.HasSuffix(host, "."+suffix) {
		return "", suffix
	}

	rest := strings.TrimSuffix(host, "."+suffix)
	label := rest[strings.LastIndexByte(rest, '.')+1:]
	if label == "" {
		return "", suffix
	}
	return label + "." + suffix, suffix
}

func icannSuffix(host string) string {
	suffix, icann := publicsuffix.PublicSuffix(host)
	for !icann {
		i := strings.IndexByte(suffix, '.')
		if i < 0 {
			break
		}
		suffix, icann = publicsuffix.PublicSuffix(suffix[i+1:])
	}
	return suffix
}

// BaseDomain is the registrable domain of host, or the host itself when
// there is none.
func BaseDomain(host string) string {
	if registrable, _ := SplitDomain(host); registrable != "" {
		return registrable
	}
	return NormalizeHost(host)
}

// TLDOf returns the dotted public suffix of a domain (".co.uk"), or "" if
// it has none.
func TLDOf(domain string) string {
	_, suffix := SplitDomain(domain)
	if suffix == "" {
		return ""
	}
	return "." + suffix
}

func hostOf(rawURL string) (string, error) {
	u, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	return u.Hostname(), nil
}
