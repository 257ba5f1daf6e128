package vetting

import "testing"

func TestSplitDomain(t *testing.T) {
	tests := []struct {
		host        string
		registrable string
		suffix      string
	}{
		{"example.com", "example.com", "com"},
		{"Sub.Example.COM", "example.com", "com"},
		{"www.example.co.uk", "example.co.uk", "co.uk"},
		{"login.micros0ft-support.xyz", "micros0ft-support.xyz", "xyz"},
		{"d111abcdef8.cloudfront.net", "cloudfront.net", "net"},
		{"myblog.blogspot.co.uk", "blogspot.co.uk", "co.uk"},
		{"example.com.", "example.com", "com"},
		{"co.uk", "", "co.uk"},
		{"localhost", "", "localhost"},
		{"203.0.113.5", "", ""},
		{"2001:db8::1", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			registrable, suffix := SplitDomain(tt.host)
			if registrable != tt.registrable || suffix != tt.suffix {
				t.Errorf("SplitDomain(%q) = (%q, %q), want (%q, %q)",
					tt.host, registrable, suffix, tt.registrable, tt.suffix)
			}
		})
	}
}

func TestBaseDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"foo.example.com", "example.com"},
		{"localhost", "localhost"},
		{"203.0.113.5", "203.0.113.5"},
		{"BÜCHER.example", "xn--bcher-kva.example"},
	}

	for _, tt := range tests {
		if got := BaseDomain(tt.host); got != tt.want {
			t.Errorf("BaseDomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestTLDOf(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"example.com", ".com"},
		{"example.co.uk", ".co.uk"},
		{"evil.XYZ", ".xyz"},
		{"203.0.113.5", ""},
	}

	for _, tt := range tests {
		if got := TLDOf(tt.domain); got != tt.want {
			t.Errorf("TLDOf(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}
