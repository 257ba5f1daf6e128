package vetting

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gateway encodings understood by the unwrapper.
const (
	EncodingPercent    = "percent"
	EncodingProofpoint = "proofpoint"
)

// GatewayConfig describes one link-rewriting service.
type GatewayConfig struct {
	Name     string   `yaml:"name"`
	Hosts    []string `yaml:"hosts"`
	Param    string   `yaml:"param"`
	Encoding string   `yaml:"encoding"`
}

// VendorPattern marks hosts on well known third-party infrastructure.
// RequireExtension limits the match to URLs that look like files.
type VendorPattern struct {
	Pattern          string `yaml:"pattern"`
	Name             string `yaml:"name"`
	RequireExtension bool   `yaml:"require_extension"`
}

type BrandConfig struct {
	Name           string   `yaml:"name"`
	Keywords       []string `yaml:"keywords"`
	AllowedDomains []string `yaml:"allowed_domains"`
}

// Registry holds the static lookup tables used by the pipeline.
// It is built once at startup and never mutated afterwards.
type Registry struct {
	Gateways        []GatewayConfig `yaml:"gateways"`
	VendorAssets    []VendorPattern `yaml:"vendor_assets"`
	AssetExtensions []string        `yaml:"asset_extensions"`
	Brands          []BrandConfig   `yaml:"brands"`
	RiskyTLDs       []string        `yaml:"risky_tlds"`
}

// DefaultRegistry returns the built-in tables.
func DefaultRegistry() *Registry {
	return &Registry{
		Gateways: []GatewayConfig{
			{Name: "SafeLinks", Hosts: []string{"safelinks.protection.outlook.com"}, Param: "url", Encoding: EncodingPercent},
			{Name: "Mimecast", Hosts: []string{"mimecast.com", "mimecast-offshore.com"}, Param: "url", Encoding: EncodingPercent},
			{Name: "Proofpoint", Hosts: []string{"urldefense.proofpoint.com", "urldefense.com"}, Param: "u", Encoding: EncodingProofpoint},
		},
		VendorAssets: []VendorPattern{
			{Pattern: "zendesk.com", Name: "Zendesk"},
			{Pattern: "force.com", Name: "Salesforce"},
			{Pattern: "salesforce.com", Name: "Salesforce"},
			{Pattern: "cloudfront.net", Name: "CloudFront", RequireExtension: true},
		},
		AssetExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".zip", ".svg"},
		Brands: []BrandConfig{
			{
				Name:     "Microsoft",
				Keywords: []string{"microsoft", "office", "outlook", "teams", "azure", "windows"},
				AllowedDomains: []string{
					"microsoft.com",
					"office.com",
					"live.com",
					"microsoftonline.com",
					"office365.com",
					"outlook.com",
					"sharepoint.com",
				},
			},
			{
				Name:     "Google",
				Keywords: []string{"google", "gmail", "drive", "docs", "meet"},
				AllowedDomains: []string{
					"google.com",
					"gmail.com",
					"youtube.com",
					"gstatic.com",
					"googleapis.com",
					"googleusercontent.com",
				},
			},
			{
				Name:           "Amazon",
				Keywords:       []string{"amazon", "aws", "prime"},
				AllowedDomains: []string{"amazon.com", "aws.amazon.com", "amazonaws.com", "awsstatic.com"},
			},
		},
		RiskyTLDs: []string{".xyz", ".top", ".click", ".monster", ".club", ".work", ".info"},
	}
}

// GatewayHosts flattens the host substrings of every gateway, in table order.
func (r *Registry) GatewayHosts() []string {
	var hosts []string
	for _, gw := range r.Gateways {
		hosts = append(hosts, gw.Hosts...)
	}
	return hosts
}

// LoadRegistry reads a YAML registry file. Sections missing from the file
// keep their built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return ParseRegistry(raw)
}

func ParseRegistry(raw []byte) (*Registry, error) {
	var file Registry
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	reg := DefaultRegistry()
	if len(file.Gateways) > 0 {
		reg.Gateways = file.Gateways
	}
	if len(file.VendorAssets) > 0 {
		reg.VendorAssets = file.VendorAssets
	}
	if len(file.AssetExtensions) > 0 {
		reg.AssetExtensions = file.AssetExtensions
	}
	if len(file.Brands) > 0 {
		reg.Brands = file.Brands
	}
	if len(file.RiskyTLDs) > 0 {
		reg.RiskyTLDs = file.RiskyTLDs
	}

	if err := reg.validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) validate() error {
	for i, gw := range r.Gateways {
		if gw.Name == "" {
			return fmt.Errorf("gateway #%d: name is required", i)
		}
		if len(gw.Hosts) == 0 {
			return fmt.Errorf("gateway %s: at least one host is required", gw.Name)
		}
		if gw.Param == "" {
			return fmt.Errorf("gateway %s: param is required", gw.Name)
		}
		if hasBlank(gw.Hosts) {
			return fmt.Errorf("gateway %s: empty host", gw.Name)
		}
		switch gw.Encoding {
		case EncodingPercent, EncodingProofpoint:
		default:
			return fmt.Errorf("gateway %s: unknown encoding %q", gw.Name, gw.Encoding)
		}
	}
	for i, v := range r.VendorAssets {
		if v.Pattern == "" || v.Name == "" {
			return fmt.Errorf("vendor asset #%d: pattern and name are required", i)
		}
	}
	if hasBlank(r.AssetExtensions) {
		return fmt.Errorf("asset_extensions: empty extension")
	}
	for _, b := range r.Brands {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("brand with empty name")
		}
		if hasBlank(b.Keywords) {
			return fmt.Errorf("brand %s: empty keyword", b.Name)
		}
		if hasBlank(b.AllowedDomains) {
			return fmt.Errorf("brand %s: empty allowed domain", b.Name)
		}
	}
	if hasBlank(r.RiskyTLDs) {
		return fmt.Errorf("risky_tlds: empty entry")
	}
	return nil
}

// hasBlank reports whether any entry is empty after trimming. An empty
// substring pattern would match everything.
func hasBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
