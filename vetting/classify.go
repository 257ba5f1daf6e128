package vetting

import "strings"

// HostClassification tags a host as gateway and/or vendor-hosted asset.
type HostClassification struct {
	IsGateway     bool     `json:"isGateway"`
	IsVendorAsset bool     `json:"isVendorAsset"`
	Flags         []string `json:"flags"`
}

// Classifier matches hostnames against gateway and vendor-asset substrings.
type Classifier struct {
	gatewayHosts []string
	vendors      []VendorPattern
	extensions   []string
}

func NewClassifier(reg *Registry) *Classifier {
	c := &Classifier{}
	for _, h := range reg.GatewayHosts() {
		c.gatewayHosts = append(c.gatewayHosts, strings.ToLower(h))
	}
	for _, v := range reg.VendorAssets {
		v.Pattern = strings.ToLower(v.Pattern)
		c.vendors = append(c.vendors, v)
	}
	for _, ext := range reg.AssetExtensions {
		c.extensions = append(c.extensions, strings.ToLower(ext))
	}
	return c
}

// Classify inspects hostname and, for file-only vendors, the full URL.
func (c *Classifier) Classify(hostname, fullHref string) HostClassification {
	lower := strings.ToLower(hostname)
	res := HostClassification{Flags: []string{}}

	for _, gw := range c.gatewayHosts {
		if strings.Contains(lower, gw) {
			res.IsGateway = true
			break
		}
	}

	// Only the first vendor pattern that hits the host is considered, even
	// when its extension requirement then fails.
	for _, v := range c.vendors {
		if !strings.Contains(lower, v.Pattern) {
			continue
		}
		if !v.RequireExtension || c.looksLikeFile(fullHref) {
			res.IsVendorAsset = true
			res.Flags = append(res.Flags, v.Name+" asset")
		}
		break
	}

	return res
}

func (c *Classifier) looksLikeFile(href string) bool {
	href = strings.ToLower(href)
	for _, ext := range c.extensions {
		if strings.Contains(href, ext) {
			return true
		}
	}
	return false
}
