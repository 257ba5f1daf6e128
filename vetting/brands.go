package vetting

import "strings"

// BrandMatcher finds brand mentions in free text and checks whether a
// domain is one the brand actually uses.
type BrandMatcher struct {
	brands []BrandConfig
	byName map[string]BrandConfig
}

func NewBrandMatcher(reg *Registry) *BrandMatcher {
	m := &BrandMatcher{byName: make(map[string]BrandConfig, len(reg.Brands))}
	for _, b := range reg.Brands {
		norm := BrandConfig{Name: b.Name}
		for _, k := range b.Keywords {
			norm.Keywords = append(norm.Keywords, strings.ToLower(k))
		}
		for _, d := range b.AllowedDomains {
			norm.AllowedDomains = append(norm.AllowedDomains, strings.ToLower(d))
		}
		m.brands = append(m.brands, norm)
		if _, dup := m.byName[norm.Name]; !dup {
			m.byName[norm.Name] = norm
		}
	}
	return m
}

// DetectBrands returns the brands mentioned in text, in registry order,
// without duplicates.
func (m *BrandMatcher) DetectBrands(text string) []string {
	detected := []string{}
	if text == "" {
		return detected
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for _, b := range m.brands {
		for _, k := range b.Keywords {
			if !strings.Contains(lower, k) {
				continue
			}
			if _, ok := seen[b.Name]; !ok {
				seen[b.Name] = struct{}{}
				detected = append(detected, b.Name)
			}
			break
		}
	}
	return detected
}

// IsBrandAllowedDomain reports whether baseDomain equals, or is a subdomain
// of, one of the brand's domains. Unknown brands are always allowed.
func (m *BrandMatcher) IsBrandAllowedDomain(brand, baseDomain string) bool {
	b, ok := m.byName[brand]
	if !ok {
		return true
	}

	lower := strings.ToLower(baseDomain)
	for _, allowed := range b.AllowedDomains {
		if lower == allowed || strings.HasSuffix(lower, "."+allowed) {
			return true
		}
	}
	return false
}

// BrandMismatch reports whether text names a brand that baseDomain does not
// belong to.
func (m *BrandMatcher) BrandMismatch(text, baseDomain string) bool {
	for _, brand := range m.DetectBrands(text) {
		if !m.IsBrandAllowedDomain(brand, baseDomain) {
			return true
		}
	}
	return false
}
