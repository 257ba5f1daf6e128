package vetting

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		href     string
		gateway  bool
		vendor   bool
		wantFlag []string
	}{
		{
			name:     "safelinks gateway",
			host:     "eur01.safelinks.protection.outlook.com",
			href:     "https://eur01.safelinks.protection.outlook.com/?url=x",
			gateway:  true,
			wantFlag: []string{},
		},
		{
			name:     "proofpoint gateway mixed case",
			host:     "URLDefense.Proofpoint.com",
			href:     "https://URLDefense.Proofpoint.com/v2/url",
			gateway:  true,
			wantFlag: []string{},
		},
		{
			name:     "zendesk",
			host:     "acme.zendesk.com",
			href:     "https://acme.zendesk.com/hc/en-us",
			vendor:   true,
			wantFlag: []string{"Zendesk asset"},
		},
		{
			name:     "salesforce via force.com",
			host:     "acme.my.salesforce.com",
			href:     "https://acme.my.salesforce.com/",
			vendor:   true,
			wantFlag: []string{"Salesforce asset"},
		},
		{
			name:     "salesforce sites",
			host:     "acme.force.com",
			href:     "https://acme.force.com/login",
			vendor:   true,
			wantFlag: []string{"Salesforce asset"},
		},
		{
			name:     "cloudfront file",
			host:     "d111abcdef8.cloudfront.net",
			href:     "https://d111abcdef8.cloudfront.net/images/Logo.PNG",
			vendor:   true,
			wantFlag: []string{"CloudFront asset"},
		},
		{
			name:     "cloudfront page",
			host:     "d111abcdef8.cloudfront.net",
			href:     "https://d111abcdef8.cloudfront.net/login",
			wantFlag: []string{},
		},
		{
			name:     "unrelated host",
			host:     "example.com",
			href:     "https://example.com/a.png",
			wantFlag: []string{},
		},
	}

	c := NewClassifier(DefaultRegistry())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.host, tt.href)
			if got.IsGateway != tt.gateway {
				t.Errorf("IsGateway = %v, want %v", got.IsGateway, tt.gateway)
			}
			if got.IsVendorAsset != tt.vendor {
				t.Errorf("IsVendorAsset = %v, want %v", got.IsVendorAsset, tt.vendor)
			}
			if !reflect.DeepEqual(got.Flags, tt.wantFlag) {
				t.Errorf("Flags = %v, want %v", got.Flags, tt.wantFlag)
			}
		})
	}
}

func TestClassify_FirstVendorHitEndsScan(t *testing.T) {
	reg := DefaultRegistry()
	reg.VendorAssets = []VendorPattern{
		{Pattern: "cloudfront.net", Name: "CloudFront", RequireExtension: true},
		{Pattern: "assets.cloudfront.net", Name: "Assets"},
	}
	c := NewClassifier(reg)

	got := c.Classify("assets.cloudfront.net", "https://assets.cloudfront.net/login")
	if got.IsVendorAsset {
		t.Fatalf("IsVendorAsset = true, want false: later patterns must not be tried")
	}
	if len(got.Flags) != 0 {
		t.Fatalf("Flags = %v, want none", got.Flags)
	}
}
