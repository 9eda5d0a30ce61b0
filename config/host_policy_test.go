package config

import "testing"

func TestHostPolicyNormalize(t *testing.T) {
	norm := HostPolicyConfig{
		Allow:    []string{"Example.com", "https://cdn.example.com/path", "example.com", " "},
		Disallow: []string{"www.Tracker.io"},
	}.Normalize()
	if len(norm.Allow) != 2 || norm.Allow[0] != "cdn.example.com" || norm.Allow[1] != "example.com" {
		t.Fatalf("unexpected allow list: %#v", norm.Allow)
	}
	if len(norm.Disallow) != 1 || norm.Disallow[0] != "tracker.io" {
		t.Fatalf("unexpected disallow list: %#v", norm.Disallow)
	}
}

func TestHostPolicyValidate(t *testing.T) {
	if err := (HostPolicyConfig{Allow: []string{"a.com"}, Disallow: []string{"b.com"}}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err := (HostPolicyConfig{Allow: []string{"a.com"}, Disallow: []string{"www.A.com"}}).Validate(); err == nil {
		t.Fatalf("expected conflict validation error")
	}
}

func TestHostPolicyPermits(t *testing.T) {
	open := HostPolicyConfig{Disallow: []string{"tracker.io"}}.Normalize()
	restricted := HostPolicyConfig{Allow: []string{"example.com"}, Disallow: []string{"ads.example.com"}}.Normalize()
	tests := []struct {
		name   string
		policy HostPolicyConfig
		host   string
		want   bool
	}{
		{name: "open allows anything", policy: open, host: "news.site", want: true},
		{name: "disallowed host", policy: open, host: "tracker.io", want: false},
		{name: "disallowed subdomain with port", policy: open, host: "px.tracker.io:8443", want: false},
		{name: "suffix is not a subdomain", policy: open, host: "nottracker.io", want: true},
		{name: "allow list hit", policy: restricted, host: "img.example.com", want: true},
		{name: "allow list miss", policy: restricted, host: "other.com", want: false},
		{name: "disallow beats allow", policy: restricted, host: "ads.example.com", want: false},
		{name: "empty host", policy: open, host: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Permits(tt.host); got != tt.want {
				t.Fatalf("Permits(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
