package config

import "testing"

func TestHostPolicyNormalize(t *testing.T) {
	cfg := HostPolicyConfig{
		Allow:    []string{"Example.com", "https://news.example.com", "www.example.com"},
		Disallow: []string{"bad.com", "BAD.com", " "},
	}

	norm := cfg.Normalize()
	if len(norm.Allow) != 2 || norm.Allow[0] != "example.com" || norm.Allow[1] != "news.example.com" {
		t.Fatalf("unexpected allow list: %#v", norm.Allow)
	}
	if len(norm.Disallow) != 1 || norm.Disallow[0] != "bad.com" {
		t.Fatalf("unexpected disallow list: %#v", norm.Disallow)
	}
}

func TestHostPolicyValidate(t *testing.T) {
	valid := HostPolicyConfig{Allow: []string{"example.com"}, Disallow: []string{"blocked.com"}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	conflict := HostPolicyConfig{Allow: []string{"example.com"}, Disallow: []string{"WWW.example.com"}}
	if err := conflict.Validate(); err == nil {
		t.Fatalf("expected conflict validation error")
	}
}

func TestHostPolicyPermits(t *testing.T) {
	open := HostPolicyConfig{Disallow: []string{"blocked.com"}}.Normalize()
	if !open.Permits("https://example.com/page") {
		t.Fatalf("expected open policy to permit example.com")
	}
	if open.Permits("http://cdn.blocked.com:8080/x") {
		t.Fatalf("expected subdomain of disallowed host to be rejected")
	}
	if open.Permits("not a url") {
		t.Fatalf("expected url without scheme to be rejected")
	}

	closed := HostPolicyConfig{Allow: []string{"example.com"}}.Normalize()
	if !closed.Permits("https://www.example.com/") {
		t.Fatalf("expected www.example.com to match example.com")
	}
	if closed.Permits("https://other.org/") {
		t.Fatalf("expected other.org to be rejected by allow list")
	}
}
