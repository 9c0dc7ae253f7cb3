package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
)

// signTwilio computes the signature Twilio would attach for the given
// URL and form values.
func signTwilio(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var payload strings.Builder
	payload.WriteString(requestURL)
	for _, k := range keys {
		for _, val := range form[k] {
			payload.WriteString(k)
			payload.WriteString(val)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(payload.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateTwilioSignature(t *testing.T) {
	const authToken = "test-auth-token"
	const requestURL = "https://example.com/webhook/whatsapp"

	form := url.Values{
		"From": {"whatsapp:+14155551234"},
		"To":   {"whatsapp:+14155550000"},
		"Body": {"How many tracks are there?"},
	}

	v := NewSecurityValidator(SecurityConfig{AuthToken: authToken})

	t.Run("valid signature", func(t *testing.T) {
		sig := signTwilio(authToken, requestURL, form)
		if err := v.ValidateTwilioSignature(requestURL, form, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		sig := signTwilio("other-token", requestURL, form)
		if err := v.ValidateTwilioSignature(requestURL, form, sig); err == nil {
			t.Fatal("expected signature verification to fail")
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signTwilio(authToken, requestURL, form)
		tampered := url.Values{}
		for k, vals := range form {
			tampered[k] = vals
		}
		tampered.Set("Body", "DROP TABLE customers")
		if err := v.ValidateTwilioSignature(requestURL, tampered, sig); err == nil {
			t.Fatal("expected signature verification to fail on a tampered body")
		}
	})

	t.Run("wrong URL", func(t *testing.T) {
		sig := signTwilio(authToken, requestURL, form)
		if err := v.ValidateTwilioSignature("https://evil.example.com/webhook/whatsapp", form, sig); err == nil {
			t.Fatal("expected signature verification to fail on a different URL")
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		if err := v.ValidateTwilioSignature(requestURL, form, ""); err == nil {
			t.Fatal("expected an error for a missing signature")
		}
	})

	t.Run("garbage signature encoding", func(t *testing.T) {
		if err := v.ValidateTwilioSignature(requestURL, form, "%%%not-base64%%%"); err == nil {
			t.Fatal("expected an error for invalid base64")
		}
	})

	t.Run("unconfigured token", func(t *testing.T) {
		empty := NewSecurityValidator(SecurityConfig{})
		sig := signTwilio(authToken, requestURL, form)
		if err := empty.ValidateTwilioSignature(requestURL, form, sig); err == nil {
			t.Fatal("expected an error when no auth token is configured")
		}
	})
}

func TestValidateIPAddress(t *testing.T) {
	t.Run("no restriction", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{})
		r := httptest.NewRequest("POST", "/webhook/whatsapp", nil)
		r.RemoteAddr = "198.51.100.7:1234"
		if err := v.ValidateIPAddress(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("exact match", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{AllowedIPs: []string{"198.51.100.7"}})
		r := httptest.NewRequest("POST", "/webhook/whatsapp", nil)
		r.RemoteAddr = "198.51.100.7:1234"
		if err := v.ValidateIPAddress(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("CIDR match", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{AllowedIPs: []string{"198.51.100.0/24"}})
		r := httptest.NewRequest("POST", "/webhook/whatsapp", nil)
		r.RemoteAddr = "198.51.100.42:1234"
		if err := v.ValidateIPAddress(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("not whitelisted", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{AllowedIPs: []string{"198.51.100.0/24"}})
		r := httptest.NewRequest("POST", "/webhook/whatsapp", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		if err := v.ValidateIPAddress(r); err == nil {
			t.Fatal("expected rejection")
		}
	})

	t.Run("X-Forwarded-For wins", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{AllowedIPs: []string{"198.51.100.7"}})
		r := httptest.NewRequest("POST", "/webhook/whatsapp", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
		if err := v.ValidateIPAddress(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCheckRateLimit(t *testing.T) {
	// 60 per minute gives a burst of 6.
	v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 60})

	allowed := 0
	for i := 0; i < 20; i++ {
		if err := v.CheckRateLimit("whatsapp:+14155551234"); err == nil {
			allowed++
		}
	}
	if allowed == 0 || allowed == 20 {
		t.Errorf("expected the burst to allow some and then throttle, allowed %d of 20", allowed)
	}

	// A different sender has an independent budget.
	if err := v.CheckRateLimit("whatsapp:+14155559999"); err != nil {
		t.Errorf("unexpected error for an unrelated sender: %v", err)
	}
}
