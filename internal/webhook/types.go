package webhook

// SecurityConfig holds webhook security settings.
type SecurityConfig struct {
	AuthToken       string   // Twilio auth token for signature verification
	PublicURL       string   // externally visible URL of the webhook endpoint
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute per sender
}
