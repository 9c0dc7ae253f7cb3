package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// whatsappWebhookPath is the route Twilio posts inbound messages to. The
// signature check hashes the full public URL, so the detected tunnel URL
// must carry the exact path Twilio was configured with.
const whatsappWebhookPath = "/webhook/whatsapp"

const (
	ngrokDetectAttempts = 10
	ngrokDetectInterval = 3 * time.Second
)

type ngrokTunnelList struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	} `json:"tunnels"`
}

// detectWebhookPublicURL asks the local ngrok agent for its public tunnel
// URL and returns the full WhatsApp webhook URL behind it. In development
// the tunnel fronts the service, so webhook.public_url can stay unset.
// Retries cover the window where ngrok is still establishing the tunnel.
func detectWebhookPublicURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= ngrokDetectAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ngrokDetectInterval):
			}
		}

		tunnelURL, err := queryNgrokTunnel(ctx, client, ngrokAPIBase)
		if err != nil {
			lastErr = err
			continue
		}
		return tunnelURL + whatsappWebhookPath, nil
	}

	return "", fmt.Errorf("no ngrok tunnel after %d attempts: %w", ngrokDetectAttempts, lastErr)
}

func queryNgrokTunnel(ctx context.Context, client *http.Client, apiBase string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/api/tunnels", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ngrok API not reachable: %w", err)
	}
	defer resp.Body.Close()

	var list ngrokTunnelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	// Twilio requires HTTPS; fall back to whatever tunnel exists.
	for _, t := range list.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(list.Tunnels) > 0 {
		return list.Tunnels[0].PublicURL, nil
	}
	return "", fmt.Errorf("ngrok has no active tunnels")
}
