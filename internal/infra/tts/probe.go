package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// fallbackModels is reported when the server has no usable speaker listing.
var fallbackModels = []string{"xtts_v2", "bark"}

// TestConnection checks liveness with a GET on the server root and then, best effort,
// lists speakers. It never returns an error: failures become a StatusFailed result.
// A missing or broken speaker listing never fails the probe.
func (c *Client) TestConnection(ctx context.Context, opts Options) TestResult {
	start := time.Now()
	base := normalizeURL(opts.ServerURL)

	if err := c.checkLiveness(ctx, base); err != nil {
		return TestResult{
			Status:          StatusFailed,
			LatencyMs:       time.Since(start).Milliseconds(),
			ServerURL:       opts.ServerURL,
			AvailableModels: []string{},
			Message:         err.Error(),
		}
	}

	models := c.listSpeakers(ctx, base)
	if len(models) == 0 {
		models = append([]string(nil), fallbackModels...)
	}
	latency := time.Since(start).Milliseconds()
	return TestResult{
		Status:          StatusOK,
		LatencyMs:       latency,
		ServerURL:       opts.ServerURL,
		AvailableModels: models,
		Message:         fmt.Sprintf("TTS server connected in %dms", latency),
	}
}

func (c *Client) checkLiveness(ctx context.Context, base string) error {
	resp, cancel, err := c.get(ctx, base, c.timeouts.Liveness)
	if err != nil {
		return fmt.Errorf("TTS server unreachable: %w", err)
	}
	defer cancel()
	defer resp.Body.Close() //nolint:errcheck
	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("TTS server returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}

// listSpeakers returns speaker names, or nil when the endpoint is absent or unusable.
func (c *Client) listSpeakers(ctx context.Context, base string) []string {
	resp, cancel, err := c.get(ctx, base+pathSpeakers, c.timeouts.Speakers)
	if err != nil {
		c.logger.DebugContext(ctx, "tts speakers unavailable", "error", err)
		return nil
	}
	defer cancel()
	defer resp.Body.Close() //nolint:errcheck
	if !isSuccess(resp.StatusCode) {
		return nil
	}

	var speakers []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&speakers); err != nil {
		return nil
	}
	names := make([]string, 0, len(speakers))
	for _, s := range speakers {
		name, _ := s["name"].(string)
		names = append(names, orDefault(name, "unknown"))
	}
	return names
}
