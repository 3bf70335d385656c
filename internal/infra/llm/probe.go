package llm

import (
	"context"
	"fmt"
	"time"
)

const (
	probePrompt      = "Respond with exactly: ok"
	probeMaxTokens   = 16
	probeTemperature = 0
)

// TestConnection sends one tiny chat completion and reports latency.
// It never returns an error: every failure becomes a StatusError result carrying the error text.
func (c *Client) TestConnection(ctx context.Context, opts Options) TestResult {
	start := time.Now()

	probeOpts := opts
	probeOpts.MaxTokens = IntPtr(probeMaxTokens)
	probeOpts.Temperature = Float64Ptr(probeTemperature)

	res, err := c.ChatCompletion(ctx, []Message{{Role: "user", Content: probePrompt}}, probeOpts)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return TestResult{
			Status:    StatusError,
			LatencyMs: latency,
			Model:     opts.Model,
			Message:   err.Error(),
		}
	}
	return TestResult{
		Status:    StatusOK,
		LatencyMs: latency,
		Model:     res.Model,
		Message:   fmt.Sprintf("Connected - model responded in %dms", latency),
	}
}
