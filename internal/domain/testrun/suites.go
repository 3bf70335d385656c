package testrun

// Suite is one runnable test suite of the portal repository.
type Suite struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	Description              string `json:"description"`
	Command                  string `json:"command"`
	EstimatedDuration        string `json:"estimatedDuration"`
	RequiresExternalServices bool   `json:"requiresExternalServices"`
	ComingSoon               bool   `json:"comingSoon,omitempty"`
}

// DefaultSuites is the built-in catalogue in display order.
func DefaultSuites() []Suite {
	return []Suite{
		{
			ID:                "smoke",
			Name:              "Smoke UI Tests",
			Description:       "Basic navigation and page loading",
			Command:           "npx playwright test e2e/portal-smoke.spec.ts",
			EstimatedDuration: "~10s",
		},
		{
			ID:                "api",
			Name:              "API Tests",
			Description:       "Route handler unit tests",
			Command:           "npx vitest run --reporter=verbose tests/api",
			EstimatedDuration: "~5s",
		},
		{
			ID:                       "llm-integration",
			Name:                     "LLM Integration Tests",
			Description:              "LLM backend connectivity and response tests",
			Command:                  "npx vitest run --reporter=verbose tests/integration/llm",
			EstimatedDuration:        "~30s",
			RequiresExternalServices: true,
			ComingSoon:               true,
		},
		{
			ID:                       "tts-integration",
			Name:                     "TTS Integration Tests",
			Description:              "TTS server connectivity and audio generation tests",
			Command:                  "npx vitest run --reporter=verbose tests/integration/tts",
			EstimatedDuration:        "~1min",
			RequiresExternalServices: true,
			ComingSoon:               true,
		},
		{
			ID:                "practice-flow",
			Name:              "Practice Flow E2E",
			Description:       "Full practice session flow",
			Command:           "npx playwright test e2e/practice-flow.spec.ts",
			EstimatedDuration: "~30s",
		},
	}
}
