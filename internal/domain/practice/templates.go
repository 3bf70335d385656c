package practice

// Phase is one timed step of a practice template.
type Phase struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
}

// RubricItem is one self-scored criterion.
type RubricItem struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	MaxScore    int    `json:"maxScore"`
}

// Template is a built-in design exercise.
type Template struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Category   string       `json:"category"`
	Difficulty string       `json:"difficulty"`
	Summary    string       `json:"summary"`
	Phases     []Phase      `json:"phases"`
	Rubric     []RubricItem `json:"rubric"`
}

// TotalMinutes sums the phase durations.
func (t Template) TotalMinutes() int {
	total := 0
	for _, p := range t.Phases {
		total += p.DurationMinutes
	}
	return total
}

// Templates returns the built-in catalogue in display order. The slice is a copy.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a template; ok is false for unknown ids.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

var templates = []Template{
	{
		ID:         "basic-voice-clone",
		Title:      "Basic Voice Clone Pipeline",
		Category:   "voice-cloning",
		Difficulty: "beginner",
		Summary: "Design a voice cloning pipeline from audio input to generated speech output. " +
			"Cover recording, preprocessing, model selection, and synthesis.",
		Phases: []Phase{
			{"clarify", "Clarify Requirements", "Identify the use case, target quality, latency expectations, and hardware constraints.", 3},
			{"high-level", "High-Level Design", "Outline the end-to-end pipeline: audio capture → preprocessing → model inference → output playback.", 5},
			{"deep-dive", "Deep Dive", "Discuss model choice (XTTS v2 vs Bark), preprocessing (noise reduction, normalization), and CPU vs GPU trade-offs.", 7},
			{"trade-offs", "Trade-offs & Pitfalls", "Address quality vs latency, short vs long reference clips, and handling noisy input audio.", 3},
			{"wrap-up", "Wrap Up", "Summarize the design, note areas for improvement, and identify follow-up topics.", 2},
		},
		Rubric: []RubricItem{
			{"requirements", "Requirements Gathering", "Identified key constraints and use case clearly", 5},
			{"pipeline-design", "Pipeline Design", "End-to-end flow is logical and complete", 5},
			{"model-knowledge", "Model Knowledge", "Demonstrated understanding of voice cloning models", 5},
			{"trade-offs", "Trade-off Analysis", "Discussed realistic trade-offs and mitigations", 5},
		},
	},
	{
		ID:         "tts-pipeline-design",
		Title:      "TTS Service Architecture",
		Category:   "tts-pipeline",
		Difficulty: "intermediate",
		Summary: "Design a scalable text-to-speech service that handles multiple voices, " +
			"supports streaming output, and runs on CPU hardware.",
		Phases: []Phase{
			{"clarify", "Clarify Requirements", "Define throughput targets, voice count, latency SLAs, and deployment constraints (CPU-only, Docker).", 3},
			{"high-level", "High-Level Architecture", "Design the API layer, model serving, voice registry, and audio output pipeline.", 7},
			{"deep-dive", "Deep Dive: Streaming & Queuing", "Detail how streaming synthesis works, job queuing for CPU-bound workloads, and progress reporting.", 7},
			{"trade-offs", "Trade-offs & Edge Cases", "Discuss model loading time, concurrent request handling, and graceful degradation when TTS is slow.", 5},
			{"wrap-up", "Wrap Up", "Summarize architecture decisions and identify future improvements.", 3},
		},
		Rubric: []RubricItem{
			{"requirements", "Requirements Clarity", "Defined clear SLAs and constraints", 5},
			{"architecture", "Architecture Design", "Service components are well-defined and connected", 5},
			{"streaming", "Streaming & Queuing", "Addressed real-time output and job management", 5},
			{"scalability", "Scalability Awareness", "Considered CPU constraints and growth path", 5},
		},
	},
	{
		ID:         "multi-model-architecture",
		Title:      "Multi-Model Voice AI Platform",
		Category:   "architecture",
		Difficulty: "advanced",
		Summary: "Design an AI platform that orchestrates multiple models (LLM + TTS + voice cloning) " +
			"behind a unified API, supporting pluggable backends.",
		Phases: []Phase{
			{"clarify", "Clarify Scope", "Define which AI capabilities to expose, plugin boundaries, and cross-cutting concerns (auth, config, monitoring).", 5},
			{"high-level", "Platform Architecture", "Design the gateway, model registry, pluggable backend abstraction, and configuration management.", 8},
			{"deep-dive-llm", "Deep Dive: LLM Integration", "Detail the LLM client abstraction supporting local (Ollama, llama.cpp) and cloud (OpenAI, Azure) providers.", 7},
			{"deep-dive-tts", "Deep Dive: TTS & Cloning", "Detail the TTS proxy, voice registry, and cloning pipeline integration with the platform.", 7},
			{"trade-offs", "Trade-offs & Evolution", "Discuss CPU vs cloud trade-offs, model versioning, A/B testing of models, and future extensibility.", 5},
			{"wrap-up", "Wrap Up", "Summarize key architecture decisions and present a phased rollout plan.", 3},
		},
		Rubric: []RubricItem{
			{"scope", "Scope Definition", "Clearly bounded the platform capabilities", 5},
			{"abstraction", "Abstraction Design", "Pluggable backend pattern is clean and extensible", 5},
			{"llm-integration", "LLM Integration Depth", "Local and cloud LLM support is well-designed", 5},
			{"tts-integration", "TTS & Cloning Integration", "Voice pipeline is complete and coherent", 5},
			{"evolution", "Evolution & Extensibility", "Clear path for future models and features", 5},
		},
	},
}
