package validation

import "strings"

// Provider identifiers accepted by the LLM client, in display order.
var providers = []string{"ollama", "llama-cpp", "openai", "azure", "custom"}

// Chat roles accepted in a conversation, in display order.
var chatRoles = []string{"system", "user", "assistant"}

const (
	// MaxAudioBase64Length caps the base64 audio sample accepted for voice cloning (~10 MiB).
	MaxAudioBase64Length = 10 * 1024 * 1024
	// MaxTTSTextLength caps the text accepted for a single speak request.
	MaxTTSTextLength = 10_000

	minTemperature = 0
	maxTemperature = 2
	minMaxTokens   = 1
	maxMaxTokens   = 32768
)

// ProvidersList is the comma-separated provider set, for error messages.
var ProvidersList = strings.Join(providers, ", ")

// ChatRolesList is the comma-separated role set, for error messages.
var ChatRolesList = strings.Join(chatRoles, ", ")

// IsValidProvider reports whether s is exactly one of the supported providers (case-sensitive).
func IsValidProvider(s string) bool {
	return contains(providers, s)
}

// IsValidChatRole reports whether s is a supported chat role.
func IsValidChatRole(s string) bool {
	return contains(chatRoles, s)
}

// IsTemperatureValid reports whether t is a usable sampling temperature.
func IsTemperatureValid(t float64) bool {
	return t >= minTemperature && t <= maxTemperature
}

// IsMaxTokensValid reports whether n is a usable completion budget.
func IsMaxTokensValid(n int) bool {
	return n >= minMaxTokens && n <= maxMaxTokens
}

// RequiresAPIKey reports whether the provider is a hosted API that rejects anonymous calls.
func RequiresAPIKey(provider string) bool {
	return provider == "openai" || provider == "azure"
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
