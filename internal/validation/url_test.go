package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateServerURL_RejectsUnparsable(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not a url", "http://", "://missing-scheme", "http://%zz"} {
		err := ValidateServerURL(raw, false)
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateServerURL(%q) = %v; want ErrInvalidURL", raw, err)
		}
	}
}

func TestValidateServerURL_RejectsNonHTTPSchemes(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"ftp://example.com",
		"file:///etc/passwd",
		"gopher://example.com:70",
		"javascript:alert(1)",
		"ws://example.com/socket",
	} {
		for _, production := range []bool{false, true} {
			err := ValidateServerURL(raw, production)
			if !errors.Is(err, ErrUnsupportedScheme) {
				t.Errorf("ValidateServerURL(%q, %v) = %v; want ErrUnsupportedScheme", raw, production, err)
			}
		}
	}
}

func TestValidateServerURL_AcceptsPublicHTTP(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"http://example.com",
		"https://api.openai.com/v1",
		"HTTPS://my-resource.openai.azure.com/",
		"https://8.8.8.8:443",
		"http://172.32.0.1",
	} {
		if err := ValidateServerURL(raw, true); err != nil {
			t.Errorf("ValidateServerURL(%q, true) = %v; want nil", raw, err)
		}
	}
}

var localHosts = []string{
	"http://localhost:11434",
	"http://LOCALHOST",
	"http://127.0.0.1:5002",
	"http://[::1]:8080",
	"http://0.0.0.0",
	"http://10.1.2.3",
	"http://172.16.0.1",
	"http://172.31.255.255",
	"http://192.168.1.10:11434",
	"http://169.254.169.254/latest/meta-data",
}

func TestValidateServerURL_Production_RejectsLocalHosts(t *testing.T) {
	t.Parallel()

	for _, raw := range localHosts {
		err := ValidateServerURL(raw, true)
		if !errors.Is(err, ErrDisallowedHost) {
			t.Errorf("ValidateServerURL(%q, true) = %v; want ErrDisallowedHost", raw, err)
		}
	}
}

func TestValidateServerURL_Development_AllowsLocalHosts(t *testing.T) {
	t.Parallel()

	for _, raw := range localHosts {
		if err := ValidateServerURL(raw, false); err != nil {
			t.Errorf("ValidateServerURL(%q, false) = %v; want nil", raw, err)
		}
	}
}

func TestValidateServerURL_PrivateRangeMessage(t *testing.T) {
	t.Parallel()

	err := ValidateServerURL("http://192.168.0.5", true)
	if err == nil || !strings.Contains(err.Error(), "private IP range") {
		t.Fatalf("expected private range message, got %v", err)
	}
	err = ValidateServerURL("http://localhost", true)
	if err == nil || strings.Contains(err.Error(), "private IP range") {
		t.Fatalf("expected plain loopback message, got %v", err)
	}
}

func TestValidateServerURL_Deterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 3; i++ {
		if err := ValidateServerURL("http://10.0.0.1", true); !errors.Is(err, ErrDisallowedHost) {
			t.Fatalf("run %d: got %v", i, err)
		}
	}
}
