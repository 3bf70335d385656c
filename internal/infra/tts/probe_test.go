package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestTestConnection_WithSpeakers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`{"version":"0.22"}`)) //nolint:errcheck
		case "/api/tts/speakers":
			w.Write([]byte(`[{"name":"Ana Florence"},{"id":"x"},{"name":"Dadi"}]`)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	res := NewClient().TestConnection(context.Background(), Options{ServerURL: srv.URL})
	if res.Status != StatusOK {
		t.Fatalf("status = %q (%s)", res.Status, res.Message)
	}
	want := []string{"Ana Florence", "unknown", "Dadi"}
	if !reflect.DeepEqual(res.AvailableModels, want) {
		t.Errorf("availableModels = %v; want %v", res.AvailableModels, want)
	}
	if res.ServerURL != srv.URL || res.LatencyMs < 0 {
		t.Errorf("result = %+v", res)
	}
	if !strings.HasPrefix(res.Message, "TTS server connected in ") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestTestConnection_SpeakerListFailure_FallsBack(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
		"not an array": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"speakers":"many"}`)) //nolint:errcheck
		},
		"empty array": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`)) //nolint:errcheck
		},
	}
	for name, speakers := range cases {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/tts/speakers", speakers)
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		srv := httptest.NewServer(mux)

		res := NewClient().TestConnection(context.Background(), Options{ServerURL: srv.URL})
		srv.Close()
		if res.Status != StatusOK {
			t.Errorf("%s: status = %q (%s)", name, res.Status, res.Message)
		}
		if !reflect.DeepEqual(res.AvailableModels, []string{"xtts_v2", "bark"}) {
			t.Errorf("%s: availableModels = %v", name, res.AvailableModels)
		}
	}
}

func TestTestConnection_LivenessNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res := NewClient().TestConnection(context.Background(), Options{ServerURL: srv.URL})
	if res.Status != StatusFailed {
		t.Fatalf("status = %q", res.Status)
	}
	if res.Message != "TTS server returned 502: Bad Gateway" {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.AvailableModels) != 0 {
		t.Errorf("availableModels = %v", res.AvailableModels)
	}
}

func TestTestConnection_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewClient().TestConnection(context.Background(), Options{ServerURL: url})
	if res.Status != StatusFailed || res.Message == "" || res.LatencyMs < 0 {
		t.Fatalf("got %+v", res)
	}
}
