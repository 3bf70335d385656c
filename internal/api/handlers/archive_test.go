package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mukundajmera/AwaazTwin/internal/domain/archive"
)

type archiveListerStub struct {
	gotLimit int
	err      error
	objects  map[string][]byte
}

func (s *archiveListerStub) Fetch(_ context.Context, key string) (archive.Object, []byte, error) {
	if s.err != nil {
		return archive.Object{}, nil, s.err
	}
	data, ok := s.objects[key]
	if !ok {
		return archive.Object{}, nil, archive.ErrObjectNotFound
	}
	return archive.Object{Key: key, Kind: archive.KindSpeech, ContentType: "audio/wav", SizeBytes: int64(len(data))}, data, nil
}

func (s *archiveListerStub) Recent(_ context.Context, limit int) ([]archive.Object, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []archive.Object{{
		Key: "awaaztwin/speech/2026/03/01/abc.wav", Kind: archive.KindSpeech, RefID: "abc",
		ContentType: "audio/wav", SizeBytes: 4, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}}, nil
}

func TestArchiveHandler_Recent(t *testing.T) {
	cases := []struct {
		query string
		limit int
	}{
		{"", defaultListLimit},
		{"?limit=5", 5},
		{"?limit=0", defaultListLimit},
		{"?limit=abc", defaultListLimit},
		{"?limit=100000", maxListLimit},
	}
	for _, tc := range cases {
		stub := &archiveListerStub{}
		h := NewArchiveHandler(stub)
		rr := httptest.NewRecorder()
		h.Recent(rr, httptest.NewRequest(http.MethodGet, "/api/archive/recent"+tc.query, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tc.query, rr.Code)
		}
		if stub.gotLimit != tc.limit {
			t.Fatalf("%q: expected limit %d, got %d", tc.query, tc.limit, stub.gotLimit)
		}
		if objects, ok := decodeMap(t, rr)["objects"].([]any); !ok || len(objects) != 1 {
			t.Fatalf("%q: unexpected body %s", tc.query, rr.Body.String())
		}
	}
}

func TestArchiveHandler_Recent_Error(t *testing.T) {
	h := NewArchiveHandler(&archiveListerStub{err: errors.New("db closed")})
	rr := httptest.NewRecorder()
	h.Recent(rr, httptest.NewRequest(http.MethodGet, "/api/archive/recent", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestArchiveHandler_Object(t *testing.T) {
	stub := &archiveListerStub{objects: map[string][]byte{"portal/speech/2026/03/01/abc.wav": []byte("RIFF")}}
	h := NewArchiveHandler(stub)
	r := chi.NewRouter()
	r.Get("/api/archive/objects/*", h.Object)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/archive/objects/portal/speech/2026/03/01/abc.wav", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "RIFF" {
		t.Fatalf("expected audio bytes, got %d %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("content type = %q", ct)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/archive/objects/portal/speech/missing.wav", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	body := decodeMap(t, rr)
	if body["error"] != "Archived object not found" || body["key"] != "portal/speech/missing.wav" {
		t.Fatalf("unexpected 404 body: %v", body)
	}

	stub.err = errors.New("s3 down")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/archive/objects/portal/speech/2026/03/01/abc.wav", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
