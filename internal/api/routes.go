// Route registration and go-chi router setup for the portal API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mukundajmera/AwaazTwin/internal/api/handlers"
	apmiddleware "github.com/mukundajmera/AwaazTwin/internal/api/middleware"
)

// MaxBodyBytes bounds every request body. Clone samples are the largest payload: a 10 MiB
// base64 string plus the JSON around it.
const MaxBodyBytes = 16 << 20

// Deps are the services behind the routes. Archive and StaticDir are optional.
type Deps struct {
	Connectivity handlers.ConnectivityService
	Practice     handlers.PracticeService
	Content      handlers.ContentStore
	Tests        handlers.TestRunner
	Archive      handlers.ArchiveReader
	StaticDir    string
	Logger       *slog.Logger
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apmiddleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(MaxBodyBytes))

	// Health check, used by container probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	r.Route("/api", func(r chi.Router) {
		contentHandler := handlers.NewContentHandler(deps.Content)
		r.Get("/content", contentHandler.ListTopics) // GET /api/content
		r.Get("/content/*", contentHandler.GetTopic) // GET /api/content/{section}/{name}

		conn := handlers.NewConnectivityHandler(deps.Connectivity)
		r.Route("/llm", func(r chi.Router) {
			r.Post("/chat", conn.Chat)               // POST /api/llm/chat
			r.Post("/test-connection", conn.TestLLM) // POST /api/llm/test-connection
		})
		r.Route("/tts", func(r chi.Router) {
			r.Post("/test-connection", conn.TestTTS) // POST /api/tts/test-connection
			r.Post("/speak", conn.Speak)             // POST /api/tts/speak
			r.Post("/clone", conn.Clone)             // POST /api/tts/clone
		})

		practiceHandler := handlers.NewPracticeHandler(deps.Practice)
		r.Route("/practice", func(r chi.Router) {
			r.Get("/templates", practiceHandler.Templates)   // GET /api/practice/templates
			r.Post("/start", practiceHandler.Start)          // POST /api/practice/start
			r.Post("/advance", practiceHandler.Advance)      // POST /api/practice/advance
			r.Post("/finish", practiceHandler.Finish)        // POST /api/practice/finish
			r.Get("/sessions", practiceHandler.Sessions)     // GET /api/practice/sessions
			r.Get("/sessions/{id}", practiceHandler.Session) // GET /api/practice/sessions/{id}
		})

		testsHandler := handlers.NewTestsHandler(deps.Tests)
		r.Route("/tests", func(r chi.Router) {
			r.Get("/suites", testsHandler.Suites) // GET /api/tests/suites
			r.Post("/run", testsHandler.Run)      // POST /api/tests/run
		})

		if deps.Archive != nil {
			archiveHandler := handlers.NewArchiveHandler(deps.Archive)
			r.Get("/archive/recent", archiveHandler.Recent)    // GET /api/archive/recent
			r.Get("/archive/objects/*", archiveHandler.Object) // GET /api/archive/objects/{key}
		}
	})

	// Built portal assets, served last so /api and /health win.
	if deps.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(deps.StaticDir)))
	}

	return r
}
