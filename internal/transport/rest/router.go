package rest

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "methodquiz/docs"
	"methodquiz/internal/metrics"
	"methodquiz/internal/quiz"
	"methodquiz/internal/service"
	"methodquiz/internal/transport/rest/handler"
	"methodquiz/internal/transport/rest/middleware"
	"methodquiz/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	SubmissionService *service.SubmissionService
	StudyService      *service.StudyService
	Catalog           quiz.Catalog
	WSHub             *ws.Hub
	RequireAuth       bool
	AllowedOrigins    []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	submissionHandler := handler.NewSubmissionHandler(c.SubmissionService)
	studyHandler := handler.NewStudyHandler(c.StudyService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Catalog, c.RequireAuth)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(metricsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/token", authHandler.IssueToken).Methods("POST", "OPTIONS")
	v1.HandleFunc("/submissions/recent", submissionHandler.Recent).Methods("GET", "OPTIONS")
	v1.HandleFunc("/submissions/{id}", submissionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/studies", studyHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/studies/{index}", studyHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/swagger.json", swaggerDoc).Methods("GET")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/submissions", wsHandler.SubmissionsWS).Methods("GET")

	// Learner routes
	learnerRoutes := v1.NewRoute().Subrouter()
	if c.RequireAuth {
		learnerRoutes.Use(authMW.RequireLearner)
	} else {
		learnerRoutes.Use(authMW.OptionalLearner)
	}
	learnerRoutes.HandleFunc("/submissions", submissionHandler.Submit).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"api document unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	anyOrigin := len(allowed) == 0
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			anyOrigin = true
		}
		set[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case set[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.ObserveRequest(route, r.Method, strconv.Itoa(rec.status), time.Since(start))
	})
}

// statusRecorder captures the response code; Hijack keeps WebSocket upgrades working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}
