package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/snakes/pkg/api/handlers"
	"github.com/cbodonnell/snakes/pkg/api/middleware"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port int
	TLS  *TLSConfig
	Game handlers.GameReader
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts.Game),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter returns the API routes, gzip-compressed when the client
// accepts it.
func NewRouter(game handlers.GameReader) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(), middleware.NewCORSMiddleware())
	r.HandleFunc("/scores", handlers.HandleGetScores(game)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/game", handlers.HandleGetGame(game)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/healthz", handlers.HandleHealthz()).Methods(http.MethodGet)
	return gzhttp.GzipHandler(r)
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
