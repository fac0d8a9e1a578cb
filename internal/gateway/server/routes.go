package server

import (
	"net/http"

	"reviewflow/internal/gateway/handler"
	"reviewflow/internal/gateway/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/submit", h.HandleSubmit)
	mux.HandleFunc("/api/upload", h.HandleUpload)
	mux.HandleFunc("/api/history", h.HandleHistory)
	mux.HandleFunc("/api/watch", h.HandleWatch)
	mux.HandleFunc("/healthz", h.HandleHealthz)

	return middleware.CORS(mux)
}
