// Package handler exposes the submission core over HTTP: JSON endpoints
// for submit/upload/history and a websocket for live turns and
// notifications. Rendering stays with the frontend; handlers only move
// data.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"reviewflow/internal/session"
)

type Handler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

func New(sessions *session.Manager, log zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, log: log}
}

// resolveSession finds or creates the caller's session from the cookie
// and makes sure the cookie is set on the response.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	var id string
	if c, err := r.Cookie(session.CookieName); err == nil {
		id = c.Value
	}
	sess, err := h.sessions.GetOrCreate(id)
	if err != nil {
		return nil, err
	}
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
