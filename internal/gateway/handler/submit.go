package handler

import (
	"net/http"
)

type submitRequest struct {
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

type submitResponse struct {
	Accepted bool `json:"accepted"`
}

// HandleSubmit applies the request fields to the session's pending input
// and asks the orchestrator to submit. A rejected submission (empty
// input, or one already in flight) answers accepted=false with 200 — it
// mirrors the disabled submit button, not an error.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in submitRequest
	if err := decodeJSONBody(r, &in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	sess, err := h.resolveSession(w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	sess.Orchestrator.SetURL(in.URL)
	sess.Orchestrator.SetNotes(in.Notes)
	accepted := sess.Orchestrator.Submit()
	writeJSON(w, http.StatusOK, submitResponse{Accepted: accepted})
}

type historyResponse struct {
	Turns []turnView `json:"turns"`
}

type turnView struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Seq     int64  `json:"seq"`
	At      string `json:"at"`
}

// HandleHistory returns the conversation snapshot for rendering.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, err := h.resolveSession(w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	snapshot := sess.History.Snapshot()
	out := historyResponse{Turns: make([]turnView, 0, len(snapshot))}
	for _, t := range snapshot {
		out.Turns = append(out.Turns, turnView{
			Role:    string(t.Role),
			Content: t.Content,
			Seq:     t.Seq,
			At:      t.At.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
