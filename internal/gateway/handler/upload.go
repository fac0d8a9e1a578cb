package handler

import (
	"encoding/json"
	"net/http"
)

const maxUploadBytes = 32 << 20

// HandleUpload stores a multipart file upload. The form field is "file";
// extension checking is left to the frontend's accept attribute, matching
// the permissive upload behavior of the UI.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sess, err := h.resolveSession(w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	rec, err := sess.Uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("upload rejected")
		http.Error(w, "upload failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func decodeJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
