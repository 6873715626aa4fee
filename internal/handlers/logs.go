package handlers

import (
	"net/http"

	"github.com/crucial707/stockroom/internal/service"
)

type LogHandler struct {
	Logs *service.LogService
}

func (h *LogHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var input service.CreateLogInput
	if !decode(w, r, &input) {
		return
	}

	entry, err := h.Logs.Create(r.Context(), input)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Log created",
		"log":     entry,
	})
}

// ListLogs returns the whole activity log, newest first.
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Logs.List(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
