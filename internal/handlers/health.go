package handlers

import (
	"net/http"
	"time"

	"github.com/aarogyalekha/hospital-portal/internal/session"
)

// HealthHandler reports the daemon's own liveness. It deliberately does
// not call the coordination API: the portal must stay up while the
// remote side is down.
type HealthHandler struct {
	store session.Store
}

// NewHealthHandler creates the health surface.
func NewHealthHandler(store session.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Health reports overall status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	if _, err := h.store.Snapshot(r.Context()); err != nil {
		response.Services["sessions"] = "unhealthy"
		response.Status = "degraded"
	} else {
		response.Services["sessions"] = "healthy"
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// Ready reports whether the daemon can serve views.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Snapshot(r.Context()); err != nil {
		http.Error(w, "Service not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
