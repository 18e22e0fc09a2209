package handlers

import (
	"net/http"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// CourierHandler serves courier availability and reporting endpoints.
type CourierHandler struct {
	usecase courierUsecase
	logger  logx.Logger
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(logger logx.Logger, uc courierUsecase) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{usecase: uc, logger: logger}
}

func (h *CourierHandler) courierID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier id")
		return 0, false
	}
	return id, true
}

// Online handles POST /couriers/{id}/online.
func (h *CourierHandler) Online(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courierID(w, r)
	if !ok {
		return
	}
	if err := h.usecase.MarkAvailable(r.Context(), id); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Offline handles POST /couriers/{id}/offline.
func (h *CourierHandler) Offline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courierID(w, r)
	if !ok {
		return
	}
	if err := h.usecase.MarkUnavailable(r.Context(), id); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Heartbeat handles POST /couriers/{id}/heartbeat. A courier that is not
// indexed gets indexed=false so the client can go online again.
func (h *CourierHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courierID(w, r)
	if !ok {
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, heartbeatResponse{
		CourierID: id,
		Indexed:   h.usecase.Heartbeat(id),
	})
}

// Stats handles GET /couriers/{id}/stats.
func (h *CourierHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courierID(w, r)
	if !ok {
		return
	}
	s, err := h.usecase.CourierStats(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statsToDTO(s))
}

// Assignments handles GET /couriers/{id}/assignments?status=.
func (h *CourierHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courierID(w, r)
	if !ok {
		return
	}
	var status *domain.AssignmentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.AssignmentStatus(raw)
		if !s.Valid() {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
			return
		}
		status = &s
	}
	list, err := h.usecase.AssignmentsForCourier(r.Context(), id, status)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentsToDTO(list))
}
