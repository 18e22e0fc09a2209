package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// DispatchHandler serves order dispatch and lifecycle endpoints.
type DispatchHandler struct {
	usecase dispatchUsecase
	logger  logx.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase) *DispatchHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DispatchHandler{usecase: uc, logger: logger}
}

func (h *DispatchHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

// Assign handles POST /orders/{id}/assign.
func (h *DispatchHandler) Assign(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	res, err := h.usecase.AssignAutomatically(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
}

// AssignTo handles POST /orders/{id}/assign/{courierID}.
func (h *DispatchHandler) AssignTo(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	courierID, err := idFromURL(r, "courierID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier id")
		return
	}
	res, err := h.usecase.AssignToCourier(r.Context(), orderID, courierID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
}

// Accept handles POST /orders/{id}/accept.
func (h *DispatchHandler) Accept(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req courierActionRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	o, err := h.usecase.Accept(r.Context(), orderID, req.CourierID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// Reject handles POST /orders/{id}/reject. The response carries the
// reassignment outcome; a failed re-match is not an error.
func (h *DispatchHandler) Reject(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req rejectRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	res, err := h.usecase.Reject(r.Context(), orderID, req.CourierID, req.Reason)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rejectResultToResponse(res))
}

// AdvanceStatus handles POST /orders/{id}/status.
func (h *DispatchHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	o, err := h.usecase.AdvanceStatus(r.Context(), orderID, req.CourierID, domain.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// Cancel handles POST /orders/{id}/cancel. The body is optional.
func (h *DispatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if r.ContentLength != 0 && !decodeJSON(h.logger, w, r, &req) {
		return
	}
	o, err := h.usecase.Cancel(r.Context(), orderID, req.Reason)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// Assignment handles GET /orders/{id}/assignment.
func (h *DispatchHandler) Assignment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	a, err := h.usecase.GetAssignment(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// History handles GET /orders/{id}/assignments.
func (h *DispatchHandler) History(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	list, err := h.usecase.AssignmentHistory(r.Context(), orderID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentsToDTO(list))
}

// Pending handles GET /orders/pending?area=.
func (h *DispatchHandler) Pending(w http.ResponseWriter, r *http.Request) {
	list, err := h.usecase.PendingOrders(r.Context(), r.URL.Query().Get("area"))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToDTO(list))
}

// Available lists the couriers currently available in the area.
func (h *DispatchHandler) Available(w http.ResponseWriter, r *http.Request) {
	area := chi.URLParam(r, "area")
	ids, err := h.usecase.AvailableCouriers(area)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, availableCouriersResponse{
		ServiceArea: domain.NormalizeArea(area),
		CourierIDs:  ids,
	})
}
