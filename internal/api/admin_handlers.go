package api

import (
	"net/http"

	"servibook/internal/service"
)

// AdminHandler serves the business-owner views: unpaid bookings and revenue.
type AdminHandler struct {
	Payments *service.PaymentService
}

func NewAdminHandler(payments *service.PaymentService) *AdminHandler {
	return &AdminHandler{Payments: payments}
}

// ListUnpaidBookings answers both the global and the per-business variant;
// without a business id in the path it spans all businesses.
func (h *AdminHandler) ListUnpaidBookings(w http.ResponseWriter, r *http.Request) {
	businessID := 0
	if _, ok := pathVar(r, "id"); ok {
		id, err := pathID(r, "id")
		if err != nil {
			http.Error(w, "Invalid business id", http.StatusBadRequest)
			return
		}
		businessID = id
	}

	bookings, err := h.Payments.ListUnpaidBookings(businessID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid business id", http.StatusBadRequest)
		return
	}
	revenue, err := h.Payments.TotalRevenue(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revenue)
}
