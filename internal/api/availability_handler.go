package api

import (
	"net/http"
	"strconv"

	"servibook/internal/service"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	Service *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetAvailableSlots answers GET /businesses/{businessID}/services/{serviceID}/available-slots?date=YYYY-MM-DD.
// A closed weekday is a normal 200 with closed=true, not an error.
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.Atoi(vars["businessID"])
	if err != nil {
		http.Error(w, "Invalid business id", http.StatusBadRequest)
		return
	}
	serviceID, err := strconv.Atoi(vars["serviceID"])
	if err != nil {
		http.Error(w, "Invalid service id", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")

	resp, err := h.Service.AvailableSlots(businessID, serviceID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
