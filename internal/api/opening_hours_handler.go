package api

import (
	"encoding/json"
	"net/http"

	"servibook/internal/db"
	"servibook/internal/entities"
	"servibook/internal/repository"
)

type OpeningHoursHandler struct {
	Repo repository.ScheduleRepository
}

func NewOpeningHoursHandler(repo repository.ScheduleRepository) *OpeningHoursHandler {
	return &OpeningHoursHandler{Repo: repo}
}

func (h *OpeningHoursHandler) GetOpeningHours(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid business id", http.StatusBadRequest)
		return
	}
	hours, err := h.Repo.ListOpeningHours(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hours)
}

// PutOpeningHours replaces the whole week in one transaction. Weekdays
// missing from the payload end up closed.
func (h *OpeningHoursHandler) PutOpeningHours(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid business id", http.StatusBadRequest)
		return
	}
	var req entities.OpeningHoursUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	hours := make([]db.OpeningHour, 0, len(req.Hours))
	for _, e := range req.Hours {
		hours = append(hours, db.OpeningHour{
			BusinessID: id,
			Weekday:    e.Weekday,
			OpenTime:   e.OpenTime,
			CloseTime:  e.CloseTime,
		})
	}

	if err := h.Repo.ReplaceOpeningHours(id, hours); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Opening hours updated"})
}
