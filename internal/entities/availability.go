package entities

// SlotOut is one bookable window rendered for the client, HH:MM 24h.
type SlotOut struct {
	StartTime string `json:"start"`
	EndTime   string `json:"end"`
}

// AvailabilityResponse distinguishes "closed that weekday" from "open but
// fully booked": Closed=true with no slots vs Closed=false with an empty
// slot list. Both are 200 responses.
type AvailabilityResponse struct {
	Date            string    `json:"date"`
	ServiceDuration int       `json:"service_duration"`
	Closed          bool      `json:"closed"`
	AvailableSlots  []SlotOut `json:"available_slots"`
}
