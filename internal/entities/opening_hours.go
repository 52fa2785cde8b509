package entities

// OpeningHourEntry is one weekday's window in an opening-hours replacement.
// Weekday is Monday=1 .. Sunday=7; times are HH:MM. A weekday with no entry
// becomes closed.
type OpeningHourEntry struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"closing_time"`
}

// OpeningHoursUpdateRequest replaces a business's whole week at once; the
// previous rows are dropped, never patched per day.
type OpeningHoursUpdateRequest struct {
	Hours []OpeningHourEntry `json:"hours"`
}
