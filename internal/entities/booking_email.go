package entities

// BookingEmailData feeds the booking notification templates.
type BookingEmailData struct {
	CustomerName       string
	BookingCode        string
	BusinessName       string
	ServiceName        string
	StartTimeFormatted string
	EndTimeFormatted   string
	Status             string
	CurrentYear        int
}
