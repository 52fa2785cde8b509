package entities

type PaymentRequest struct {
	BookingID int     `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"payment_method"`
	Status    string  `json:"status,omitempty"`
}

type PaymentStatusRequest struct {
	Status string `json:"status"`
}

type RevenueResponse struct {
	BusinessID   int     `json:"business_id"`
	TotalRevenue float64 `json:"total_revenue"`
}
