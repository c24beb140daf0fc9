package domain

// BookingDetails decorates a booking with the names shown on dashboards.
type BookingDetails struct {
	Booking
	PropertyTitle string `json:"property_title"`
	GuestName     string `json:"guest_name"`
}

// RatingSummary aggregates the reviews of one property.
type RatingSummary struct {
	PropertyID string  `json:"property_id"`
	Count      int     `json:"count"`
	Average    float64 `json:"average"`
}
