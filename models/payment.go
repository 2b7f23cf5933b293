package models

// CheckoutHandle is what the embedded payment surface needs to mount the
// provider's hosted UI. The client secret is never persisted.
type CheckoutHandle struct {
	ProviderSessionID string  `json:"-"`
	ClientSecret      string  `json:"clientSecret"`
	AmountDue         float64 `json:"amountDue"`
	Currency          string  `json:"currency"`
}

// CompletedCheckout is the provider-confirmed view of a finished checkout,
// extracted from the webhook event. Amounts are the provider's, in major units.
type CompletedCheckout struct {
	ProviderSessionID string
	AmountPaid        float64
	Currency          string
	PaymentStatus     string
	Metadata          map[string]string
}

// ReminderPayload is the asynq task body for pre-arrival reminders.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	Reference string `json:"reference"`
	CheckIn   string `json:"checkIn"`
}
