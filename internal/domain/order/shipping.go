package order

import "fmt"

// ShippingInfo is the checkout form. Payment is fixed to cash on delivery.
type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Payment   string `json:"payment"`
}

// ValidationError names the first missing checkout field so the form can be
// corrected and resubmitted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill out %s", e.Field)
}

// Validate checks every required field and normalizes the payment method.
func (s *ShippingInfo) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", s.FirstName},
		{"lastName", s.LastName},
		{"email", s.Email},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"zip", s.Zip},
	}
	for _, f := range required {
		if f.value == "" {
			return &ValidationError{Field: f.name}
		}
	}
	if s.Payment == "" {
		s.Payment = PaymentCOD
	}
	if s.Payment != PaymentCOD {
		return &ValidationError{Field: "payment"}
	}
	return nil
}

// FullName joins the customer's first and last names.
func (s ShippingInfo) FullName() string {
	return s.FirstName + " " + s.LastName
}
