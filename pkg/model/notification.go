package model

// PaymentStatus is derived from the guarantee/deposit payment percentage
// carried on the inbound notification.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial_paid"
	PaymentNotPaid PaymentStatus = "not_paid"
)

// Rank orders payment statuses so updates can refuse downgrades: channel
// data may move a reservation forward (not_paid -> partial_paid -> paid)
// but never silently backward.
func (p PaymentStatus) Rank() int {
	switch p {
	case PaymentPaid:
		return 2
	case PaymentPartial:
		return 1
	default:
		return 0
	}
}

// Customer is the guest/billing projection of one HotelReservation node.
// Extraction fails soft, so any field may be empty; the validator decides
// which absences are fatal.
type Customer struct {
	Name           string        `validate:"required"`
	Email          string        `validate:"omitempty"`
	Phone          string        `validate:"omitempty,numeric"`
	AmountAfterTax string        `validate:"omitempty"`
	SiteminderID   string        `validate:"required"`
	PaymentStatus  PaymentStatus `validate:"omitempty,oneof=paid partial_paid not_paid"`
}

// Stay is the stay/room projection of one HotelReservation node.
type Stay struct {
	CheckIn      string            `validate:"required"`
	CheckOut     string            `validate:"required"`
	Adults       int               `validate:"min=1"`
	Children     int               `validate:"min=0"`
	RoomTypes    []RoomTypeRequest `validate:"omitempty,dive"`
	SiteminderID string            `validate:"omitempty"`
}

// RoomTypeRequest is one requested room line from the RoomTypes block.
// RoomCode identifies the physical room, TypeName the room category.
type RoomTypeRequest struct {
	TypeCode    string `validate:"omitempty"`
	TypeName    string `validate:"omitempty"`
	RoomCode    string `validate:"omitempty"`
	Description string `validate:"omitempty"`
}

// Warning is a structured non-fatal finding attached to a successful
// reconciliation, rendered as a <Warning Type Code> element.
type Warning struct {
	Type    string
	Code    string
	Message string
}
