package model

import "time"

type ReservationState string

const (
	StateDraft   ReservationState = "draft"
	StateConfirm ReservationState = "confirm"
	StateCancel  ReservationState = "cancel"
	StateDone    ReservationState = "done"
)

type LineState string

const (
	LineAssigned LineState = "assigned"
	LineConfirm  LineState = "confirm"
	LineDone     LineState = "done"
)

// Active reports whether a line in this state holds its room, which makes
// the room ineligible for overlapping stays.
func (s LineState) Active() bool {
	return s == LineConfirm || s == LineDone
}

// Reservation is the property-system reservation record.
type Reservation struct {
	ID               string            `json:"id,omitempty" bson:"_id,omitempty"`
	ReservationNo    string            `json:"reservation_no" bson:"reservation_no"`
	SiteminderID     string            `json:"siteminder_id" bson:"siteminder_id"`
	CustomerName     string            `json:"customer_name" bson:"customer_name"`
	Email            string            `json:"email,omitempty" bson:"email,omitempty"`
	Phone            string            `json:"phone,omitempty" bson:"phone,omitempty"`
	CheckIn          time.Time         `json:"checkin" bson:"checkin"`
	CheckOut         time.Time         `json:"checkout" bson:"checkout"`
	Adults           int               `json:"adults" bson:"adults"`
	Children         int               `json:"children" bson:"children"`
	State            ReservationState  `json:"state" bson:"state"`
	Payment          PaymentStatus     `json:"payment" bson:"payment"`
	RoomPriceSummary string            `json:"room_price_summary,omitempty" bson:"room_price_summary,omitempty"`
	Referent         string            `json:"reservation_referent" bson:"reservation_referent"`
	Note             string            `json:"customer_note,omitempty" bson:"customer_note,omitempty"`
	Lines            []ReservationLine `json:"reservation_lines" bson:"reservation_lines"`
	CreatedAt        time.Time         `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// ReservationLine binds one physical room to the stay interval.
type ReservationLine struct {
	RoomID         string    `json:"room_id" bson:"room_id"`
	RoomCode       string    `json:"room_code" bson:"room_code"`
	RoomTypeID     string    `json:"room_type_id" bson:"room_type_id"`
	RoomTypeName   string    `json:"room_type_name" bson:"room_type_name"`
	CheckIn        time.Time `json:"checkin" bson:"checkin"`
	CheckOut       time.Time `json:"checkout" bson:"checkout"`
	State          LineState `json:"state" bson:"state"`
	PromotionPrice float64   `json:"promotion_price,omitempty" bson:"promotion_price,omitempty"`
}

// ReconcileResult is what a successful create or update reports back to
// the handler for response rendering and event publishing.
type ReconcileResult struct {
	ReservationID string           `json:"reservation_id"`
	ReservationNo string           `json:"reservation_no"`
	SiteminderID  string           `json:"siteminder_id"`
	CustomerName  string           `json:"customer_name"`
	CheckIn       string           `json:"checkin"`
	CheckOut      string           `json:"checkout"`
	Adults        int              `json:"adults"`
	Children      int              `json:"children"`
	Email         string           `json:"email,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	State         ReservationState `json:"state"`
	Action        string           `json:"action"`
	Message       string           `json:"message"`
}
