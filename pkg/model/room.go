package model

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomBooked    RoomStatus = "booked"
)

// Room is one physical room in the property inventory. Code is the value
// channel managers send as RoomID on a RoomType element.
type Room struct {
	ID       string     `json:"id,omitempty" bson:"_id,omitempty"`
	Code     string     `json:"code" bson:"code"`
	Name     string     `json:"name" bson:"name"`
	TypeID   string     `json:"type_id" bson:"type_id"`
	TypeName string     `json:"type_name" bson:"type_name"`
	Capacity int        `json:"capacity" bson:"capacity"`
	Status   RoomStatus `json:"status" bson:"status"`
}

// RoomType is a room category (e.g. "Deluxe Double").
type RoomType struct {
	ID   string `json:"id,omitempty" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
	Code string `json:"code" bson:"code"`
}
