package ota

import (
	"strconv"

	"otabridge/pkg/model"
)

// OTA age qualifying codes. 10 and 1 count as adults, 8, 7 and 2 as
// children; unknown codes count as adults.
var childAgeCodes = map[string]bool{
	"8": true,
	"7": true,
	"2": true,
}

// ExtractStay normalizes the first RoomStay block. Returns nil when the
// room-stays collection is absent or malformed; that is the soft-failure
// contract shared with ExtractCustomer.
func ExtractStay(reservation Node) *model.Stay {
	stays := reservation.Child("RoomStays").Children("RoomStay")
	if len(stays) == 0 {
		return nil
	}
	first := stays[0]

	span := first.Child("TimeSpan")

	adults, children := countGuests(first.Child("GuestCounts").Children("GuestCount"))

	return &model.Stay{
		CheckIn:   span.Attr("Start"),
		CheckOut:  span.Attr("End"),
		Adults:    adults,
		Children:  children,
		RoomTypes: extractRoomTypes(first.Child("RoomTypes").Children("RoomType")),
	}
}

func countGuests(counts []Node) (adults, children int) {
	for _, gc := range counts {
		count := 1
		if raw := gc.Attr("Count"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				count = parsed
			}
		}

		if childAgeCodes[gc.Attr("AgeQualifyingCode")] {
			children += count
		} else {
			adults += count
		}
	}

	// A stay always has at least one adult on record.
	if adults == 0 {
		adults = 1
	}
	return adults, children
}

func extractRoomTypes(nodes []Node) []model.RoomTypeRequest {
	roomTypes := make([]model.RoomTypeRequest, 0, len(nodes))
	for _, rt := range nodes {
		roomTypes = append(roomTypes, model.RoomTypeRequest{
			TypeCode:    rt.Attr("RoomTypeCode"),
			TypeName:    rt.Attr("RoomType"),
			RoomCode:    rt.Attr("RoomID"),
			Description: rt.Child("RoomDescription").Text("Text"),
		})
	}
	return roomTypes
}
