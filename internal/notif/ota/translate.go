package ota

import (
	apperrors "otabridge/pkg/errors"
)

// ExtractReservation descends the fixed envelope path and returns the
// first HotelReservation node. Notifications batching several
// reservations are truncated to the first; the rest are ignored.
func ExtractReservation(doc Document) (Node, error) {
	body := doc.Root().
		Child("Envelope").
		Child("Body")

	otaRequest := body.Child("OTA_HotelResNotifRQ")
	if otaRequest.Empty() {
		return nil, apperrors.Validation("No OTA_HotelResNotifRQ found in XML")
	}

	reservations := otaRequest.Child("HotelReservations").Children("HotelReservation")
	if len(reservations) == 0 {
		return nil, apperrors.Validation("No hotel reservations found in XML")
	}

	return reservations[0], nil
}

// RequestEchoToken returns the EchoToken attribute of the OTA request
// element, or "" when the path or attribute is missing.
func RequestEchoToken(doc Document) string {
	return doc.Root().
		Child("Envelope").
		Child("Body").
		Child("OTA_HotelResNotifRQ").
		Attr("EchoToken")
}
