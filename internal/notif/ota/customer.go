package ota

import (
	"strconv"

	"otabridge/pkg/model"
	"otabridge/pkg/sanitizer"
)

// ExtractCustomer projects guest and billing data out of one
// HotelReservation node. Every lookup defaults to empty; the validator
// decides downstream which absences are fatal.
func ExtractCustomer(reservation Node) model.Customer {
	globalInfo := reservation.Child("ResGlobalInfo")
	customer := primaryProfile(globalInfo.Child("Profiles")).Child("Customer")

	person := customer.Child("PersonName")
	name := sanitizer.NormalizeGuestName(person.Text("GivenName"), person.Text("Surname"))

	phone := sanitizer.Digits(customer.Child("Telephone").Attr("PhoneNumber"))
	email := customer.Text("Email")

	amount := globalInfo.Child("Total").Attr("AmountAfterTax")
	if amount == "" {
		amount = "0"
	}

	siteminderID := globalInfo.
		Child("HotelReservationIDs").
		Child("HotelReservationID").
		Attr("ResID_Value")

	return model.Customer{
		Name:           name,
		Email:          email,
		Phone:          phone,
		AmountAfterTax: amount,
		SiteminderID:   siteminderID,
		PaymentStatus:  paymentStatus(globalInfo),
	}
}

// primaryProfile picks the profile explicitly typed as the primary
// customer profile (ProfileType 1) when several are present, else the
// first one.
func primaryProfile(profiles Node) Node {
	infos := profiles.Children("ProfileInfo")
	if len(infos) == 0 {
		return Node{}
	}

	for _, info := range infos {
		profile := info.Child("Profile")
		if profile.Attr("ProfileType") == "1" {
			return profile
		}
	}
	return infos[0].Child("Profile")
}

// paymentStatus derives the payment state from the guarantee payment
// percentage: exactly 100 means paid, anything strictly between 0 and
// 100 means partially paid, everything else (absent, zero, unparseable)
// means not paid.
func paymentStatus(globalInfo Node) model.PaymentStatus {
	percent := globalInfo.
		Child("DepositPayments").
		Child("GuaranteePayment").
		Child("AmountPercent").
		Attr("Percent")
	if percent == "" {
		return model.PaymentNotPaid
	}

	value, err := strconv.ParseFloat(percent, 64)
	if err != nil {
		return model.PaymentNotPaid
	}

	switch {
	case value == 100:
		return model.PaymentPaid
	case value > 0 && value < 100:
		return model.PaymentPartial
	default:
		return model.PaymentNotPaid
	}
}
