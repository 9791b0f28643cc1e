package response

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otabridge/internal/notif/ota"
	apperrors "otabridge/pkg/errors"
	"otabridge/pkg/model"
)

func fixedBuilder() *Builder {
	b := NewBuilder()
	b.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	}
	return b
}

func parseResponse(t *testing.T, body string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(body))

	root := doc.Root()
	require.NotNil(t, root)
	require.Equal(t, "Envelope", root.Tag)

	body1 := root.ChildElements()
	require.Len(t, body1, 1)
	require.Equal(t, "Body", body1[0].Tag)

	rs := body1[0].ChildElements()
	require.Len(t, rs, 1)
	require.Equal(t, "OTA_HotelResNotifRS", rs[0].Tag)
	return rs[0]
}

func sampleResult() *model.ReconcileResult {
	return &model.ReconcileResult{
		ReservationNo: "R/00042",
		SiteminderID:  "SM-1",
		State:         model.StateConfirm,
	}
}

func TestSuccess_Envelope(t *testing.T) {
	body := fixedBuilder().Success(sampleResult(), "echo-1")
	rs := parseResponse(t, body)

	assert.Equal(t, "echo-1", rs.SelectAttrValue("EchoToken", ""))
	assert.Equal(t, "1.0", rs.SelectAttrValue("Version", ""))
	assert.Equal(t, "2026-09-01T12:30:00Z", rs.SelectAttrValue("TimeStamp", ""))

	require.NotNil(t, rs.FindElement("Success"))
	assert.Nil(t, rs.FindElement("Errors"))
	assert.Nil(t, rs.FindElement("Warnings"))

	uniqueID := rs.FindElement("HotelReservations/HotelReservation/UniqueID")
	require.NotNil(t, uniqueID)
	assert.Equal(t, "R/00042", uniqueID.SelectAttrValue("ID", ""))

	resID := rs.FindElement("HotelReservations/HotelReservation/ResGlobalInfo/HotelReservationIDs/HotelReservationID")
	require.NotNil(t, resID)
	assert.Equal(t, "10", resID.SelectAttrValue("ResID_Type", ""))
	assert.Equal(t, "R/00042", resID.SelectAttrValue("ResID_Value", ""))
}

func TestSuccessWithWarnings(t *testing.T) {
	warnings := []model.Warning{
		{Type: "10", Code: "321", Message: "Guest email address is required"},
		{Type: "10", Code: "322", Message: "Guest phone number is recommended"},
		{Type: "10", Code: "323", Message: "Total amount information is missing"},
	}

	body := fixedBuilder().SuccessWithWarnings(sampleResult(), "echo-2", warnings)
	rs := parseResponse(t, body)

	require.NotNil(t, rs.FindElement("Success"))

	elements := rs.FindElements("Warnings/Warning")
	require.Len(t, elements, 3)
	assert.Equal(t, "321", elements[0].SelectAttrValue("Code", ""))
	assert.Equal(t, "322", elements[1].SelectAttrValue("Code", ""))
	assert.Equal(t, "323", elements[2].SelectAttrValue("Code", ""))
	for _, el := range elements {
		assert.Equal(t, "10", el.SelectAttrValue("Type", ""))
	}
	assert.Equal(t, "Guest email address is required", elements[0].Text())
}

func TestError_KindToOTACode(t *testing.T) {
	tests := []struct {
		name     string
		err      *apperrors.AppError
		wantType string
		wantCode string
	}{
		{"validation", apperrors.Validation("Missing customer name in data"), "4", "400"},
		{"capacity", apperrors.Capacity("Insufficient room capacity: 5 guests require 4 total capacity"), "6", "392"},
		{"authentication", apperrors.Authentication("Invalid API key."), "6", "497"},
		{"reservation", apperrors.Reservation("Reservation creation failed", nil), "3", "300"},
		{"confirmation", apperrors.Confirmation("Reservation could not be confirmed", nil), "3", "301"},
		{"system", apperrors.System("An unexpected error occurred", nil), "1", "500"},
		{"availability defaults", apperrors.Availability("Room '101' is already booked for the requested dates"), "1", "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fixedBuilder().Error(tt.err, "echo-3")
			rs := parseResponse(t, body)

			assert.Nil(t, rs.FindElement("Success"))
			el := rs.FindElement("Errors/Error")
			require.NotNil(t, el)
			assert.Equal(t, tt.wantType, el.SelectAttrValue("Type", ""))
			assert.Equal(t, tt.wantCode, el.SelectAttrValue("Code", ""))
			assert.Equal(t, tt.err.Message, el.Text())
		})
	}
}

func TestEchoToken_ParsedAttributeWins(t *testing.T) {
	raw := []byte(`<Envelope><Body><OTA_HotelResNotifRQ EchoToken="from-ota"/></Body></Envelope>`)
	doc := ota.Parse(raw)
	assert.Equal(t, "from-ota", EchoToken(doc, raw))
}

func TestEchoToken_RawScanFallback(t *testing.T) {
	// Well-formed XML that is not an OTA envelope still surrenders its
	// token via the raw scan.
	raw := []byte(`<Message EchoToken="raw-token"><Other/></Message>`)
	assert.Equal(t, "raw-token", EchoToken(ota.Document{}, raw))
}

func TestEchoToken_GeneratedForGarbage(t *testing.T) {
	token := EchoToken(ota.Document{}, []byte("not xml at all"))
	assert.NotEmpty(t, token)
	assert.False(t, strings.Contains(token, " "))
}
