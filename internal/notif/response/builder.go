// Package response renders OTA_HotelResNotifRS envelopes. Per the wire
// contract every outcome, including errors, travels as HTTP 200 with a
// well-formed XML body; callers branch on <Success/> vs <Errors>.
package response

import (
	"time"

	"github.com/beevik/etree"

	apperrors "otabridge/pkg/errors"
	"otabridge/pkg/model"
)

const (
	soapNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	otaNamespace  = "http://www.opentravel.org/OTA/2003/05"

	// ResID_Type 10 identifies a property-system reservation id in OTA.
	resIDTypeReservation = "10"
)

type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Success renders the confirmation envelope carrying the assigned
// reservation number as both the UniqueID and a typed reservation id.
func (b *Builder) Success(result *model.ReconcileResult, echoToken string) string {
	doc, rs := b.envelope(echoToken)
	rs.CreateElement("Success")
	b.appendReservationBlock(rs, result.ReservationNo)
	return render(doc)
}

// SuccessWithWarnings renders the same envelope with a Warnings block
// between Success and the reservation ids, one Warning element per
// finding, preserving the caller-chosen type/code literals.
func (b *Builder) SuccessWithWarnings(result *model.ReconcileResult, echoToken string, warnings []model.Warning) string {
	doc, rs := b.envelope(echoToken)
	rs.CreateElement("Success")

	if len(warnings) > 0 {
		block := rs.CreateElement("Warnings")
		for _, w := range warnings {
			el := block.CreateElement("Warning")
			el.CreateAttr("Type", w.Type)
			el.CreateAttr("Code", w.Code)
			el.SetText(w.Message)
		}
	}

	b.appendReservationBlock(rs, result.ReservationNo)
	return render(doc)
}

// Error renders an Errors block for the given failure. The kind decides
// the OTA (Type, Code) attribute pair.
func (b *Builder) Error(err *apperrors.AppError, echoToken string) string {
	doc, rs := b.envelope(echoToken)

	errType, errCode := err.OTACode()
	block := rs.CreateElement("Errors")
	el := block.CreateElement("Error")
	el.CreateAttr("Type", errType)
	el.CreateAttr("Code", errCode)
	el.SetText(err.Message)

	return render(doc)
}

func (b *Builder) envelope(echoToken string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("SOAP-ENV:Envelope")
	env.CreateAttr("xmlns:SOAP-ENV", soapNamespace)
	body := env.CreateElement("SOAP-ENV:Body")

	rs := body.CreateElement("OTA_HotelResNotifRS")
	rs.CreateAttr("xmlns", otaNamespace)
	rs.CreateAttr("Version", "1.0")
	rs.CreateAttr("TimeStamp", b.now().UTC().Format("2006-01-02T15:04:05Z"))
	rs.CreateAttr("EchoToken", echoToken)

	return doc, rs
}

func (b *Builder) appendReservationBlock(rs *etree.Element, reservationNo string) {
	reservations := rs.CreateElement("HotelReservations")
	reservation := reservations.CreateElement("HotelReservation")

	uniqueID := reservation.CreateElement("UniqueID")
	uniqueID.CreateAttr("ID", reservationNo)

	ids := reservation.
		CreateElement("ResGlobalInfo").
		CreateElement("HotelReservationIDs").
		CreateElement("HotelReservationID")
	ids.CreateAttr("ResID_Type", resIDTypeReservation)
	ids.CreateAttr("ResID_Value", reservationNo)
}

func render(doc *etree.Document) string {
	doc.Indent(1)
	// WriteToString only propagates io.Writer errors, which a string
	// buffer never produces.
	out, _ := doc.WriteToString()
	return out
}
