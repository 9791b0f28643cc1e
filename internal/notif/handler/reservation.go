// Package handler exposes the channel-facing HTTP surface: the
// OTA_HotelResNotifRQ webhook, the connection test and the probes.
package handler

import (
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"otabridge/internal/auth"
	"otabridge/internal/events"
	"otabridge/internal/notif/ota"
	"otabridge/internal/notif/response"
	"otabridge/internal/notif/validator"
	"otabridge/internal/reservations/service"
	apperrors "otabridge/pkg/errors"
	httputil "otabridge/pkg/http"
	"otabridge/pkg/logger"
	"otabridge/pkg/model"
)

type ReservationHandler struct {
	tokens     auth.TokenProvider
	validator  *validator.NotificationValidator
	reconciler service.ReconcileService
	builder    *response.Builder
	events     events.Publisher
	log        *logger.Logger
}

func NewReservationHandler(
	tokens auth.TokenProvider,
	notifValidator *validator.NotificationValidator,
	reconciler service.ReconcileService,
	publisher events.Publisher,
	log *logger.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		tokens:     tokens,
		validator:  notifValidator,
		reconciler: reconciler,
		builder:    response.NewBuilder(),
		events:     publisher,
		log:        log,
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/reservation", h.HandleNotification)
	router.POST("/api/test_connection", h.HandleTestConnection)
}

// HandleNotification runs the full pipeline for one notification:
// authenticate, parse, extract, validate, reconcile, respond. Every
// outcome leaves as HTTP 200 XML; the envelope carries success or the
// typed error.
func (h *ReservationHandler) HandleNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, apperrors.System("An unexpected error occurred while reading the request", err), response.EchoToken(ota.Document{}, nil))
		return
	}

	doc := ota.Parse(raw)
	echoToken := response.EchoToken(doc, raw)

	// Malformed bodies are reported as parse failures, not as missing
	// credentials, even though the credential scan would also fail.
	if doc.Empty() {
		h.writeError(w, apperrors.Validation("Failed to parse XML. Make sure the SOAP body is well-formed."), echoToken)
		return
	}

	apiKey := auth.ExtractAPIKey(raw)
	if apiKey == "" {
		h.writeError(w, apperrors.Authentication("Missing <wsse:Password> field in SOAP XML."), echoToken)
		return
	}
	if token := h.tokens.GetToken(ctx, apiKey); token == "" {
		h.writeError(w, apperrors.Authentication("Invalid API key."), echoToken)
		return
	}

	reservation, err := ota.ExtractReservation(doc)
	if err != nil {
		h.writeError(w, apperrors.AsAppError(err), echoToken)
		return
	}

	customer := ota.ExtractCustomer(reservation)
	if err := h.validator.ValidateCustomer(&customer); err != nil {
		h.writeError(w, apperrors.AsAppError(err), echoToken)
		return
	}

	stay := ota.ExtractStay(reservation)
	if stay == nil {
		h.writeError(w, apperrors.Validation("No room stay information found in reservation"), echoToken)
		return
	}
	if err := h.validator.ValidateStay(stay); err != nil {
		h.writeError(w, apperrors.AsAppError(err), echoToken)
		return
	}

	warnings := collectWarnings(&customer, stay)
	stay.SiteminderID = customer.SiteminderID

	result, err := h.reconcile(r, &customer, stay)
	if err != nil {
		h.writeError(w, apperrors.AsAppError(err), echoToken)
		return
	}

	h.events.ReservationReconciled(ctx, result)

	if len(warnings) > 0 {
		httputil.WriteXML(w, h.builder.SuccessWithWarnings(result, echoToken, warnings))
		return
	}
	httputil.WriteXML(w, h.builder.Success(result, echoToken))
}

func (h *ReservationHandler) reconcile(r *http.Request, customer *model.Customer, stay *model.Stay) (*model.ReconcileResult, error) {
	ctx := r.Context()

	existing, err := h.reconciler.FindBySiteminderID(ctx, customer.SiteminderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return h.reconciler.Update(ctx, existing, customer, stay)
	}
	return h.reconciler.Create(ctx, customer, stay)
}

// collectWarnings flags the non-fatal absences channel managers care
// about. Codes follow the OTA warning table; type 10 means the message
// was processed despite the finding.
func collectWarnings(customer *model.Customer, stay *model.Stay) []model.Warning {
	var warnings []model.Warning

	if customer.Email == "" {
		warnings = append(warnings, model.Warning{Type: "10", Code: "321", Message: "Guest email address is required"})
	}
	if customer.Phone == "" {
		warnings = append(warnings, model.Warning{Type: "10", Code: "322", Message: "Guest phone number is recommended"})
	}
	if customer.AmountAfterTax == "" || customer.AmountAfterTax == "0" {
		warnings = append(warnings, model.Warning{Type: "10", Code: "323", Message: "Total amount information is missing"})
	}
	if stay.Adults <= 1 && stay.Children == 0 {
		warnings = append(warnings, model.Warning{Type: "10", Code: "324", Message: "Guest count information was defaulted"})
	}

	return warnings
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, appErr *apperrors.AppError, echoToken string) {
	h.log.Warn("Notification rejected",
		"kind", string(appErr.Kind),
		"message", appErr.Message,
		"echo_token", echoToken,
	)
	httputil.WriteXML(w, h.builder.Error(appErr, echoToken))
}

// HandleTestConnection is the channel manager's onboarding probe. It
// exercises the same credential path as the webhook but answers in
// plain JSON with real HTTP statuses.
func (h *ReservationHandler) HandleTestConnection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "Request Error!", "Failed to read request body.")
		return
	}

	apiKey := auth.ExtractAPIKey(raw)
	if apiKey == "" {
		httputil.WriteJSONError(w, http.StatusForbidden, "Missing Error!", "Missing <wsse:Password> field in SOAP XML.")
		return
	}

	if token := h.tokens.GetToken(r.Context(), apiKey); token == "" {
		httputil.WriteJSONError(w, http.StatusUnauthorized, "Key Error!", "Authentication failed.")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "Connection Successful."})
}
