package http

import (
	"encoding/json"
	"net/http"
)

// XMLContentType is the media type of every OTA response body.
const XMLContentType = "text/xml; charset=utf-8"

// ErrorResponse is the JSON error body of the plain REST endpoints
// (connection test, health). The notification endpoint never uses it;
// its errors travel inside the XML envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteXML writes a pre-rendered XML body. The status is always 200 by
// wire contract; outcome is carried inside the envelope.
func WriteXML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", XMLContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteJSONError(w http.ResponseWriter, statusCode int, title, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: title, Message: message})
}
