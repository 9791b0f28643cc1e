package middleware

import (
	"net/http"
	"runtime/debug"

	"otabridge/pkg/logger"
)

// soapFault is the last-resort body when a panic escapes the handler.
// The wire contract never surfaces transport failures, so even a panic
// answers 200 with an OTA error element.
const soapFault = `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body><OTA_HotelResNotifRS xmlns="http://www.opentravel.org/OTA/2003/05" Version="1.0"><Errors><Error Type="1" Code="500">An unexpected error occurred</Error></Errors></OTA_HotelResNotifRS></SOAP-ENV:Body></SOAP-ENV:Envelope>`

func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID := ""
					if rid := r.Context().Value(RequestIDKey); rid != nil {
						if id, ok := rid.(string); ok {
							requestID = id
						}
					}

					log.Error("Panic recovered",
						"request_id", requestID,
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Content-Type", "text/xml; charset=utf-8")
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte(soapFault))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
