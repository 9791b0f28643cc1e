package response

import (
	"github.com/beevik/etree"
	"github.com/google/uuid"

	"otabridge/internal/notif/ota"
)

// EchoToken recovers the caller's correlation token so every response is
// correlatable even when the inbound message was malformed. It checks
// the parsed OTA request attribute first, then scans the raw XML for an
// EchoToken attribute on any element, and finally generates a fresh
// token.
func EchoToken(doc ota.Document, raw []byte) string {
	if token := ota.RequestEchoToken(doc); token != "" {
		return token
	}
	if token := scanEchoToken(raw); token != "" {
		return token
	}
	return uuid.NewString()
}

func scanEchoToken(raw []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return ""
	}
	if root := doc.Root(); root != nil {
		return findEchoToken(root)
	}
	return ""
}

func findEchoToken(el *etree.Element) string {
	if attr := el.SelectAttr("EchoToken"); attr != nil && attr.Value != "" {
		return attr.Value
	}
	for _, child := range el.ChildElements() {
		if token := findEchoToken(child); token != "" {
			return token
		}
	}
	return ""
}
