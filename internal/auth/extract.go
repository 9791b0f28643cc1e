// Package auth validates the in-band WS-Security credential carried in
// the SOAP header and exchanges it for an opaque access token.
package auth

import (
	"strings"

	"github.com/beevik/etree"
)

// ExtractAPIKey locates the wsse Password element anywhere in the SOAP
// header and returns its trimmed text. Parse failures and absent or
// empty fields all yield ""; nothing raises past this boundary.
func ExtractAPIKey(raw []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return ""
	}
	root := doc.Root()
	if root == nil {
		return ""
	}
	if el := findPassword(root); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// findPassword walks the tree comparing local names, since prefix
// spelling (wsse, wsu, none) varies per channel manager.
func findPassword(el *etree.Element) *etree.Element {
	if el.Tag == "Password" {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findPassword(child); found != nil {
			return found
		}
	}
	return nil
}
