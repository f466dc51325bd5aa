package httphandler

import (
	"encoding/xml"
	"html"
	"net/http"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// messagingResponse is the gateway's reply envelope: exactly one text
// message per inbound message.
type messagingResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// strictPolicy strips all HTML markup from reply text. Upstream records are
// echoed into chat replies, so anything tag-shaped they carry is removed
// before the message leaves the service.
var strictPolicy = bluemonday.StrictPolicy()

// invalidChars matches bytes the gateway rejects in message bodies:
// everything outside tab, newline, carriage return, and printable ASCII.
var invalidChars = regexp.MustCompile(`[^\x09\x0A\x0D\x20-\x7F]`)

// sanitizeReply strips markup and non-ASCII bytes from reply text. XML
// escaping of the remainder happens during marshaling.
func sanitizeReply(text string) string {
	cleaned := strictPolicy.Sanitize(text)
	// The policy entity-escapes what it keeps; undo that and let the XML
	// encoder apply the one escaping pass the envelope actually needs.
	cleaned = html.UnescapeString(cleaned)
	return invalidChars.ReplaceAllString(cleaned, "")
}

// writeTwiML writes a single-message reply envelope. Marshaling a
// two-field struct cannot fail, but a fallback envelope is kept for
// completeness.
func writeTwiML(w http.ResponseWriter, text string) {
	out, err := xml.Marshal(messagingResponse{Message: sanitizeReply(text)})
	if err != nil {
		out = []byte("<Response><Message>Sorry, I encountered an error. Please try again.</Message></Response>")
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
