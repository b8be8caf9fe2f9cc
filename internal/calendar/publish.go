package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

const feedProdID = "-//Changeover Tracker//Changeover Calendar 1.0//EN"

// BuildFeed renders a complete iCal document for the given changeovers,
// suitable for external calendar subscription. Output is byte-identical
// across calls for a fixed changeover set, except that DTSTAMP tracks now.
// Event UIDs derive from the changeover's own id, never from the inbound
// external booking id: the outbound feed's identity space is independent
// of any source feed.
func BuildFeed(name, description, shareBaseURL string, changeovers []models.ChangeoverWithProperty, now time.Time) string {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+feedProdID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "X-WR-CALNAME:"+escapeText(name))
	writeLine(&b, "X-WR-CALDESC:"+escapeText(description))

	stamp := EncodeDateTime(now)
	for _, c := range changeovers {
		shareURL := shareBaseURL + "/share/" + c.ShareToken

		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, fmt.Sprintf("UID:changeover-%s@changeover-tracker", c.ID))
		writeLine(&b, "DTSTAMP:"+stamp)
		writeLine(&b, "DTSTART;VALUE=DATE:"+EncodeDate(c.CheckinDate))
		writeLine(&b, "DTEND;VALUE=DATE:"+EncodeDate(c.CheckoutDate))
		writeLine(&b, "SUMMARY:"+escapeText("Changeover: "+c.PropertyName))
		writeLine(&b, "DESCRIPTION:"+escapeText("Cleaning changeover for "+c.PropertyName+". Findings: "+shareURL))
		writeLine(&b, "URL:"+shareURL)
		writeLine(&b, "STATUS:CONFIRMED")
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// writeLine terminates content lines with CRLF as RFC 5545 requires.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeText escapes the characters that carry meaning in iCal text values.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
