// Package calendar implements the calendar synchronization engine: iCal
// feed parsing, booking reconciliation against persisted changeovers, and
// outbound feed publishing.
package calendar

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// ParseICS reads an iCal document and returns the bookings it contains, in
// source order. An event must carry DTSTART, DTEND and UID, and its end
// must fall strictly after its start; anything less is dropped silently,
// including events whose date text fails to decode. A single corrupt event
// never aborts parsing of the rest of the feed. Properties other than the
// three required ones are ignored, which keeps the parser tolerant of
// unknown feed vendors.
func ParseICS(r io.Reader) ([]models.Booking, error) {
	var bookings []models.Booking
	var current *models.Booking

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		name, value, ok := splitContentLine(line)
		if !ok {
			continue
		}

		switch name {
		case "BEGIN":
			if value == "VEVENT" {
				// An unterminated previous event is discarded without error.
				current = &models.Booking{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				if complete(current) {
					bookings = append(bookings, *current)
				}
				current = nil
			}
		case "DTSTART":
			if current != nil {
				if t, err := DecodeDate(value); err == nil {
					current.Start = t
				}
			}
		case "DTEND":
			if current != nil {
				if t, err := DecodeDate(value); err == nil {
					current.End = t
				}
			}
		case "UID":
			if current != nil {
				current.ExternalID = value
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}

	return bookings, nil
}

// splitContentLine splits an iCal content line into property name and
// value. Parameters are stripped from the name (DTSTART;VALUE=DATE:... is
// just DTSTART); the value is everything after the first colon.
func splitContentLine(line string) (name, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon == -1 {
		return "", "", false
	}

	name = line[:colon]
	value = line[colon+1:]
	if semi := strings.Index(name, ";"); semi != -1 {
		name = name[:semi]
	}
	return name, value, true
}

// complete reports whether an accumulated event has all required fields
// and a checkout strictly after its checkin.
func complete(b *models.Booking) bool {
	return b.ExternalID != "" && !b.Start.IsZero() && !b.End.IsZero() && b.End.After(b.Start)
}
