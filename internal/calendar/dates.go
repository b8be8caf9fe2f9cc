package calendar

import (
	"time"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405Z"
)

// DecodeDate parses an iCal date value. Two textual forms are accepted:
// the 8-character all-date form (YYYYMMDD, interpreted as UTC midnight)
// and the full UTC form (YYYYMMDDTHHMMSSZ). Any other shape is a
// FormatError.
func DecodeDate(value string) (time.Time, error) {
	var layout string
	switch len(value) {
	case len(dateLayout):
		layout = dateLayout
	case len(dateTimeLayout):
		layout = dateTimeLayout
	default:
		return time.Time{}, &FormatError{Value: value}
	}

	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, &FormatError{Value: value}
	}
	return t, nil
}

// EncodeDate renders a calendar date in the all-date form used on
// DTSTART;VALUE=DATE and DTEND;VALUE=DATE lines.
func EncodeDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// EncodeDateTime renders an instant in the full UTC form used for DTSTAMP.
func EncodeDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}
