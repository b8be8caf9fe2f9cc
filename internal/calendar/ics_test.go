package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTART;VALUE=DATE:20250614\r\n" +
	"DTEND;VALUE=DATE:20250621\r\n" +
	"UID:abc123@airbnb.com\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICSSingleEvent(t *testing.T) {
	bookings, err := ParseICS(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b := bookings[0]
	assert.Equal(t, "abc123@airbnb.com", b.ExternalID)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), b.Start)
	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), b.End)
}

func TestParseICSPreservesSourceOrder(t *testing.T) {
	feed := "BEGIN:VCALENDAR\n" +
		"BEGIN:VEVENT\nUID:second\nDTSTART:20250710\nDTEND:20250712\nEND:VEVENT\n" +
		"BEGIN:VEVENT\nUID:first\nDTSTART:20250601\nDTEND:20250605\nEND:VEVENT\n" +
		"END:VCALENDAR\n"

	bookings, err := ParseICS(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "second", bookings[0].ExternalID)
	assert.Equal(t, "first", bookings[1].ExternalID)
}

func TestParseICSDropsIncompleteEvents(t *testing.T) {
	feed := "BEGIN:VCALENDAR\n" +
		// no UID
		"BEGIN:VEVENT\nDTSTART:20250601\nDTEND:20250605\nEND:VEVENT\n" +
		// no DTEND
		"BEGIN:VEVENT\nUID:x1\nDTSTART:20250601\nEND:VEVENT\n" +
		// intact
		"BEGIN:VEVENT\nUID:ok\nDTSTART:20250601\nDTEND:20250605\nEND:VEVENT\n" +
		"END:VCALENDAR\n"

	bookings, err := ParseICS(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "ok", bookings[0].ExternalID)
}

func TestParseICSDropsEventWithMalformedDate(t *testing.T) {
	feed := "BEGIN:VCALENDAR\n" +
		"BEGIN:VEVENT\nUID:bad\nDTSTART:notadate\nDTEND:20250605\nEND:VEVENT\n" +
		"BEGIN:VEVENT\nUID:good\nDTSTART:20250601\nDTEND:20250605\nEND:VEVENT\n" +
		"END:VCALENDAR\n"

	bookings, err := ParseICS(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "good", bookings[0].ExternalID)
}

func TestParseICSDropsZeroLengthStay(t *testing.T) {
	feed := "BEGIN:VEVENT\nUID:same-day\nDTSTART:20250601\nDTEND:20250601\nEND:VEVENT\n"

	bookings, err := ParseICS(strings.NewReader(feed))
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestParseICSIgnoresPropertiesOutsideEvents(t *testing.T) {
	feed := "UID:stray\nDTSTART:20250601\n" +
		"BEGIN:VEVENT\nUID:real\nDTSTART:20250601\nDTEND:20250605\nEND:VEVENT\n"

	bookings, err := ParseICS(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "real", bookings[0].ExternalID)
}

func TestParseICSEmptyInput(t *testing.T) {
	bookings, err := ParseICS(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestParseICSIdempotent(t *testing.T) {
	first, err := ParseICS(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	second, err := ParseICS(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
