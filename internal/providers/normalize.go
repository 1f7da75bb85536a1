package providers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// normalizeAirportCode substitutes "XXX" for an absent or malformed
// back-end airport code (spec §4.6).
func normalizeAirportCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 || !isAlphaOnly(code) {
		return "XXX"
	}
	return code
}

func isAlphaOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// deriveAirlineCode implements the fallback chain from spec §4.6:
// explicit IATA code, else the alphabetic prefix of the flight number,
// else the first two letters of the airline name, else "XX".
func deriveAirlineCode(explicit, flightNumber, airlineName string) string {
	explicit = strings.ToUpper(strings.TrimSpace(explicit))
	if explicit != "" {
		return explicit
	}
	if prefix := alphaPrefix(flightNumber); prefix != "" {
		return strings.ToUpper(prefix)
	}
	if name := strings.ToUpper(strings.TrimSpace(airlineName)); len(name) >= 2 {
		return name[:2]
	}
	return "XX"
}

// alphaPrefix returns the leading alphabetic run of s, e.g. "QZ7250" -> "QZ".
func alphaPrefix(s string) string {
	for i, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return s[:i]
		}
	}
	return s
}

// normalizePrice applies the minor-units heuristic from spec §4.6: a
// value with no decimal point and more than two digits is assumed to be
// in minor units (e.g. cents) and divided by 100.
func normalizePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, ".") && len(raw) > 2 {
		intVal, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromInt(intVal).Div(decimal.NewFromInt(100)), nil
	}
	return decimal.NewFromString(raw)
}

var dayOffsetPattern = regexp.MustCompile(`\+(\d+)\s*day`)

// parseTwelveHourWithOffset parses strings like "2:40 PM+1 day" against a
// base date, applying the explicit day offset when present. When no
// offset is given and the computed time would precede prevTime on the
// same base date, it is silently advanced by one day (the segment
// crossed midnight) — per spec §4.6 and the redesign note in
// SPEC_FULL.md §13.
func parseTwelveHourWithOffset(raw string, baseDate time.Time, prevTime *time.Time) (time.Time, error) {
	offsetDays := 0
	timePart := raw
	if m := dayOffsetPattern.FindStringSubmatch(raw); m != nil {
		offsetDays, _ = strconv.Atoi(m[1])
		timePart = dayOffsetPattern.ReplaceAllString(raw, "")
	}
	timePart = strings.TrimSpace(timePart)

	parsed, err := time.Parse("3:04 PM", timePart)
	if err != nil {
		// fall back to noon, matching the reference parser's failure mode
		parsed = time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC)
	}

	result := time.Date(
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, baseDate.Location(),
	).AddDate(0, 0, offsetDays)

	if offsetDays == 0 && prevTime != nil && result.Before(*prevTime) {
		result = result.AddDate(0, 0, 1)
	}

	return result, nil
}

// parseBackendTimestamp handles the ISO-8601-with-or-without-Z shape of
// spec §4.6; the other shapes (structured dict, split date/time,
// 12-hour-with-offset) are handled by each adapter directly since their
// source field layout differs per back-end.
func parseBackendTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// parseStructuredTimestamp handles the {year,month,day,hour,minute,second}
// shape some back-ends return.
func parseStructuredTimestamp(year, month, day, hour, minute, second int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

// parseSplitDateTime handles a back-end that reports date and time as
// separate strings, e.g. date="2024-03-01", timeOfDay="14:30".
func parseSplitDateTime(date, timeOfDay string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(timeOfDay))
}
