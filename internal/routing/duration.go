package routing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultDurationMinutes is used for a flight whose duration text cannot be parsed.
const DefaultDurationMinutes = 60

var errBadDuration = errors.New("routing: malformed duration")

// ParseDuration converts text such as "2h 15m" into minutes.
//
// The hour part is the number before the first 'h'. Minutes are read from
// the text between the first space after 'h' and the following 'm'; when
// either marker is missing the minute part is zero ("3h" is 180).
func ParseDuration(s string) (int, error) {
	hPos := strings.IndexByte(s, 'h')
	if hPos < 0 {
		return 0, fmt.Errorf("%w: %q has no hour marker", errBadDuration, s)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(s[:hPos]))
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: %q has no valid hour count", errBadDuration, s)
	}

	minutes := 0
	rest := s[hPos+1:]
	sp := strings.IndexByte(rest, ' ')
	if sp >= 0 {
		if mPos := strings.IndexByte(rest[sp:], 'm'); mPos >= 0 {
			minutes, err = strconv.Atoi(strings.TrimSpace(rest[sp : sp+mPos]))
			if err != nil || minutes < 0 {
				return 0, fmt.Errorf("%w: %q has no valid minute count", errBadDuration, s)
			}
		}
	}
	return hours*60 + minutes, nil
}

// DurationMinutes is ParseDuration with the DefaultDurationMinutes fallback.
func DurationMinutes(s string) int {
	m, err := ParseDuration(s)
	if err != nil {
		return DefaultDurationMinutes
	}
	return m
}

// FormatDuration renders minutes as "Hh Mm".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
