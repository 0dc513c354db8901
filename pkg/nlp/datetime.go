package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	explicitTimePattern = regexp.MustCompile(`\ba las? (\d{1,2})(?::(\d{2}))?`)
	clockTimePattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	bareMeridiemPattern = regexp.MustCompile(`\b(\d{1,2}) (?:am|pm)\b`)
	monthDayPattern     = regexp.MustCompile(`\b(\d{1,2}) de ([a-z]+)\b`)
	slashDatePattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
)

var weekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
}

var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// parseDateTime resolves a day and clock time from normalized text, always in
// the future relative to now. A clock time without a meridiem marker is
// flagged ambiguous and left untouched for the disambiguation turn.
func (e *Extractor) parseDateTime(clean string, now time.Time) *ParsedDateTime {
	day, hasDay := resolveDay(clean, now)

	hour, minute, hasTime := resolveClock(clean)
	if !hasDay && !hasTime {
		return nil
	}

	parsed := &ParsedDateTime{}

	if hasTime {
		ambiguous := false
		switch e.meridiem(clean) {
		case MeridiemPM:
			if hour < 12 {
				hour += 12
			}
		case MeridiemAM:
			// Hour stands as written.
		default:
			// A 24-hour clock value needs no marker.
			if hour < 13 {
				ambiguous = true
			}
		}

		parsed.Hour = hour
		parsed.Minute = minute
		parsed.HasTime = true
		parsed.Ambiguous = ambiguous
	}

	if !hasDay {
		day = now
		// No day word: take today, rolling forward when the resolved
		// instant already passed.
		if parsed.HasTime && !parsed.Ambiguous {
			candidate := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour, parsed.Minute, 0, 0, now.Location())
			if !candidate.After(now) {
				day = now.AddDate(0, 0, 1)
			}
		}
		parsed.Date = day.Format("2006-01-02")
		return parsed
	}

	// An explicit day never resolves behind now. A calendar date before
	// today is dropped outright, and a clock that already passed on the
	// named day is dropped too, so the dialogue asks again.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return nil
	}
	if parsed.HasTime && !parsed.Ambiguous {
		candidate := time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour, parsed.Minute, 0, 0, now.Location())
		if !candidate.After(now) {
			return nil
		}
	}

	parsed.Date = day.Format("2006-01-02")
	return parsed
}

func resolveDay(clean string, now time.Time) (time.Time, bool) {
	if strings.Contains(clean, "pasado manana") {
		return now.AddDate(0, 0, 2), true
	}

	if containsMarker(clean, "hoy") {
		return now, true
	}

	// "mañana" is tomorrow only when it is not part of a morning phrase
	// ("de la mañana", "por la mañana").
	tokens := strings.Fields(clean)
	for i, token := range tokens {
		if token != "manana" {
			continue
		}
		if i > 0 {
			switch tokens[i-1] {
			case "de", "la", "por", "en":
				continue
			}
		}
		return now.AddDate(0, 0, 1), true
	}

	for name, weekday := range weekdays {
		if !containsMarker(clean, name) {
			continue
		}
		days := (int(weekday) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days), true
	}

	if m := monthDayPattern.FindStringSubmatch(clean); m != nil {
		if month, ok := months[m[2]]; ok {
			dayNum, _ := strconv.Atoi(m[1])
			candidate := time.Date(now.Year(), month, dayNum, 0, 0, 0, 0, now.Location())
			if candidate.Before(now.Truncate(24 * time.Hour)) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			return candidate, true
		}
	}

	if m := slashDatePattern.FindStringSubmatch(clean); m != nil {
		dayNum, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		if monthNum >= 1 && monthNum <= 12 && dayNum >= 1 && dayNum <= 31 {
			year := now.Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
				if year < 100 {
					year += 2000
				}
			}
			candidate := time.Date(year, time.Month(monthNum), dayNum, 0, 0, 0, 0, now.Location())
			if m[3] == "" && candidate.Before(now.Truncate(24*time.Hour)) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			return candidate, true
		}
	}

	return time.Time{}, false
}

func resolveClock(clean string) (hour, minute int, ok bool) {
	var m []string
	switch {
	case explicitTimePattern.MatchString(clean):
		m = explicitTimePattern.FindStringSubmatch(clean)
	case clockTimePattern.MatchString(clean):
		m = clockTimePattern.FindStringSubmatch(clean)
	case bareMeridiemPattern.MatchString(clean):
		m = bareMeridiemPattern.FindStringSubmatch(clean)
	default:
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	if len(m) > 2 && m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}

	if minute == 0 {
		switch {
		case strings.Contains(clean, "y media"):
			minute = 30
		case strings.Contains(clean, "y cuarto"):
			minute = 15
		}
	}

	return hour, minute, true
}
