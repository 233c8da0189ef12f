package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"marta/models"
)

// Extraction is a pure pass over one utterance. Rules only fill fields that
// are still empty, so details accumulate across turns without a later, vaguer
// utterance clobbering an earlier answer. Amendments (overwrite semantics)
// are handled separately by the state machine.

var (
	titleRe = regexp.MustCompile(`(?i)\bpara\s+(.+?)(?:\s+el\s+|\s+con\s+|\s+a\s+las?\s+|\s*$)`)

	absoluteDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`)
	weekdayRe      = regexp.MustCompile(`\b(domingo|lunes|martes|miercoles|jueves|viernes|sabado)\b`)

	// Time rules in precedence order: "a las H(:MM)", "H:MM", "H de la tarde".
	timeAtRe     = regexp.MustCompile(`\ba\s+las?\s+(\d{1,2})(?::(\d{2}))?(?:\s*(?:hrs?\.?|horas))?(?:\s+de\s+la\s+(manana|tarde|noche))?`)
	timeColonRe  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b(?:\s+de\s+la\s+(manana|tarde|noche))?`)
	timePeriodRe = regexp.MustCompile(`\b(\d{1,2})\s+de\s+la\s+(manana|tarde|noche)\b`)

	durationRe     = regexp.MustCompile(`\b(?:por|de|durante)\s+(\d+)\s+(minutos?|min|horas?)\b`)
	bareDurationRe = regexp.MustCompile(`^\s*(\d+)\s*(minutos?|min|horas?)\s*$`)
	bareHourRe     = regexp.MustCompile(`^\s*(\d{1,2})\s*$`)

	attendeeRe = regexp.MustCompile(`\b(?:con|para)\s+([a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,})`)
)

// ExtractAppointment scans the utterance for appointment details and merges
// them into the existing ones. now must already be in the appointment's
// timezone; it anchors weekday resolution and the default year.
func ExtractAppointment(text string, existing models.AppointmentDetails, now time.Time) models.AppointmentDetails {
	out := existing
	norm := normalize(text)

	if out.Title == "" {
		if m := titleRe.FindStringSubmatch(text); m != nil {
			title := strings.Trim(strings.TrimSpace(m[1]), ".,;:¡!¿?")
			if title != "" && !strings.Contains(title, "@") {
				out.Title = title
			}
		}
	}

	if out.Date == "" {
		if m := absoluteDateRe.FindStringSubmatch(norm); m != nil {
			if date, ok := buildDate(m[1], m[2], m[3], now); ok {
				out.Date = date
			}
		} else if m := weekdayRe.FindStringSubmatch(norm); m != nil {
			out.Date = nextWeekday(now, weekdayByName[m[1]]).Format("2006-01-02")
		}
	}

	if out.Time == "" {
		out.Time = extractClock(norm)
	}

	if out.Duration == 0 {
		if m := durationRe.FindStringSubmatch(norm); m != nil {
			out.Duration = durationMinutes(m[1], m[2])
		}
	}

	for _, m := range attendeeRe.FindAllStringSubmatch(norm, -1) {
		if !out.HasAttendee(m[1]) {
			out.Attendees = append(out.Attendees, m[1])
		}
	}

	return out
}

// buildDate assembles an ISO date from day/month/year capture groups,
// rejecting impossible calendar dates. A missing year defaults to the
// current one; two-digit years are taken as 20xx.
func buildDate(dayStr, monthStr, yearStr string, now time.Time) (string, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year := now.Year()
	if yearStr != "" {
		year, _ = strconv.Atoi(yearStr)
		if year < 100 {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if t.Day() != day || t.Month() != time.Month(month) {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// extractClock returns the first recognized clock time as "15:04", or "".
// tarde/noche push an hour below 12 into the afternoon; mañana maps 12 to
// midnight. A bare hour without a period is kept exactly as stated.
func extractClock(norm string) string {
	if m := timeAtRe.FindStringSubmatch(norm); m != nil {
		return clockString(m[1], m[2], m[3])
	}
	if m := timeColonRe.FindStringSubmatch(norm); m != nil {
		return clockString(m[1], m[2], m[3])
	}
	if m := timePeriodRe.FindStringSubmatch(norm); m != nil {
		return clockString(m[1], "", m[2])
	}
	return ""
}

func clockString(hourStr, minStr, period string) string {
	hour, _ := strconv.Atoi(hourStr)
	min := 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	if hour > 23 || min > 59 {
		return ""
	}
	switch period {
	case "tarde", "noche":
		if hour < 12 {
			hour += 12
		}
	case "manana":
		if hour == 12 {
			hour = 0
		}
	}
	return padClock(hour, min)
}

func padClock(hour, min int) string {
	return twoDigits(hour) + ":" + twoDigits(min)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func durationMinutes(numStr, unit string) int {
	n, _ := strconv.Atoi(numStr)
	if strings.HasPrefix(unit, "hora") {
		n *= 60
	}
	if n < 0 {
		return 0
	}
	return n
}

// DraftRecipient is the recipient parsed out of an email-draft request.
type DraftRecipient struct {
	Name  string
	Email string
}

var (
	nameEmailRe = regexp.MustCompile(`(?i)env[ií]a(?:le|me)?\s+un\s+(?:correo|e-?\s?mail|email)\s+a\s+([\p{L}][\p{L}\s.'-]*?)[.,;:]?\s+su\s+(?:correo|e-?\s?mail|email)\s+es\s+([\w.%+-]+@[\w.-]+\.[A-Za-z]{2,})`)
	emailOnlyRe = regexp.MustCompile(`(?i)env[ií]a(?:le|me)?\s+un\s+(?:correo|e-?\s?mail|email)\s+a\s+([\w.%+-]+@[\w.-]+\.[A-Za-z]{2,})`)
	anyEmailRe  = regexp.MustCompile(`[\w.%+-]+@[\w.-]+\.[A-Za-z]{2,}`)
)

// ExtractDraftRecipient resolves the recipient of a draft request, trying the
// "a NOMBRE. Su e-mail es CORREO" form first, then a direct address after
// "a", then any address anywhere in the utterance.
func ExtractDraftRecipient(text string) (DraftRecipient, bool) {
	if m := nameEmailRe.FindStringSubmatch(text); m != nil {
		return DraftRecipient{
			Name:  collapseSpaces(strings.Trim(m[1], " .,")),
			Email: strings.ToLower(m[2]),
		}, true
	}
	if m := emailOnlyRe.FindStringSubmatch(text); m != nil {
		return DraftRecipient{Email: strings.ToLower(m[1])}, true
	}
	if m := anyEmailRe.FindString(text); m != "" {
		return DraftRecipient{Email: strings.ToLower(m)}, true
	}
	return DraftRecipient{}, false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
