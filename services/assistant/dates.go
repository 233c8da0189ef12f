package assistant

import (
	"fmt"
	"strings"
	"time"
)

var spanishWeekdayNames = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// weekdayByName accepts both accented and plain spellings.
var weekdayByName = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
}

// nextWeekday returns the next strictly-future occurrence of the target
// weekday. Saying "el lunes" on a Monday means next Monday, never today.
func nextWeekday(now time.Time, target time.Weekday) time.Time {
	diff := (int(target) - int(now.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return now.AddDate(0, 0, diff)
}

// formatSpanishDate renders an ISO date as a long Spanish date, e.g.
// "lunes, 2 de marzo de 2026". Unparseable input is returned as-is.
func formatSpanishDate(isoDate string, loc *time.Location) string {
	t, err := time.ParseInLocation("2006-01-02", isoDate, loc)
	if err != nil {
		return isoDate
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdayNames[t.Weekday()], t.Day(), spanishMonthNames[t.Month()-1], t.Year())
}

// normalize lowercases the text and strips the Spanish accents that users
// type inconsistently, so keyword matching sees one spelling.
func normalize(text string) string {
	lower := strings.ToLower(text)
	return accentReplacer.Replace(lower)
}

var accentReplacer = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ü", "u",
	"ñ", "n",
)
