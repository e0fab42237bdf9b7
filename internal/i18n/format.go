package i18n

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders a long date: "2 de enero de 2024" or "January 2, 2024".
func FormatDate(t time.Time, l Locale) string {
	if l == English {
		return t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// FormatNumber groups digits the way the locale's region does.
func FormatNumber(n int64, l Locale) string {
	return message.NewPrinter(l.Tag()).Sprintf("%d", n)
}

// FormatCurrency renders a whole-peso amount ("$1,500" / "MX$1,500").
func FormatCurrency(amount float64, l Locale) string {
	n := FormatNumber(int64(math.Round(amount)), l)
	if l == English {
		return "MX$" + n
	}
	return "$" + n
}

type interval struct {
	seconds  int64
	singular string
	plural   string
}

var intervals = map[Locale][]interval{
	Spanish: {
		{31536000, "año", "años"},
		{2592000, "mes", "meses"},
		{86400, "día", "días"},
		{3600, "hora", "horas"},
		{60, "minuto", "minutos"},
		{1, "segundo", "segundos"},
	},
	English: {
		{31536000, "year", "years"},
		{2592000, "month", "months"},
		{86400, "day", "days"},
		{3600, "hour", "hours"},
		{60, "minute", "minutes"},
		{1, "second", "seconds"},
	},
}

// TimeAgo describes how long before now t happened, using the largest
// whole unit ("hace 3 días", "1 hour ago").
func TimeAgo(t, now time.Time, l Locale) string {
	diff := int64(now.Sub(t) / time.Second)
	for _, iv := range intervals[Parse(string(l))] {
		count := diff / iv.seconds
		if count <= 0 {
			continue
		}
		label := iv.plural
		if count == 1 {
			label = iv.singular
		}
		if l == English {
			return fmt.Sprintf("%d %s ago", count, label)
		}
		return fmt.Sprintf("hace %d %s", count, label)
	}
	if l == English {
		return "now"
	}
	return "ahora"
}

// DefaultWordsPerMinute is the reading speed used for reading-time estimates.
const DefaultWordsPerMinute = 200

// ReadingMinutes estimates whole minutes needed to read text, at least one.
func ReadingMinutes(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := len(strings.Fields(text))
	minutes := (words + wpm - 1) / wpm
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ReadingTime renders ReadingMinutes as "5 minutos" / "1 minute".
func ReadingTime(minutes int, l Locale) string {
	unit := "minutos"
	switch {
	case l == English && minutes == 1:
		unit = "minute"
	case l == English:
		unit = "minutes"
	case minutes == 1:
		unit = "minuto"
	}
	return fmt.Sprintf("%d %s", minutes, unit)
}

// TruncateText cuts text to at most maxLen runes on a word boundary and
// appends an ellipsis.
func TruncateText(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	cut := string(r[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// Slugify produces a URL slug: lower case, diacritics removed, runs of
// spaces and hyphens collapsed into one hyphen.
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		plain = strings.ToLower(text)
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.TrimSpace(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '\t':
			pendingHyphen = true
		}
	}
	return b.String()
}

// Greeting picks a time-of-day greeting for the given hour (0-23).
func Greeting(hour int, l Locale) string {
	switch {
	case hour < 12:
		if l == English {
			return "Good morning"
		}
		return "Buenos días"
	case hour < 18:
		if l == English {
			return "Good afternoon"
		}
		return "Buenas tardes"
	default:
		if l == English {
			return "Good evening"
		}
		return "Buenas noches"
	}
}

// IsSpanishText reports whether text contains characters specific to Spanish.
func IsSpanishText(text string) bool {
	return strings.ContainsAny(strings.ToLower(text), "ñáéíóúü¡¿")
}
