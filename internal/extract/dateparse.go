package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Publication years outside this range are treated as noise (phone numbers,
// pixel sizes, article IDs).
const (
	minPlausibleYear = 2000
	maxPlausibleYear = 2035
)

// monthNames maps lowercase month names to their number. Romanian and
// Russian (genitive and nominative) dominate the outlet corpus; English is
// kept as a fallback. Three-letter prefixes are resolved separately.
var monthNames = map[string]time.Month{
	// Romanian
	"ianuarie": time.January, "februarie": time.February, "martie": time.March,
	"aprilie": time.April, "mai": time.May, "iunie": time.June,
	"iulie": time.July, "august": time.August, "septembrie": time.September,
	"octombrie": time.October, "noiembrie": time.November, "decembrie": time.December,
	// Russian
	"января": time.January, "январь": time.January,
	"февраля": time.February, "февраль": time.February,
	"марта": time.March, "март": time.March,
	"апреля": time.April, "апрель": time.April,
	"мая": time.May, "май": time.May,
	"июня": time.June, "июнь": time.June,
	"июля": time.July, "июль": time.July,
	"августа": time.August, "август": time.August,
	"сентября": time.September, "сентябрь": time.September,
	"октября": time.October, "октябрь": time.October,
	"ноября": time.November, "ноябрь": time.November,
	"декабря": time.December, "декабрь": time.December,
	// English
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// monthPrefixes resolves 3-letter abbreviations ("ian.", "дек", "jan").
var monthPrefixes = map[string]time.Month{
	"ian": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "mai": time.May, "iun": time.June,
	"iul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "noi": time.November, "nov": time.November,
	"dec": time.December,
	"jan": time.January, "jun": time.June, "jul": time.July, "may": time.May,
	"янв": time.January, "фев": time.February, "мар": time.March,
	"апр": time.April, "июн": time.June, "июл": time.July,
	"авг": time.August, "сен": time.September, "окт": time.October,
	"ноя": time.November, "дек": time.December,
}

var (
	isoDateExpr     = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	numericDateExpr = regexp.MustCompile(`(\d{1,2})[./-](\d{1,2})[./-](\d{4})`)
	dayNameYearExpr = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\.?\s+(\d{4})`)
	nameDayYearExpr = regexp.MustCompile(`(\p{L}{3,})\.?\s+(\d{1,2})[,.]?\s+(\d{4})`)
	urlSlugDateExpr = regexp.MustCompile(`/(\d{4})/(\d{1,2})/(\d{1,2})/`)
)

// ParseDate turns a free-form date string into a calendar day. It accepts
// ISO YYYY-MM-DD, DD.MM.YYYY (and / or - separators), "29 decembrie 2025",
// "30 декабря 2025", and "Ian. 04, 2026" shapes. Unparseable input returns
// false, never a panic.
func ParseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	text := strings.ToLower(strings.TrimSpace(raw))
	// Romanian prepositions commonly glued to dates ("la 06.01.2026").
	text = strings.TrimPrefix(text, "la ")
	text = strings.TrimPrefix(text, "din ")
	// ISO timestamps: only the date component matters.
	if i := strings.IndexByte(text, 't'); i > 0 && isoDateExpr.MatchString(text[:i]) {
		text = text[:i]
	}

	if m := isoDateExpr.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}

	if m := numericDateExpr.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(m[3], m[2], m[1]); ok {
			return d, true
		}
	}

	if m := dayNameYearExpr.FindStringSubmatch(text); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if d, ok := makeMonthDate(m[3], month, m[1]); ok {
				return d, true
			}
		}
	}

	if m := nameDayYearExpr.FindStringSubmatch(text); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			if d, ok := makeMonthDate(m[3], month, m[2]); ok {
				return d, true
			}
		}
	}

	return time.Time{}, false
}

// DateFromURL recognizes /YYYY/MM/DD/ path slugs and bounded YYYY-MM-DD
// tokens embedded in a URL.
func DateFromURL(pageURL string) (time.Time, bool) {
	if pageURL == "" {
		return time.Time{}, false
	}
	if m := urlSlugDateExpr.FindStringSubmatch(pageURL); m != nil {
		if d, ok := makeDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := isoDateExpr.FindStringSubmatch(pageURL); m != nil {
		if d, ok := makeDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func lookupMonth(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if m, ok := monthNames[name]; ok {
		return m, true
	}
	runes := []rune(name)
	if len(runes) >= 3 {
		if m, ok := monthPrefixes[string(runes[:3])]; ok {
			return m, true
		}
	}
	return 0, false
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}
	if y <= minPlausibleYear || y >= maxPlausibleYear || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

func makeMonthDate(year string, month time.Month, day string) (time.Time, bool) {
	y, errY := strconv.Atoi(year)
	d, errD := strconv.Atoi(day)
	if errY != nil || errD != nil {
		return time.Time{}, false
	}
	if y <= minPlausibleYear || y >= maxPlausibleYear || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, month, d, 0, 0, 0, 0, time.UTC), true
}
