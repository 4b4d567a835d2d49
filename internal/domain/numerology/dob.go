package numerology

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DOB is a parsed date of birth.
type DOB struct {
	Day   int `json:"day" yaml:"day"`
	Month int `json:"month" yaml:"month"`
	Year  int `json:"year" yaml:"year"`
}

func (d DOB) String() string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, d.Month, d.Year)
}

var (
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	numericDate = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2}|\d{4})$`)
	textDate    = regexp.MustCompile(`^(\d{1,2})\s+(\p{L}+)\s+(\d{4})$`)

	lower = cases.Lower(language.Russian)
)

var monthsRU = map[string]int{
	"января": 1, "январь": 1,
	"февраля": 2, "февраль": 2,
	"марта": 3, "март": 3,
	"апреля": 4, "апрель": 4,
	"мая": 5, "май": 5,
	"июня": 6, "июнь": 6,
	"июля": 7, "июль": 7,
	"августа": 8, "август": 8,
	"сентября": 9, "сентябрь": 9,
	"октября": 10, "октябрь": 10,
	"ноября": 11, "ноябрь": 11,
	"декабря": 12, "декабрь": 12,
}

// ParseDOB parses ISO, numeric day-first and Russian month-name dates.
func ParseDOB(text string) (DOB, error) {
	s := clean(text)
	if s == "" {
		return DOB{}, fmt.Errorf("%w: empty", ErrUnparsableDate)
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		return build(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := numericDate.FindStringSubmatch(s); m != nil {
		y := atoi(m[3])
		if y < 100 {
			y += 1900
		}
		return build(atoi(m[1]), atoi(m[2]), y)
	}
	if m := textDate.FindStringSubmatch(s); m != nil {
		month, ok := monthsRU[m[2]]
		if !ok {
			return DOB{}, fmt.Errorf("%w: unknown month %q", ErrUnparsableDate, m[2])
		}
		return build(atoi(m[1]), month, atoi(m[3]))
	}
	return DOB{}, fmt.Errorf("%w: %q", ErrUnparsableDate, text)
}

// clean applies NFKC, lowercases, trims and strips a trailing year marker.
func clean(text string) string {
	s := strings.TrimSpace(lower.String(norm.NFKC.String(text)))
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "г") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "г"))
	}
	return s
}

func build(day, month, year int) (DOB, error) {
	if month < 1 || month > 12 || day < 1 {
		return DOB{}, fmt.Errorf("%w: %02d.%02d.%d", ErrInvalidDate, day, month, year)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return DOB{}, fmt.Errorf("%w: %02d.%02d.%d", ErrInvalidDate, day, month, year)
	}
	return DOB{Day: day, Month: month, Year: year}, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
