package chart

import (
	"math"
	"strings"
)

// Sign is a two-letter zodiac sign code.
type Sign string

// Zodiac signs in natural order.
const (
	Aries       Sign = "Ar"
	Taurus      Sign = "Ta"
	Gemini      Sign = "Ge"
	Cancer      Sign = "Cn"
	Leo         Sign = "Le"
	Virgo       Sign = "Vi"
	Libra       Sign = "Li"
	Scorpio     Sign = "Sc"
	Sagittarius Sign = "Sg"
	Capricorn   Sign = "Cp"
	Aquarius    Sign = "Aq"
	Pisces      Sign = "Pi"
)

// Signs lists the zodiac in order, Aries first.
var Signs = [12]Sign{Aries, Taurus, Gemini, Cancer, Leo, Virgo, Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces}

var signAliases = map[string]Sign{
	"aries": Aries, "taurus": Taurus, "gemini": Gemini, "cancer": Cancer,
	"leo": Leo, "virgo": Virgo, "libra": Libra, "scorpio": Scorpio,
	"sagittarius": Sagittarius, "capricorn": Capricorn, "aquarius": Aquarius, "pisces": Pisces,
	"овен": Aries, "телец": Taurus, "близнецы": Gemini, "рак": Cancer,
	"лев": Leo, "дева": Virgo, "весы": Libra, "скорпион": Scorpio,
	"стрелец": Sagittarius, "козерог": Capricorn, "водолей": Aquarius, "рыбы": Pisces,
}

var signTitlesRU = map[Sign]string{
	Aries: "Овен", Taurus: "Телец", Gemini: "Близнецы", Cancer: "Рак",
	Leo: "Лев", Virgo: "Дева", Libra: "Весы", Scorpio: "Скорпион",
	Sagittarius: "Стрелец", Capricorn: "Козерог", Aquarius: "Водолей", Pisces: "Рыбы",
}

// Index returns the zero-based position of s in the zodiac, or -1.
func (s Sign) Index() int {
	for i, v := range Signs {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the twelve sign codes.
func (s Sign) Valid() bool { return s.Index() >= 0 }

// Title returns the Russian name of the sign.
func (s Sign) Title() string {
	if t, ok := signTitlesRU[s]; ok {
		return t
	}
	return string(s)
}

// Add moves n signs forward (n may be negative).
func (s Sign) Add(n int) Sign {
	i := s.Index()
	if i < 0 {
		return s
	}
	return SignAt(i + n)
}

// SignAt returns the sign at index i modulo 12.
func SignAt(i int) Sign {
	return Signs[((i%12)+12)%12]
}

// ParseSign accepts a two-letter code or an English or Russian sign name.
func ParseSign(v string) (Sign, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	for _, s := range Signs {
		if strings.EqualFold(string(s), v) {
			return s, true
		}
	}
	s, ok := signAliases[strings.ToLower(v)]
	return s, ok
}

// SignFromLongitude returns the sidereal sign containing lon degrees.
func SignFromLongitude(lon float64) Sign {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return ""
	}
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return SignAt(int(lon / 30))
}
