package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type object = map[string]any

// NormalizeChart decodes a loosely-typed chart payload into a Chart.
// Legacy aliases are accepted; unknown and duplicate planets are dropped,
// the first occurrence of a planet wins.
func NormalizeChart(data []byte) (Chart, error) {
	var raw object
	if err := json.Unmarshal(data, &raw); err != nil {
		return Chart{}, fmt.Errorf("%w: %v", ErrInvalidChart, err)
	}
	return ChartFromMap(raw)
}

// NormalizeProfile decodes a loosely-typed profile payload.
func NormalizeProfile(data []byte) (Profile, error) {
	var raw object
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return ProfileFromMap(raw), nil
}

// NormalizePerson accepts either {"profile":{...},"chart":{...}} or a flat
// object carrying both profile and chart keys.
func NormalizePerson(data []byte) (Person, error) {
	var raw object
	if err := json.Unmarshal(data, &raw); err != nil {
		return Person{}, fmt.Errorf("%w: %v", ErrInvalidChart, err)
	}
	return PersonFromMap(raw)
}

// PersonFromMap is NormalizePerson over an already decoded object.
func PersonFromMap(raw object) (Person, error) {
	chartRaw := raw
	if c, ok := raw["chart"].(object); ok {
		chartRaw = c
	}
	profileRaw := raw
	if p, ok := raw["profile"].(object); ok {
		profileRaw = p
	}
	c, err := ChartFromMap(chartRaw)
	if err != nil {
		return Person{}, err
	}
	return Person{Profile: ProfileFromMap(profileRaw), Chart: c}, nil
}

// ProfileFromMap builds a Profile from a decoded object.
func ProfileFromMap(raw object) Profile {
	p := Profile{
		Name:   pickString(raw, "name", "full_name", "fullName"),
		Birth:  pickString(raw, "birth", "birth_date", "birthDate", "dob", "date"),
		Gender: ParseGender(pickString(raw, "gender", "sex")),
	}
	if s, ok := ParseSign(pickString(raw, "ascSign", "asc_sign")); ok {
		p.AscSign = s
	}
	if n, ok := raw["names"].(object); ok {
		p.Names = NameForms{
			Nominative: pickString(n, "nominative", "nom"),
			Genitive:   pickString(n, "genitive", "gen"),
			Dative:     pickString(n, "dative", "dat"),
		}
	} else {
		p.Names = NameForms{
			Nominative: pickString(raw, "name_nominative", "nameNominative"),
			Genitive:   pickString(raw, "name_genitive", "nameGenitive"),
			Dative:     pickString(raw, "name_dative", "nameDative"),
		}
	}
	return p
}

// ChartFromMap builds a Chart from a decoded object.
func ChartFromMap(raw object) (Chart, error) {
	if raw == nil {
		return Chart{}, ErrInvalidChart
	}
	var c Chart
	c.AscSign = ascendantOf(raw)
	c.Houses = housesOf(raw)

	seen := make(map[PlanetCode]bool, len(PlanetCodes))
	for _, entry := range planetEntries(raw["planets"]) {
		p, ok := planetFromMap(entry)
		if !ok || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		c.Planets = append(c.Planets, p)
	}
	if len(c.Planets) == 0 {
		return Chart{}, fmt.Errorf("%w: no planets", ErrInvalidChart)
	}

	for i := range c.Planets {
		p := &c.Planets[i]
		if (p.House < 1 || p.House > 12) && p.Sign.Valid() {
			if h, ok := c.HouseOfSign(p.Sign); ok {
				p.House = h
			}
		}
	}
	return c, nil
}

func ascendantOf(raw object) Sign {
	switch v := raw["ascendant"].(type) {
	case object:
		if s, ok := ParseSign(pickString(v, "sign")); ok {
			return s
		}
		if lon, ok := pickFloat(v, "lon_sidereal", "lambdaDeg", "lon"); ok {
			return SignFromLongitude(lon)
		}
	case string:
		if s, ok := ParseSign(v); ok {
			return s
		}
	}
	if s, ok := ParseSign(pickString(raw, "asc_sign", "ascSign")); ok {
		return s
	}
	return ""
}

func housesOf(raw object) []House {
	var out []House
	seen := map[int]bool{}
	add := func(list []any) {
		for _, item := range list {
			m, ok := item.(object)
			if !ok {
				continue
			}
			n, ok := pickInt(m, "house", "houseIndex", "number")
			if !ok || n < 1 || n > 12 || seen[n] {
				continue
			}
			s, ok := ParseSign(pickString(m, "sign"))
			if !ok {
				continue
			}
			seen[n] = true
			out = append(out, House{Number: n, Sign: s})
		}
	}
	if list, ok := raw["houses"].([]any); ok {
		add(list)
	}
	if layout, ok := raw["north_indian_layout"].(object); ok {
		if boxes, ok := layout["boxes"].([]any); ok {
			add(boxes)
		}
	}
	return out
}

func planetEntries(v any) []object {
	switch list := v.(type) {
	case []any:
		out := make([]object, 0, len(list))
		for _, item := range list {
			if m, ok := item.(object); ok {
				out = append(out, m)
			}
		}
		return out
	case object:
		// keyed form: {"Su": {...}, "Mo": {...}} in canonical order
		out := make([]object, 0, len(list))
		for _, code := range PlanetCodes {
			for key, item := range list {
				m, ok := item.(object)
				if !ok {
					continue
				}
				if pc, ok := ParsePlanet(key); ok && pc == code {
					if _, has := m["name"]; !has {
						m["name"] = string(code)
					}
					out = append(out, m)
				}
			}
		}
		return out
	}
	return nil
}

func planetFromMap(m object) (Planet, bool) {
	code, ok := ParsePlanet(pickString(m, "name", "planet", "id"))
	if !ok {
		return Planet{}, false
	}
	p := Planet{Name: code, Role: RoleNeutral}
	if lon, ok := pickFloat(m, "lon_sidereal", "lambdaDeg", "lon"); ok {
		p.LonSidereal = lon
	}
	if s, ok := ParseSign(pickString(m, "sign")); ok {
		p.Sign = s
	} else if _, has := pickFloat(m, "lon_sidereal", "lambdaDeg", "lon"); has {
		p.Sign = SignFromLongitude(p.LonSidereal)
	}
	if h, ok := pickInt(m, "house", "houseIndex"); ok {
		p.House = h
	}
	if hs, ok := pickFloat(m, "house_strength", "houseStrength"); ok {
		p.HouseStrength = math.Max(0, math.Min(1, hs))
	}
	p.Retrograde = pickBool(m, "is_retrograde", "retrograde", "isRetrograde")
	p.Dignity = dignityOf(m)
	p.Digbala = pickBool(m, "digbala", "dig_bala", "digBala")
	p.Role = ParseRole(pickString(m, "role", "functional_role", "functionalRole", "func"))
	p.AspectBonus = finiteOrZero(m, "aspect_bonus", "aspectBonus")
	p.ConjunctionBonus = finiteOrZero(m, "conjunction_bonus", "conjunctionBonus")
	p.BorderPenalty = finiteOrZero(m, "border_penalty", "borderPenalty")
	p.SuperStrong = pickBool(m, "super_strong", "superStrong")
	p.Combust = pickBool(m, "combust", "is_combust", "isCombust")
	p.WarLost = pickBool(m, "war_lost", "warLost", "yuddha_lost", "grahaYuddhaLost")
	return p, true
}

// dignityOf gives boolean flags precedence over the dignity string.
func dignityOf(m object) Dignity {
	switch {
	case pickBool(m, "exalted", "is_exalted", "isExalted"):
		return DignityExalted
	case pickBool(m, "moolatrikona", "is_moolatrikona", "isMoolatrikona"):
		return DignityMoolatrikona
	case pickBool(m, "own_sign", "ownSign", "is_own_sign"):
		return DignityOwn
	case pickBool(m, "friend_sign", "friendSign", "friendly"):
		return DignityFriendly
	case pickBool(m, "enemy_sign", "enemySign"):
		return DignityEnemy
	case pickBool(m, "debilitated", "is_debilitated", "isDebilitated"):
		return DignityDebilitated
	}
	if d := ParseDignity(pickString(m, "dignity")); d != DignityNone {
		return d
	}
	switch strings.ToLower(pickString(m, "friendship", "sign_friendship", "signFriendship")) {
	case "friend", "friendly", "great_friend":
		return DignityFriendly
	case "enemy", "great_enemy":
		return DignityEnemy
	}
	return DignityNone
}

func pickString(m object, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func pickFloat(m object, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		}
	}
	return 0, false
}

func pickInt(m object, keys ...string) (int, bool) {
	f, ok := pickFloat(m, keys...)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

func pickBool(m object, keys ...string) bool {
	for _, k := range keys {
		switch v := m[k].(type) {
		case bool:
			if v {
				return true
			}
		case float64:
			if v != 0 {
				return true
			}
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && b {
				return true
			}
		}
	}
	return false
}

func finiteOrZero(m object, keys ...string) float64 {
	f, _ := pickFloat(m, keys...)
	return f
}
