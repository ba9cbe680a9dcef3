package clock

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

// worldCharBudget caps the joined world-mode text before truncation.
const worldCharBudget = 60

// worldSeparator joins the per-zone segments of a world-mode clock.
const worldSeparator = " · "

// Engine renders the display text for one clock module. It caches resolved
// locations per zone id and skips recomputation while the current time bucket
// (a whole second or whole minute, depending on settings) is unchanged.
type Engine struct {
	mu         sync.Mutex
	settings   Settings
	locs       map[string]*time.Location
	layout     string
	dirty      bool
	hasBucket  bool
	lastBucket int64

	// systemZone is swappable so tests do not depend on the host zone.
	systemZone func() *time.Location
}

func NewEngine(settings Settings) *Engine {
	e := &Engine{
		settings:   settings.Clamped(),
		locs:       make(map[string]*time.Location),
		dirty:      true,
		systemZone: func() *time.Location { return time.Local },
	}
	return e
}

// Settings returns the engine's current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// ApplySettings replaces the settings if they differ from the current ones,
// invalidating the formatter cache and the bucket so the next tick
// recomputes. Identical settings are a no-op.
func (e *Engine) ApplySettings(s Settings) {
	clamped := s.Clamped()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.settings.Equal(clamped) {
		return
	}
	e.settings = clamped
	e.invalidateLocked()
}

// MarkDirty invalidates cached formatting resources without touching
// settings. Called when the system timezone or locale changes.
func (e *Engine) MarkDirty() {
	e.mu.Lock()
	e.invalidateLocked()
	e.mu.Unlock()
}

func (e *Engine) invalidateLocked() {
	e.locs = make(map[string]*time.Location)
	e.dirty = true
	e.hasBucket = false
}

// Next returns the display text for now. ok is false when the current time
// bucket already produced this text and nothing was invalidated, which the
// scheduler treats as "no change".
func (e *Engine) Next(now time.Time) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bucket := now.Unix()
	if !e.settings.ShowSeconds {
		bucket = now.Unix() / 60
	}
	if e.hasBucket && bucket == e.lastBucket && !e.dirty {
		return "", false
	}
	if e.dirty {
		e.layout = buildLayout(e.settings)
		e.dirty = false
	}
	e.hasBucket = true
	e.lastBucket = bucket
	return e.composeLocked(now), true
}

// Detail returns the expanded hover text: one line per resolved zone with
// seconds always shown.
func (e *Engine) Detail(now time.Time) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	layout := "15:04:05"
	if !e.settings.Use24Hour {
		layout = "3:04:05 PM"
	}
	lines := make([]string, 0, MaxWorldZones)
	for _, z := range e.resolveLocked() {
		local := now.In(z.loc)
		lines = append(lines, zoneCity(z.id)+"  "+local.Format(layout)+"  "+zoneLabel(local, z.id, LabelCompact))
	}
	return strings.Join(lines, "\n")
}

type resolvedZone struct {
	id  string
	loc *time.Location
}

// resolveLocked maps the timezone mode onto concrete zones. Invalid custom
// ids fall back to the system zone so the clock never goes blank.
func (e *Engine) resolveLocked() []resolvedZone {
	system := resolvedZone{id: "", loc: e.systemZone()}
	switch e.settings.Mode {
	case ModeUTC:
		return []resolvedZone{{id: "UTC", loc: time.UTC}}
	case ModeCustom:
		for _, id := range e.settings.Zones {
			if loc := e.location(id); loc != nil {
				return []resolvedZone{{id: id, loc: loc}}
			}
		}
		return []resolvedZone{system}
	case ModeWorld:
		zones := make([]resolvedZone, 0, MaxWorldZones)
		for _, id := range e.settings.Zones {
			if len(zones) == MaxWorldZones {
				break
			}
			if loc := e.location(id); loc != nil {
				zones = append(zones, resolvedZone{id: id, loc: loc})
			}
		}
		if len(zones) > 0 {
			return zones
		}
		return []resolvedZone{system}
	default:
		return []resolvedZone{system}
	}
}

func (e *Engine) location(id string) *time.Location {
	if loc, ok := e.locs[id]; ok {
		return loc
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		loc = nil
	}
	e.locs[id] = loc
	return loc
}

func (e *Engine) composeLocked(now time.Time) string {
	zones := e.resolveLocked()
	segments := make([]string, 0, len(zones))
	for _, z := range zones {
		local := now.In(z.loc)
		seg := local.Format(e.layout)
		if label := e.labelForLocked(local, z.id); label != "" {
			seg += " " + label
		}
		segments = append(segments, seg)
	}
	text := strings.Join(segments, worldSeparator)
	return truncate(text, worldCharBudget)
}

func (e *Engine) labelForLocked(local time.Time, id string) string {
	if !e.settings.ShowZoneLabel {
		return ""
	}
	if id == "UTC" && e.settings.Mode == ModeUTC {
		// Z only reads as UTC in 24-hour compact notation.
		if e.settings.Use24Hour && e.settings.LabelStyle == LabelCompact {
			return "Z"
		}
		return "UTC"
	}
	return zoneLabel(local, id, e.settings.LabelStyle)
}

func buildLayout(s Settings) string {
	if s.Use24Hour {
		if s.ShowSeconds {
			return "15:04:05"
		}
		return "15:04"
	}
	layout := "3:04"
	if s.ShowSeconds {
		layout = "3:04:05"
	}
	if s.ShowAMPM {
		layout += " PM"
	}
	return layout
}

// zoneLabel derives the label shown next to a zone's time: the OS
// abbreviation for the date when it has one (DST-aware), otherwise initials
// of the zone's city segment, otherwise the city's first three letters.
func zoneLabel(local time.Time, id string, style LabelStyle) string {
	city := zoneCity(id)
	if style == LabelFull && city != "" {
		return city
	}
	if abbr := local.Format("MST"); usableAbbreviation(abbr) {
		return abbr
	}
	if city == "" {
		return ""
	}
	var initials strings.Builder
	for _, word := range strings.Fields(city) {
		r := []rune(word)[0]
		initials.WriteRune(unicode.ToUpper(r))
	}
	if initials.Len() > 0 {
		return initials.String()
	}
	runes := []rune(strings.ToUpper(city))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// usableAbbreviation rejects the numeric offsets Go substitutes when a zone
// has no short name (e.g. "+0530", "-07").
func usableAbbreviation(abbr string) bool {
	if abbr == "" {
		return false
	}
	for _, r := range abbr {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// zoneCity extracts the human city segment from an IANA id.
func zoneCity(id string) string {
	if id == "" || id == "UTC" {
		return ""
	}
	seg := id
	if i := strings.LastIndex(id, "/"); i >= 0 {
		seg = id[i+1:]
	}
	return strings.ReplaceAll(seg, "_", " ")
}

func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget-1]) + "…"
}
