// Package clock formats multi-timezone time displays for clock modules. The
// engine quantizes time into buckets (seconds or minutes) so callers can skip
// redraw work when the displayed text cannot have changed, and caches
// per-zone formatting resources until settings or the environment change.
package clock

// TimezoneMode selects how a clock module resolves its zone(s).
type TimezoneMode string

const (
	ModeSystem TimezoneMode = "system"
	ModeUTC    TimezoneMode = "utc"
	ModeCustom TimezoneMode = "custom"
	ModeWorld  TimezoneMode = "world"
)

// LabelStyle selects how zone labels render next to the time.
type LabelStyle string

const (
	LabelCompact LabelStyle = "compact"
	LabelFull    LabelStyle = "full"
)

// MaxWorldZones caps the zones a world-mode clock can show.
const MaxWorldZones = 4

// Settings is the full configuration of one clock module. Instances are
// value types; the state store owns the canonical copy per module id.
type Settings struct {
	Enabled       bool         `json:"isEnabled" plist:"isEnabled"`
	Use24Hour     bool         `json:"use24Hour" plist:"use24Hour"`
	ShowSeconds   bool         `json:"showSeconds" plist:"showSeconds"`
	ShowAMPM      bool         `json:"showAMPM" plist:"showAMPM"`
	Mode          TimezoneMode `json:"timezoneMode" plist:"timezoneMode"`
	ShowZoneLabel bool         `json:"showTimezoneLabel" plist:"showTimezoneLabel"`
	LabelStyle    LabelStyle   `json:"labelStyle" plist:"labelStyle"`
	Zones         []string     `json:"selectedTimezones" plist:"selectedTimezones"`
}

// DefaultSettings returns the configuration of a freshly created clock.
func DefaultSettings() Settings {
	return Settings{
		Enabled:    true,
		Use24Hour:  true,
		Mode:       ModeSystem,
		LabelStyle: LabelCompact,
	}
}

// Equal reports whether two settings are effectively identical.
func (s Settings) Equal(o Settings) bool {
	if s.Enabled != o.Enabled || s.Use24Hour != o.Use24Hour ||
		s.ShowSeconds != o.ShowSeconds || s.ShowAMPM != o.ShowAMPM ||
		s.Mode != o.Mode || s.ShowZoneLabel != o.ShowZoneLabel ||
		s.LabelStyle != o.LabelStyle || len(s.Zones) != len(o.Zones) {
		return false
	}
	for i := range s.Zones {
		if s.Zones[i] != o.Zones[i] {
			return false
		}
	}
	return true
}

// Clamped returns a copy with the mode and label style defaulted, the zone
// list filtered to resolvable IANA ids (near-misses repaired), and the zone
// count capped: one zone for single-zone modes, MaxWorldZones for world mode.
func (s Settings) Clamped() Settings {
	out := s
	switch out.Mode {
	case ModeSystem, ModeUTC, ModeCustom, ModeWorld:
	default:
		out.Mode = ModeSystem
	}
	switch out.LabelStyle {
	case LabelCompact, LabelFull:
	default:
		out.LabelStyle = LabelCompact
	}
	limit := 1
	if out.Mode == ModeWorld {
		limit = MaxWorldZones
	}
	zones := make([]string, 0, limit)
	for _, raw := range s.Zones {
		if len(zones) == limit {
			break
		}
		if id, ok := Resolve(raw); ok {
			zones = append(zones, id)
		}
	}
	out.Zones = zones
	return out
}
