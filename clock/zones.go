package clock

import (
	"strings"
	"time"

	lev "github.com/agnivade/levenshtein"
)

// catalog is the curated zone list the settings surface offers. Persisted
// state that went through hand editing or a lossy export often carries
// case-mangled or slightly misspelled ids; Resolve repairs those against this
// list instead of silently dropping the zone.
var catalog = []string{
	"UTC",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/Anchorage",
	"America/Sao_Paulo",
	"America/Mexico_City",
	"America/Toronto",
	"America/Vancouver",
	"Europe/London",
	"Europe/Paris",
	"Europe/Berlin",
	"Europe/Madrid",
	"Europe/Rome",
	"Europe/Amsterdam",
	"Europe/Zurich",
	"Europe/Stockholm",
	"Europe/Warsaw",
	"Europe/Moscow",
	"Europe/Istanbul",
	"Africa/Cairo",
	"Africa/Johannesburg",
	"Africa/Lagos",
	"Asia/Dubai",
	"Asia/Karachi",
	"Asia/Kolkata",
	"Asia/Dhaka",
	"Asia/Bangkok",
	"Asia/Singapore",
	"Asia/Hong_Kong",
	"Asia/Shanghai",
	"Asia/Tokyo",
	"Asia/Seoul",
	"Asia/Jakarta",
	"Australia/Sydney",
	"Australia/Melbourne",
	"Australia/Perth",
	"Pacific/Auckland",
	"Pacific/Honolulu",
}

// maxZoneEditDistance bounds how different a persisted id may be from a
// catalog entry before it is dropped rather than repaired.
const maxZoneEditDistance = 2

// Catalog returns the curated zone ids offered by the settings surface.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Resolve validates an IANA timezone id. Valid ids pass through unchanged;
// invalid ones are matched case-insensitively and then by bounded edit
// distance against the catalog. ok is false when nothing usable remains.
func Resolve(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", false
	}
	if _, err := time.LoadLocation(id); err == nil {
		return id, true
	}
	lower := strings.ToLower(id)
	for _, want := range catalog {
		if strings.ToLower(want) == lower {
			return want, true
		}
	}
	best := ""
	bestDist := maxZoneEditDistance + 1
	for _, want := range catalog {
		d := lev.ComputeDistance(lower, strings.ToLower(want))
		if d < bestDist {
			best = want
			bestDist = d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
