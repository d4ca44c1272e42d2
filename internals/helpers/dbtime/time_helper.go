// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals filled by the school-year middleware
const (
	LocSchoolLoc        = "school_loc"         // *time.Location
	LocSchoolYear       = "school_year"        // string, e.g. "2024-2025"
	DateLayout          = "2006-01-02"
	defaultSchoolTZName = "Asia/Manila"
)

var (
	locMu    sync.Mutex
	locCache = map[string]*time.Location{}
)

// LoadLocation resolves an IANA zone name once and caches it. Unknown or empty
// names fall back to Asia/Manila, then UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultSchoolTZName
	}
	locMu.Lock()
	defer locMu.Unlock()
	if loc, ok := locCache[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if loc, err = time.LoadLocation(defaultSchoolTZName); err != nil {
			loc = time.UTC
		}
	}
	locCache[name] = loc
	return loc
}

// GetSchoolLocation returns the location set by middleware, UTC otherwise.
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if loc, ok := c.Locals(LocSchoolLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}

// GetSchoolYear returns the request-scoped current school year ("" if unset).
func GetSchoolYear(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	s, _ := c.Locals(LocSchoolYear).(string)
	return s
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseDate accepts "YYYY-MM-DD" (read in loc) or RFC3339 and returns the
// calendar day at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return StartOfDay(t, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}
