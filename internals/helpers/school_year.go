package helper

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var reSchoolYear = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// SchoolYearFor returns the "YYYY-YYYY" school year t falls in. A school year
// starts on the first day of startMonth.
func SchoolYearFor(t time.Time, startMonth time.Month) string {
	if startMonth < time.January || startMonth > time.December {
		startMonth = time.June
	}
	y := t.Year()
	if t.Month() < startMonth {
		y--
	}
	return fmt.Sprintf("%d-%d", y, y+1)
}

// IsValidSchoolYear accepts "2024-2025" and rejects "2024-2026", "24-25", "".
func IsValidSchoolYear(s string) bool {
	m := reSchoolYear.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	return b == a+1
}
