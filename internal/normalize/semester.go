package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// canonicalSemester matches "{Odd|Even}[ Semester] YYYY-YY" in any casing and
// spacing, with either an ASCII hyphen or an en dash between the years.
var canonicalSemester = regexp.MustCompile(`(?i)^(odd|even)(?:\s+semester)?\s+(\d{4})\s*[-\x{2013}]\s*(\d{2})$`)

// Semester canonicalizes a free-text semester label to
// "{Odd|Even} Semester YYYY-YY". The function is pure and idempotent.
//
// A bare integer 1-6 derives the academic year from now; callers that know
// the academic year should use SemesterInYear instead so results do not
// depend on when the request happens to run.
func Semester(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := canonicalSemester.FindStringSubmatch(s); m != nil {
		term := "Odd"
		if strings.EqualFold(m[1], "even") {
			term = "Even"
		}
		return fmt.Sprintf("%s Semester %s-%s", term, m[2], m[3])
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 6 {
		return semesterLabel(n%2 == 1, now.Year())
	}

	// Unrecognized labels pass through trimmed
	return s
}

// SemesterInYear canonicalizes a semester label with an explicit academic
// year name ("2025-26"). When the label is a bare integer the given year is
// used instead of the wall clock; otherwise the behavior matches Semester.
func SemesterInYear(raw, academicYear string, now time.Time) string {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 6 {
		return Semester(raw, now)
	}

	start, ok := academicYearStart(academicYear)
	if !ok {
		return Semester(raw, now)
	}
	return semesterLabel(n%2 == 1, start)
}

// academicYearName matches year names like "2025-26" or "2025-2026".
var academicYearName = regexp.MustCompile(`^(\d{4})\s*[-\x{2013}]\s*(\d{2}|\d{4})$`)

func academicYearStart(name string) (int, bool) {
	m := academicYearName.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return 0, false
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return start, true
}

func semesterLabel(odd bool, startYear int) string {
	term := "Even"
	if odd {
		term = "Odd"
	}
	return fmt.Sprintf("%s Semester %d-%02d", term, startYear, (startYear+1)%100)
}
