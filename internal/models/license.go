package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// License represents one seat grant scoping a course to a school (company).
// Counts come from the LMS registry, which is the source of truth; Used can
// transiently exceed Allocation under concurrent allocations.
type License struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CompanyID  int64  `json:"company_id"`
	CourseID   int64  `json:"course_id"`
	Allocation int    `json:"allocation"`
	Used       int    `json:"used"`
	// Expiry is unix seconds. IOMAD reports 0 for licenses it considers
	// already expired, not for "no expiry". Keep that behavior.
	Expiry int64 `json:"expiry"`
}

// Available returns the remaining seat count, floored at zero.
func (l *License) Available() int {
	if l.Used >= l.Allocation {
		return 0
	}
	return l.Allocation - l.Used
}

// Expired reports whether the license is expired at the given time.
// Expiry of 0 always counts as expired; a negative value is the registry's
// never-expires sentinel.
func (l *License) Expired(now time.Time) bool {
	if l.Expiry == 0 {
		return true
	}
	return l.Expiry > 0 && l.Expiry < now.Unix()
}

// Usable reports whether a seat can be allocated from this license.
func (l *License) Usable(now time.Time) bool {
	return !l.Expired(now) && l.Available() > 0
}

var licenseNamePattern = regexp.MustCompile(`License for course (\d+) in school (\d+)`)

// ParseLicenseScope extracts (companyID, courseID) from the legacy license
// name pattern. It is the only place the name encoding is known; callers
// should prefer the explicit fields when the registry returns them.
func ParseLicenseScope(name string) (companyID, courseID int64, err error) {
	m := licenseNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, fmt.Errorf("license name %q does not encode a course/school scope", name)
	}
	courseID, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	companyID, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return companyID, courseID, nil
}

// ScopeMatches reports whether the license applies to the given course. The
// explicit CourseID field wins; the name pattern is the fallback for older
// registry records that only encode scope in the name.
func (l *License) ScopeMatches(courseID int64) bool {
	if l.CourseID != 0 {
		return l.CourseID == courseID
	}
	_, parsedCourse, err := ParseLicenseScope(l.Name)
	if err != nil {
		return false
	}
	return parsedCourse == courseID
}
