package checks

import "strings"

// Category classifies a finding for icon selection and grouping.
type Category string

const (
	CategoryFailedUnit        Category = "failed-unit"
	CategoryJournalError      Category = "journal-error"
	CategoryUpgradablePackage Category = "upgradable-package"
	CategoryUnavailable       Category = "check-unavailable"
)

// Finding is a single reportable maintenance issue.
type Finding struct {
	Category Category
	Check    string
	Summary  string
	Detail   string
}

// Result captures one check's outcome. Unavailable results carry a single
// CategoryUnavailable finding so partial failures still surface in reports.
type Result struct {
	Check       string
	Findings    []Finding
	Unavailable bool
	Detail      string
}

// HasFindings reports whether the result produced anything reportable beyond
// availability problems.
func (r Result) HasFindings() bool {
	for _, f := range r.Findings {
		if f.Category != CategoryUnavailable {
			return true
		}
	}
	return false
}

// TotalFindings counts reportable findings across results, unavailable
// markers included.
func TotalFindings(results []Result) int {
	total := 0
	for _, r := range results {
		total += len(r.Findings)
	}
	return total
}

// Unavailable builds the degraded result for a check whose tool failed.
func Unavailable(check string, err error) Result {
	detail := ""
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	return Result{
		Check:       check,
		Unavailable: true,
		Detail:      detail,
		Findings: []Finding{{
			Category: CategoryUnavailable,
			Check:    check,
			Summary:  check + " check unavailable",
			Detail:   detail,
		}},
	}
}
