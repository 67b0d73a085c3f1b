package state

import (
	"sort"
	"strconv"

	"github.com/noah-isme/campus-console/internal/models"
)

// NoSemesterLabel is shown on the disabled placeholder when no semester fits the student's year.
const NoSemesterLabel = "No valid semester available"

// AllowedSemesterIDs maps a study year to its two semesters: year y -> {2y-1, 2y}.
// Years outside 1..4 have no semesters.
func AllowedSemesterIDs(year int) []int {
	if year < 1 || year > 4 {
		return nil
	}
	return []int{2*year - 1, 2 * year}
}

// SemesterOption is one entry of the semester selector.
type SemesterOption struct {
	Value    int    `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// SemesterChoice is the resolved semester selector.
type SemesterChoice struct {
	Options   []SemesterOption `json:"options"`
	Available bool             `json:"available"`
}

// Allows reports whether id is one of the selectable options.
func (c SemesterChoice) Allows(id int) bool {
	if !c.Available {
		return false
	}
	for _, opt := range c.Options {
		if !opt.Disabled && opt.Value == id {
			return true
		}
	}
	return false
}

// ResolveSemesterOptions narrows the fetched semesters to those valid for year.
// An empty result yields a single disabled placeholder instead of an empty selector.
// This is a convenience for the operator, not an integrity check.
func ResolveSemesterOptions(year int, semesters []models.Semester) SemesterChoice {
	allowed := make(map[int]struct{}, 2)
	for _, id := range AllowedSemesterIDs(year) {
		allowed[id] = struct{}{}
	}

	seen := make(map[int]struct{}, len(allowed))
	options := make([]SemesterOption, 0, len(allowed))
	for _, sem := range semesters {
		if _, ok := allowed[sem.SemesterID]; !ok {
			continue
		}
		if _, dup := seen[sem.SemesterID]; dup {
			continue
		}
		seen[sem.SemesterID] = struct{}{}
		label := sem.SemesterName
		if label == "" {
			label = "Semester " + strconv.Itoa(sem.SemesterID)
		}
		options = append(options, SemesterOption{Value: sem.SemesterID, Label: label})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Value < options[j].Value })

	if len(options) == 0 {
		return SemesterChoice{
			Options: []SemesterOption{{Value: 0, Label: NoSemesterLabel, Disabled: true}},
		}
	}
	return SemesterChoice{Options: options, Available: true}
}
