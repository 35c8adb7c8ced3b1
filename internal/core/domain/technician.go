package domain

import "time"

// PolicyCutoff is the instant the payout policy changed for Arnold
// (June 1, 2020: payout reduced from $50 to $17).
var PolicyCutoff = time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)

// TechnicianProfile describes technician-specific display behavior as data:
// the chart color and, where one applies, the policy-change cutoff. Keeping
// this in a table avoids per-technician branching in handlers and services.
type TechnicianProfile struct {
	Name         string
	Color        string
	PolicyCutoff *time.Time
}

// HasPolicyCutoff reports whether a before/after comparison is defined for
// this technician.
func (p TechnicianProfile) HasPolicyCutoff() bool {
	return p.PolicyCutoff != nil
}

// DefaultTechnicians is the known technician set with their display colors.
func DefaultTechnicians() []TechnicianProfile {
	cutoff := PolicyCutoff
	return []TechnicianProfile{
		{Name: "Arnold", Color: "red", PolicyCutoff: &cutoff},
		{Name: "Mendez", Color: "blue"},
		{Name: "Shawn", Color: "green"},
	}
}

// FindTechnician returns the profile for the given name, if known.
func FindTechnician(profiles []TechnicianProfile, name string) (TechnicianProfile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return TechnicianProfile{}, false
}
