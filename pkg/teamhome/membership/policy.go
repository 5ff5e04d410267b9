// Package membership decides roster permissions. Everything here is pure:
// no I/O, no side effects, and a nil or empty roster fails closed.
package membership

import "github.com/mikepea/teamhome/pkg/teamhome/models"

// FreeTierMemberLimit is the roster size at which non-premium teams stop
// accepting invitations
const FreeTierMemberLimit = 5

// Find returns the roster entry of userID
func Find(team *models.Team, userID uint) (models.TeamMember, bool) {
	if team == nil || userID == 0 {
		return models.TeamMember{}, false
	}
	for _, m := range team.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return models.TeamMember{}, false
}

// IsAdmin reports whether userID is on the team with the admin flag set
func IsAdmin(team *models.Team, userID uint) bool {
	m, ok := Find(team, userID)
	return ok && m.Admin
}

// AlreadyMember reports whether userID is on the team
func AlreadyMember(team *models.Team, userID uint) bool {
	_, ok := Find(team, userID)
	return ok
}

// CanInvite reports whether the team may take on more members
func CanInvite(team *models.Team) bool {
	if team == nil {
		return false
	}
	return len(team.Members) < FreeTierMemberLimit || team.Premium
}

// AdminCount returns the number of admins on the roster
func AdminCount(team *models.Team) int {
	if team == nil {
		return 0
	}
	n := 0
	for _, m := range team.Members {
		if m.Admin {
			n++
		}
	}
	return n
}

// NewMembers returns non-admin roster entries for the candidates that are
// not on the team yet, in candidate order. Duplicate candidates collapse.
func NewMembers(team *models.Team, candidates []models.User) []models.TeamMember {
	seen := make(map[uint]bool, len(candidates))
	var added []models.TeamMember
	for _, u := range candidates {
		if u.ID == 0 || seen[u.ID] || AlreadyMember(team, u.ID) {
			continue
		}
		seen[u.ID] = true
		added = append(added, models.TeamMember{UserID: u.ID, Admin: false, User: u})
	}
	return added
}
