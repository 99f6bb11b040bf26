package vcard

import "github.com/kithhq/kith/pkg/fact"

// orgGroup is one ORG/TITLE/ROLE positional grouping, per §4.2.1 step 5.
type orgGroup struct {
	orgName string
	title   *string
	role    *string
}

func ptrIfSet(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// pushOrg opens a new group, unless orgName is empty (a blank ORG line
// contributes nothing).
func pushOrg(groups []orgGroup, orgName string) []orgGroup {
	if orgName == "" {
		return groups
	}
	return append(groups, orgGroup{orgName: orgName})
}

// attachTitle attaches a TITLE to the most recently opened group, opening
// one with an empty org name if none exists yet.
func attachTitle(groups []orgGroup, title string) []orgGroup {
	if title == "" {
		return groups
	}
	if len(groups) == 0 {
		groups = append(groups, orgGroup{})
	}
	groups[len(groups)-1].title = ptrIfSet(title)
	return groups
}

func attachRole(groups []orgGroup, role string) []orgGroup {
	if role == "" {
		return groups
	}
	if len(groups) == 0 {
		groups = append(groups, orgGroup{})
	}
	groups[len(groups)-1].role = ptrIfSet(role)
	return groups
}

// flushOrgGroups turns accumulated groups into org_membership facts. A
// group whose org name was never set (TITLE/ROLE with no preceding ORG)
// falls back to a placeholder name, matching the original implementation.
func flushOrgGroups(groups []orgGroup) []fact.Value {
	out := make([]fact.Value, 0, len(groups))
	for _, g := range groups {
		name := g.orgName
		if name == "" {
			name = "(unknown)"
		}
		out = append(out, fact.OrgMembershipValue{
			OrgName: name,
			Title:   g.title,
			Role:    g.role,
		})
	}
	return out
}
