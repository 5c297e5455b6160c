package rbac

import "fmt"

// Canonical stored role names.
const (
	RoleSystemAdmin       = "System Admin"
	RoleAdministrator     = "Administrator"
	RoleDepartmentManager = "Department Manager"
	RoleManager           = "Manager"
	RoleEmployee          = "Employee"
	RoleUser              = "User"
)

// Simplified labels accepted by route declarations.
const (
	LabelAdmin    = "admin"
	LabelManager  = "manager"
	LabelEmployee = "employee"
)

// labelSynonyms maps a simplified label to the canonical role names it
// stands for. The label itself stays in the expanded set so a literally
// stored label name still matches.
var labelSynonyms = map[string][]string{
	LabelAdmin:    {RoleSystemAdmin, RoleAdministrator},
	LabelManager:  {RoleDepartmentManager, RoleManager},
	LabelEmployee: {RoleEmployee, RoleUser},
}

var canonicalRoles = map[string]struct{}{
	RoleSystemAdmin:       {},
	RoleAdministrator:     {},
	RoleDepartmentManager: {},
	RoleManager:           {},
	RoleEmployee:          {},
	RoleUser:              {},
}

// Expand resolves accepted labels into the full set of role names that
// grant access: every label verbatim plus its synonyms. Matching against
// the result is case-sensitive exact membership, no normalization.
func Expand(labels ...string) map[string]struct{} {
	accepted := make(map[string]struct{}, len(labels)*3)
	for _, label := range labels {
		accepted[label] = struct{}{}
		for _, name := range labelSynonyms[label] {
			accepted[name] = struct{}{}
		}
	}
	return accepted
}

// ValidateLabels rejects labels that are neither simplified labels nor
// canonical role names. Route declarations run this at startup so typos
// fail construction instead of silently denying every request.
func ValidateLabels(labels ...string) error {
	for _, label := range labels {
		if _, ok := labelSynonyms[label]; ok {
			continue
		}
		if _, ok := canonicalRoles[label]; ok {
			continue
		}
		return fmt.Errorf("rbac: unknown role label %q", label)
	}
	return nil
}

// MustLabels panics on an unknown label. Used by route declarations.
func MustLabels(labels ...string) []string {
	if err := ValidateLabels(labels...); err != nil {
		panic(err)
	}
	return labels
}
