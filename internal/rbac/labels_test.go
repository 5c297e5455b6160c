package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/shared"
	_ "github.com/intralink/intralink/testing"
)

func TestExpandIncludesLabelAndSynonyms(t *testing.T) {
	accepted := Expand(LabelAdmin)

	for _, name := range []string{"admin", RoleSystemAdmin, RoleAdministrator} {
		_, ok := accepted[name]
		require.True(t, ok, "expected %q in expanded set", name)
	}
	_, ok := accepted[RoleDepartmentManager]
	require.False(t, ok, "manager synonym must not leak into admin expansion")
}

func TestExpandMultipleLabels(t *testing.T) {
	accepted := Expand(LabelManager, LabelEmployee)

	for _, name := range []string{"manager", "employee", RoleDepartmentManager, RoleManager, RoleEmployee, RoleUser} {
		_, ok := accepted[name]
		require.True(t, ok, "expected %q in expanded set", name)
	}
}

func TestExpandCanonicalNamePassesThrough(t *testing.T) {
	accepted := Expand(RoleSystemAdmin)

	_, ok := accepted[RoleSystemAdmin]
	require.True(t, ok)
	require.Len(t, accepted, 1)
}

func TestValidateLabels(t *testing.T) {
	require.NoError(t, ValidateLabels(LabelAdmin, LabelManager, LabelEmployee))
	require.NoError(t, ValidateLabels(RoleSystemAdmin, RoleUser))
	require.Error(t, ValidateLabels("superuser"))
	require.Error(t, ValidateLabels("Admin"))
}

func TestMustLabelsPanicsOnTypo(t *testing.T) {
	require.Panics(t, func() { MustLabels("admn") })
	require.NotPanics(t, func() { MustLabels(LabelAdmin) })
}

func principalWith(roles []string, role *string) *shared.Principal {
	return &shared.Principal{ID: 1, Roles: roles, Role: role}
}

func TestHasAnyPrefersResolvedRoles(t *testing.T) {
	denormalized := RoleEmployee
	p := principalWith([]string{RoleAdministrator}, &denormalized)
	require.True(t, HasAny(p, LabelAdmin))

	p = principalWith(nil, &denormalized)
	require.False(t, HasAny(p, LabelAdmin))
	require.True(t, HasAny(p, LabelEmployee))
}
