package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUserNormalizesEmailAndDefaultsRole(t *testing.T) {
	user, err := NewUser("  Alice@Example.COM ", " Alice ", "")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "Alice", user.FullName)
	require.Equal(t, RoleCustomer, user.Role)
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("", "", "")
	require.ErrorIs(t, err, ErrEmptyEmail)

	_, err = NewUser("nobody", "", "")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("a@b.c", "", Role("owner"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestCallerCapabilities(t *testing.T) {
	cases := []struct {
		role     Role
		purchase bool
		hold     bool
		manage   bool
	}{
		{RoleCustomer, true, false, false},
		{RoleSalesRep, false, true, false},
		{RoleAdmin, true, true, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			caller := Caller{ID: 1, Role: tc.role}
			require.Equal(t, tc.purchase, caller.Can(CapabilityPurchase))
			require.Equal(t, tc.hold, caller.Can(CapabilityHoldCases))
			require.Equal(t, tc.manage, caller.Can(CapabilityManage))
		})
	}
	require.False(t, Caller{Role: RoleAdmin}.Can(CapabilityManage))
}
