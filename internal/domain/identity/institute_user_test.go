package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *InstituteUser {
	t.Helper()
	u, err := NewInstituteUser(uuid.New(), "Asha Verma", "asha@sunrise.edu", "", "s3cret-pass", RoleAccountant, "")
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func TestNewInstituteUser(t *testing.T) {
	t.Run("creates an active account with hashed password", func(t *testing.T) {
		instituteID := uuid.New()

		u, err := NewInstituteUser(instituteID, "Asha Verma", "Asha@Sunrise.edu", "+91-9800000001", "s3cret-pass", RolePrincipal, "")

		require.NoError(t, err)
		assert.Equal(t, instituteID, u.InstituteID)
		assert.Equal(t, "asha@sunrise.edu", u.Email)
		assert.Equal(t, UserStatusActive, u.Status)
		assert.Equal(t, DefaultPermissions, u.Permissions)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	})

	t.Run("fails on invalid role", func(t *testing.T) {
		u, err := NewInstituteUser(uuid.New(), "Asha", "asha@sunrise.edu", "", "s3cret-pass", Role("Janitor"), "")

		assert.Error(t, err)
		assert.Nil(t, u)
	})

	t.Run("fails on short password", func(t *testing.T) {
		u, err := NewInstituteUser(uuid.New(), "Asha", "asha@sunrise.edu", "", "abc", RoleAdmin, "")

		assert.Error(t, err)
		assert.Nil(t, u)
	})
}

func TestPasswordVerification(t *testing.T) {
	u := newTestUser(t)

	assert.True(t, u.VerifyPassword("s3cret-pass"))
	assert.False(t, u.VerifyPassword("wrong-pass"))

	t.Run("rehash replaces the stored hash", func(t *testing.T) {
		before := u.PasswordHash

		require.NoError(t, u.SetPassword("another-pass"))

		assert.NotEqual(t, before, u.PasswordHash)
		assert.True(t, u.VerifyPassword("another-pass"))
		assert.False(t, u.VerifyPassword("s3cret-pass"))
	})
}

func TestUserMutations(t *testing.T) {
	t.Run("status is an explicit value, not a flip", func(t *testing.T) {
		u := newTestUser(t)

		require.NoError(t, u.SetStatus(UserStatusInactive))
		assert.False(t, u.IsActive())

		require.NoError(t, u.SetStatus(UserStatusInactive))
		assert.Equal(t, UserStatusInactive, u.Status)

		assert.Error(t, u.SetStatus(UserStatus("Suspended")))
	})

	t.Run("login stamps last login", func(t *testing.T) {
		u := newTestUser(t)
		require.Nil(t, u.LastLogin)

		u.RecordLogin()

		require.NotNil(t, u.LastLogin)
	})

	t.Run("empty permission string falls back to the default", func(t *testing.T) {
		u := newTestUser(t)

		u.SetPermissions("")

		assert.Equal(t, DefaultPermissions, u.Permissions)
	})

	t.Run("email is normalized", func(t *testing.T) {
		u := newTestUser(t)

		require.NoError(t, u.SetEmail("  NEW@Sunrise.EDU "))

		assert.Equal(t, "new@sunrise.edu", u.Email)
	})
}
