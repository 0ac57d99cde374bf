package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("failed to parse uuid %q: %v", s, err)
	}
	return id
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleTenant.Valid())
	assert.True(t, RoleLandlord.Valid())
	assert.False(t, UserRole("admin").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestUser_ToProfile_OmitsPasswordHash(t *testing.T) {
	email := "lena@example.com"
	user := &User{
		Name:         "Lena Fields",
		Phone:        "+15550100",
		Email:        &email,
		Role:         RoleLandlord,
		PasswordHash: "bcrypt-hash",
	}
	user.ID = uuid.New()

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "Lena Fields", profile.Name)
	assert.Equal(t, "landlord", profile.Role)
	assert.Equal(t, &email, profile.Email)
}

func TestMaintenanceStatus_Valid(t *testing.T) {
	for _, s := range []MaintenanceStatus{
		StatusPending, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, s.Valid(), "status %q should be valid", s)
	}
	assert.False(t, MaintenanceStatus("Done").Valid())
	assert.False(t, MaintenanceStatus("").Valid())
}

func TestMaintenanceCategory_Valid(t *testing.T) {
	assert.True(t, CategoryPlumbing.Valid())
	assert.True(t, CategoryGeneral.Valid())
	assert.False(t, MaintenanceCategory("roofing").Valid())
}
