// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDesignStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    DesignStatus
		to      DesignStatus
		allowed bool
	}{
		{DesignStatusPending, DesignStatusApproved, true},
		{DesignStatusPending, DesignStatusRejected, true},
		{DesignStatusPending, DesignStatusSoldExclusive, false},
		{DesignStatusApproved, DesignStatusSoldExclusive, true},
		{DesignStatusApproved, DesignStatusRejected, false},
		{DesignStatusApproved, DesignStatusPending, false},
		{DesignStatusRejected, DesignStatusApproved, false},
		{DesignStatusRejected, DesignStatusPending, false},
		{DesignStatusSoldExclusive, DesignStatusApproved, false},
		{DesignStatusSoldExclusive, DesignStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleDesigner.Valid())
	assert.True(t, RoleBrandOwner.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("moderator").Valid())
	assert.False(t, Role("").Valid())
}

func TestLicenseTypeValid(t *testing.T) {
	assert.True(t, LicenseTypeNonExclusive.Valid())
	assert.True(t, LicenseTypeExclusiveBuyout.Valid())
	assert.False(t, LicenseType("exclusive").Valid())
	assert.False(t, LicenseType("").Valid())
}

func TestConversationIsParticipant(t *testing.T) {
	buyer := uuid.New()
	designer := uuid.New()
	stranger := uuid.New()

	conversation := Conversation{
		BuyerID:    buyer,
		DesignerID: designer,
	}

	assert.True(t, conversation.IsParticipant(buyer))
	assert.True(t, conversation.IsParticipant(designer))
	assert.False(t, conversation.IsParticipant(stranger))
}

func TestProfilePasswordHashing(t *testing.T) {
	profile := &Profile{}
	assert.NoError(t, profile.SetPassword("SuperSecret123!"))
	assert.NotEqual(t, "SuperSecret123!", profile.PasswordHash)

	assert.NoError(t, profile.CheckPassword("SuperSecret123!"))
	assert.Error(t, profile.CheckPassword("WrongPassword1!"))
}
