package models

import (
	"encoding/json"
	"testing"
	"time"

	"osa-partnership/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentToResponse(t *testing.T) {
	established := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dept := &Department{
		ID:                3,
		OwnerID:           9,
		DepartmentName:    "Engineering",
		BusinessEmail:     "biz@example.com",
		Email:             "contact@example.com",
		EstablishedDate:   &established,
		PartnershipStatus: "inactive",
		Owner:             &User{ID: 9, Email: "owner@example.com"},
	}

	resp := dept.ToResponse()
	require.NotNil(t, resp.Owner)
	assert.Equal(t, uint(9), *resp.Owner)
	assert.Equal(t, "owner@example.com", resp.UserEmail)
	assert.Equal(t, "red", resp.StatusColor)
	require.NotNil(t, resp.EstablishedDate)
	assert.Equal(t, "2024-01-15", *resp.EstablishedDate)
	assert.Nil(t, resp.ExpirationDate)
	assert.Nil(t, resp.LogoPath)
}

func TestDepartmentToRef(t *testing.T) {
	owned := (&Department{ID: 1, OwnerID: 5}).ToRef()
	require.NotNil(t, owned.OwnerID)
	assert.True(t, owned.IsOwnedBy(5))

	// preloaded owner came back empty: the owner row is gone
	orphan := (&Department{ID: 1, OwnerID: 5, Owner: &User{}}).ToRef()
	assert.Nil(t, orphan.OwnerID)
	assert.False(t, orphan.IsOwnedBy(5))
}

func TestUserToResponseWithoutProfile(t *testing.T) {
	raw, err := json.Marshal((&User{ID: 1, Email: "a@example.com"}).ToResponse())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"profile":{}`)
}

func TestUserToActor(t *testing.T) {
	user := &User{ID: 4, Email: "a@example.com", Profile: &UserProfile{UserID: 4, UserType: "admin"}}
	actor := user.ToActor()
	require.NotNil(t, actor.Profile)
	assert.Equal(t, domain.TierElevated, domain.Classify(actor))

	bare := (&User{ID: 5}).ToActor()
	assert.Nil(t, bare.Profile)
	assert.Equal(t, domain.TierStandard, domain.Classify(bare))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	_, err = ParseDate("31/12/2025")
	assert.Error(t, err)
}
