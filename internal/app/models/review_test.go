package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		limit      int
		totalPages int
	}{
		{"exact multiple", 20, 1, 10, 2},
		{"remainder adds a page", 21, 1, 10, 3},
		{"single partial page", 3, 1, 10, 1},
		{"empty", 0, 1, 10, 0},
		{"limit one", 5, 2, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ReviewStatusPending.IsValid())
	assert.False(t, ReviewStatus("archived").IsValid())

	assert.True(t, VoteHelpful.IsValid())
	assert.True(t, VoteUnhelpful.IsValid())
	assert.False(t, VoteDirection("neutral").IsValid())

	assert.True(t, SortMostHelpful.IsValid())
	assert.False(t, ReviewSort("random").IsValid())

	assert.True(t, PurchaseTypeTestDrive.IsValid())
	assert.False(t, PurchaseType("borrowed").IsValid())

	assert.True(t, OwnershipUnderMonth.IsValid())
	assert.False(t, OwnershipDuration("10yr").IsValid())
}

func TestValidationErrorsSentinel(t *testing.T) {
	errs := ValidationErrors{"rating": "rating must be an integer between 1 and 5"}
	assert.ErrorIs(t, errs, ErrValidation)
	assert.Contains(t, errs.Error(), "rating")
}

func TestActorIsModerator(t *testing.T) {
	assert.True(t, Actor{Role: RoleModerator}.IsModerator())
	assert.True(t, Actor{Role: RoleAdmin}.IsModerator())
	assert.False(t, Actor{Role: RoleUser}.IsModerator())
	assert.False(t, Actor{}.IsModerator())
}
