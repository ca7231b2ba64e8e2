package reviews

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autovia/reviews-service/internal/app/models"
)

func validRequest() SubmitReviewRequest {
	return SubmitReviewRequest{
		VehicleID:         uuid.New().String(),
		AuthorID:          uuid.New().String(),
		Rating:            4,
		Title:             "Solid family car",
		Comment:           "Comfortable on long trips and cheap to run.",
		Pros:              []string{"comfort", "fuel economy"},
		Cons:              []string{"small boot"},
		Recommend:         true,
		PurchaseType:      "used",
		OwnershipDuration: "1-3yr",
		VerifiedPurchase:  true,
	}
}

func TestValidateSubmission_ValidPayload(t *testing.T) {
	req := validRequest()

	review, errs := ValidateSubmission(req)
	require.Nil(t, errs)
	require.NotNil(t, review)

	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Equal(t, req.Title, review.Title)
	assert.Equal(t, models.PurchaseTypeUsed, review.PurchaseType)
	assert.Zero(t, review.HelpfulCount)
	assert.Zero(t, review.UnhelpfulCount)
}

func TestValidateSubmission_CollectsAllFieldErrors(t *testing.T) {
	req := SubmitReviewRequest{
		VehicleID:         "not-a-uuid",
		AuthorID:          "also-not-a-uuid",
		Rating:            6,
		Title:             "",
		Comment:           "short",
		PurchaseType:      "stolen",
		OwnershipDuration: "forever",
	}

	review, errs := ValidateSubmission(req)
	assert.Nil(t, review)
	require.NotNil(t, errs)

	for _, field := range []string{"vehicle_id", "author_id", "rating", "title", "comment", "purchase_type", "ownership_duration"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidateSubmission_RatingBounds(t *testing.T) {
	for _, rating := range []int{0, -1, 6} {
		req := validRequest()
		req.Rating = rating
		_, errs := ValidateSubmission(req)
		require.NotNil(t, errs, "rating %d should be rejected", rating)
		assert.Contains(t, errs, "rating")
	}
	for rating := 1; rating <= 5; rating++ {
		req := validRequest()
		req.Rating = rating
		_, errs := ValidateSubmission(req)
		assert.Nil(t, errs, "rating %d should be accepted", rating)
	}
}

func TestValidateSubmission_TrimsAndLengthChecks(t *testing.T) {
	req := validRequest()
	req.Title = "   "
	_, errs := ValidateSubmission(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "title")

	req = validRequest()
	req.Title = strings.Repeat("x", maxTitleLength+1)
	_, errs = ValidateSubmission(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "title")

	req = validRequest()
	req.Comment = strings.Repeat("x", maxCommentLength+1)
	_, errs = ValidateSubmission(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "comment")
}

func TestValidateSubmission_NormalizesProsAndCons(t *testing.T) {
	req := validRequest()
	req.Pros = []string{"  comfort  ", "", "   ", "price"}
	req.Cons = nil

	review, errs := ValidateSubmission(req)
	require.Nil(t, errs)
	assert.Equal(t, []string{"comfort", "price"}, review.Pros)
	assert.Empty(t, review.Cons)
}

func TestValidateSubmission_ProsConsCaps(t *testing.T) {
	req := validRequest()
	req.Pros = make([]string, maxProsCons+1)
	for i := range req.Pros {
		req.Pros[i] = "entry"
	}

	_, errs := ValidateSubmission(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "pros")
}

func TestValidationErrors_IsValidationSentinel(t *testing.T) {
	_, errs := ValidateSubmission(SubmitReviewRequest{})
	require.NotNil(t, errs)
	assert.ErrorIs(t, errs, models.ErrValidation)
}
