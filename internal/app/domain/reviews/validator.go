package reviews

import (
	"strings"

	"github.com/google/uuid"

	"github.com/autovia/reviews-service/internal/app/models"
)

const (
	minCommentLength = 10
	maxTitleLength   = 150
	maxCommentLength = 5000
	maxProsCons      = 10
)

// SubmitReviewRequest is the inbound payload for a new review.
type SubmitReviewRequest struct {
	VehicleID         string   `json:"vehicle_id"`
	AuthorID          string   `json:"author_id"`
	Rating            int      `json:"rating"`
	Title             string   `json:"title"`
	Comment           string   `json:"comment"`
	Pros              []string `json:"pros"`
	Cons              []string `json:"cons"`
	Recommend         bool     `json:"recommend"`
	PurchaseType      string   `json:"purchase_type"`
	OwnershipDuration string   `json:"ownership_duration"`
	VerifiedPurchase  bool     `json:"verified_purchase"`
}

// ValidateSubmission checks the whole payload and returns one message per
// invalid field; it deliberately does not stop at the first failure so the
// form can render every problem at once. On success it returns the normalized
// pending review ready for the record store.
func ValidateSubmission(req SubmitReviewRequest) (*models.Review, models.ValidationErrors) {
	errs := models.ValidationErrors{}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		errs["vehicle_id"] = "vehicle_id must be a valid id"
	}
	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		errs["author_id"] = "author_id must be a valid id"
	}

	if req.Rating < 1 || req.Rating > 5 {
		errs["rating"] = "rating must be an integer between 1 and 5"
	}

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		errs["title"] = "title is required"
	case len(title) > maxTitleLength:
		errs["title"] = "title is too long"
	}

	comment := strings.TrimSpace(req.Comment)
	switch {
	case comment == "":
		errs["comment"] = "comment is required"
	case len(comment) < minCommentLength:
		errs["comment"] = "comment is too short"
	case len(comment) > maxCommentLength:
		errs["comment"] = "comment is too long"
	}

	purchaseType := models.PurchaseType(req.PurchaseType)
	if !purchaseType.IsValid() {
		errs["purchase_type"] = "purchase_type must be one of: new, used, leased, rented, test-drive"
	}

	ownership := models.OwnershipDuration(req.OwnershipDuration)
	if !ownership.IsValid() {
		errs["ownership_duration"] = "ownership_duration must be one of: <1mo, 1-6mo, 6-12mo, 1-3yr, 3yr+"
	}

	pros := normalizeList(req.Pros)
	if len(pros) > maxProsCons {
		errs["pros"] = "too many pros entries"
	}
	cons := normalizeList(req.Cons)
	if len(cons) > maxProsCons {
		errs["cons"] = "too many cons entries"
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.Review{
		VehicleID:         vehicleID,
		AuthorID:          authorID,
		Rating:            req.Rating,
		Title:             title,
		Comment:           comment,
		Pros:              pros,
		Cons:              cons,
		Recommend:         req.Recommend,
		PurchaseType:      purchaseType,
		OwnershipDuration: ownership,
		VerifiedPurchase:  req.VerifiedPurchase,
		Status:            models.ReviewStatusPending,
	}, nil
}

// normalizeList trims entries and drops empty ones, preserving order.
func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
