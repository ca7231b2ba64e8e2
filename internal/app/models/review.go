package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation lifecycle state of a review. Only approved
// reviews count toward public-facing statistics.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// PurchaseType describes how the reviewer acquired the vehicle.
type PurchaseType string

const (
	PurchaseTypeNew       PurchaseType = "new"
	PurchaseTypeUsed      PurchaseType = "used"
	PurchaseTypeLeased    PurchaseType = "leased"
	PurchaseTypeRented    PurchaseType = "rented"
	PurchaseTypeTestDrive PurchaseType = "test-drive"
)

func (p PurchaseType) IsValid() bool {
	switch p {
	case PurchaseTypeNew, PurchaseTypeUsed, PurchaseTypeLeased, PurchaseTypeRented, PurchaseTypeTestDrive:
		return true
	}
	return false
}

// OwnershipDuration is how long the reviewer has had the vehicle.
type OwnershipDuration string

const (
	OwnershipUnderMonth  OwnershipDuration = "<1mo"
	OwnershipOneToSix    OwnershipDuration = "1-6mo"
	OwnershipSixToTwelve OwnershipDuration = "6-12mo"
	OwnershipOneToThree  OwnershipDuration = "1-3yr"
	OwnershipOverThree   OwnershipDuration = "3yr+"
)

func (o OwnershipDuration) IsValid() bool {
	switch o {
	case OwnershipUnderMonth, OwnershipOneToSix, OwnershipSixToTwelve, OwnershipOneToThree, OwnershipOverThree:
		return true
	}
	return false
}

// VoteDirection is the direction of a helpfulness vote.
type VoteDirection string

const (
	VoteHelpful   VoteDirection = "helpful"
	VoteUnhelpful VoteDirection = "unhelpful"
)

func (d VoteDirection) IsValid() bool {
	return d == VoteHelpful || d == VoteUnhelpful
}

// ReviewSort is a sort order for review listings.
type ReviewSort string

const (
	SortNewest        ReviewSort = "newest"
	SortOldest        ReviewSort = "oldest"
	SortHighestRating ReviewSort = "highest-rating"
	SortLowestRating  ReviewSort = "lowest-rating"
	SortMostHelpful   ReviewSort = "most-helpful"
)

func (s ReviewSort) IsValid() bool {
	switch s {
	case SortNewest, SortOldest, SortHighestRating, SortLowestRating, SortMostHelpful:
		return true
	}
	return false
}

// Review is a single rated submission from a user about a vehicle.
// helpful_count/unhelpful_count are mutated only through the vote service,
// status and moderator_notes only through moderation.
type Review struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	VehicleID         uuid.UUID         `json:"vehicle_id" db:"vehicle_id"`
	AuthorID          uuid.UUID         `json:"author_id" db:"author_id"`
	Rating            int               `json:"rating" db:"rating"`
	Title             string            `json:"title" db:"title"`
	Comment           string            `json:"comment" db:"comment"`
	Pros              []string          `json:"pros" db:"pros"`
	Cons              []string          `json:"cons" db:"cons"`
	Recommend         bool              `json:"recommend" db:"recommend"`
	PurchaseType      PurchaseType      `json:"purchase_type" db:"purchase_type"`
	OwnershipDuration OwnershipDuration `json:"ownership_duration" db:"ownership_duration"`
	VerifiedPurchase  bool              `json:"verified_purchase" db:"verified_purchase"`
	HelpfulCount      int               `json:"helpful_count" db:"helpful_count"`
	UnhelpfulCount    int               `json:"unhelpful_count" db:"unhelpful_count"`
	Reported          bool              `json:"reported" db:"reported"`
	Status            ReviewStatus      `json:"status" db:"status"`
	ModeratorNotes    *string           `json:"moderator_notes,omitempty" db:"moderator_notes"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// Vote is one (review, voter) fact in the vote ledger. The primary key on
// (review_id, voter_id) is what makes voting idempotent.
type Vote struct {
	ReviewID  uuid.UUID     `json:"review_id" db:"review_id"`
	VoterID   uuid.UUID     `json:"voter_id" db:"voter_id"`
	Direction VoteDirection `json:"direction" db:"direction"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// AuthorSummary is the lightweight user profile joined onto listed reviews.
type AuthorSummary struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Avatar      string    `json:"avatar" db:"avatar"`
}

// VehicleSummary is the lightweight vehicle card joined onto author listings.
type VehicleSummary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Thumbnail string    `json:"thumbnail" db:"thumbnail"`
}

// ReviewWithAuthor is a review plus its best-effort collaborator summaries.
// Author/Vehicle stay nil when the lookup fails; the review itself is always
// returned.
type ReviewWithAuthor struct {
	Review
	Author  *AuthorSummary  `json:"author,omitempty"`
	Vehicle *VehicleSummary `json:"vehicle,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes total_pages = ceil(total/limit).
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ReviewStats are the public, shopper-facing numbers for one vehicle.
// All fields are zero when the vehicle has no eligible reviews.
type ReviewStats struct {
	AverageRating       float64     `json:"average_rating"`
	TotalReviews        int         `json:"total_reviews"`
	RatingDistribution  map[int]int `json:"rating_distribution"`
	RecommendPercentage float64     `json:"recommend_percentage"`
}

// ModerationStats are queue counts over the full population, regardless of
// status, for the dealer dashboard.
type ModerationStats struct {
	PendingCount  int `json:"pending_count"`
	ApprovedCount int `json:"approved_count"`
	RejectedCount int `json:"rejected_count"`
}

// ReviewFilter narrows a vehicle listing.
type ReviewFilter struct {
	Rating *int
}

// ModerationFilter drives the moderation queue listing.
type ModerationFilter struct {
	Status *ReviewStatus
	Search string
	Sort   ReviewSort
	Page   int
	Limit  int
}

// UpdateReviewParams is a partial merge; nil fields are left untouched.
type UpdateReviewParams struct {
	Title          *string       `json:"title"`
	Comment        *string       `json:"comment"`
	Pros           *[]string     `json:"pros"`
	Cons           *[]string     `json:"cons"`
	Recommend      *bool         `json:"recommend"`
	Status         *ReviewStatus `json:"status"`
	ModeratorNotes *string       `json:"moderator_notes"`
	Reported       *bool         `json:"reported"`
}

// Actor is the authenticated caller of a moderation operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// IsModerator reports whether the actor may perform moderation actions.
func (a Actor) IsModerator() bool {
	return a.Role == RoleModerator || a.Role == RoleAdmin
}
