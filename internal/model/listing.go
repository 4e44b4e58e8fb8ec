package model

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
)

func (status ListingStatus) IsValid() bool {
	return status == ListingStatusDraft || status == ListingStatusPublished
}

// Listing is a seller's draft before it is submitted as a parcel for
// verification. Drafts live outside the verification log and can be
// freely edited or removed.
type Listing struct {
	ID       string
	SellerID string

	Title       string
	Description string
	Size        string
	Price       string
	Location    string

	// content identifiers of uploaded images and documents
	Images    []string
	Documents []string

	Status    ListingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (listing *Listing) Complete() {
	listing.ID = uuid.NewString()
	if listing.Status == "" {
		listing.Status = ListingStatusDraft
	}
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
}

func (listing Listing) Validate() error {
	var err error

	if listing.SellerID == "" {
		err = multierr.Append(err, NewValidationError("sellerId is missing"))
	}
	if listing.Title == "" {
		err = multierr.Append(err, NewValidationError("title is missing"))
	}
	if !listing.Status.IsValid() {
		err = multierr.Append(err, NewValidationError("invalid listing status: "+string(listing.Status)))
	}

	return err
}
