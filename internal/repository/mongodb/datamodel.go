package mongodb

import (
	"time"

	"land-registry/internal/model"
)

type storedListing struct {
	ListingID string `bson:"_id" json:"id"`
	SellerID  string `bson:"sellerId"`

	Title       string `bson:"title"`
	Description string `bson:"description"`
	Size        string `bson:"size"`
	Price       string `bson:"price"`
	Location    string `bson:"location"`

	Images    []string `bson:"images"`
	Documents []string `bson:"documents"`

	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newStoredListing(listing model.Listing) storedListing {
	return storedListing{
		ListingID:   listing.ID,
		SellerID:    listing.SellerID,
		Title:       listing.Title,
		Description: listing.Description,
		Size:        listing.Size,
		Price:       listing.Price,
		Location:    listing.Location,
		Images:      listing.Images,
		Documents:   listing.Documents,
		Status:      string(listing.Status),
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
}

func (stored storedListing) toModel() model.Listing {
	return model.Listing{
		ID:          stored.ListingID,
		SellerID:    stored.SellerID,
		Title:       stored.Title,
		Description: stored.Description,
		Size:        stored.Size,
		Price:       stored.Price,
		Location:    stored.Location,
		Images:      stored.Images,
		Documents:   stored.Documents,
		Status:      model.ListingStatus(stored.Status),
		CreatedAt:   stored.CreatedAt,
		UpdatedAt:   stored.UpdatedAt,
	}
}
