package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"land-registry/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	listingsCollection = "listings"
)

func (b Repository) listings() *mongo.Collection {
	return b.database.Collection(listingsCollection)
}

func (b Repository) InsertListing(ctx context.Context, listing model.Listing) error {
	stored := newStoredListing(listing)

	result, err := b.listings().InsertOne(ctx, stored)
	if err != nil {
		return errors.New("failed to insert a new listing: " + err.Error())
	}
	if result.InsertedID != listing.ID {
		return errors.New(fmt.Sprint("inserted a listing with unexpected ID: ", result.InsertedID, "; expected: ", listing.ID))
	}

	return nil
}

func (b Repository) GetListing(ctx context.Context, listingID string) (model.Listing, error) {
	filter := bson.M{
		"_id": listingID,
	}

	var stored storedListing
	if err := b.listings().FindOne(ctx, filter).Decode(&stored); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Listing{}, model.ErrListingNotFound
		}
		return model.Listing{}, errors.New("failed to get the listing: " + err.Error())
	}

	return stored.toModel(), nil
}

func (b Repository) GetSellerListings(ctx context.Context, sellerID string) ([]model.Listing, error) {
	filter := bson.M{
		"sellerId": sellerID,
	}

	cursor, err := b.listings().Find(ctx, filter)
	if err != nil {
		return nil, errors.New("failed to find the seller listings: " + err.Error())
	}

	var stored []storedListing
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, errors.New("failed to get all listings from the cursor: " + err.Error())
	}

	listings := make([]model.Listing, len(stored))
	for i, s := range stored {
		listings[i] = s.toModel()
	}

	return listings, nil
}

func (b Repository) UpdateListing(ctx context.Context, listing model.Listing) error {
	listing.UpdatedAt = time.Now().UTC()
	stored := newStoredListing(listing)

	filter := bson.M{
		"_id": listing.ID,
	}
	result, err := b.listings().ReplaceOne(ctx, filter, stored)
	if err != nil {
		return errors.New("failed to update the listing: " + err.Error())
	}
	if result.MatchedCount == 0 {
		return model.ErrListingNotFound
	}

	return nil
}

// PublishListing flips a draft to published once its metadata document
// is pinned.
func (b Repository) PublishListing(ctx context.Context, listingID string) error {
	filter := bson.M{
		"_id":    listingID,
		"status": string(model.ListingStatusDraft),
	}
	update := bson.M{
		"$set": bson.M{
			"status":    string(model.ListingStatusPublished),
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := b.listings().UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.New("failed to publish the listing: " + err.Error())
	}
	if result.MatchedCount == 0 {
		return model.ErrListingNotFound
	}

	return nil
}

func (b Repository) RemoveListing(ctx context.Context, listingID string) error {
	filter := bson.M{
		"_id": listingID,
	}
	result, err := b.listings().DeleteOne(ctx, filter)
	if err != nil {
		b.logger.Debug("failed to remove the listing: "+err.Error(), zap.String("listingID", listingID))
		return err
	}

	if result.DeletedCount == 0 {
		b.logger.Debug("trying to remove a non existing listing", zap.String("listingID", listingID))
	}

	return nil
}
