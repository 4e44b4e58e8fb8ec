package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"land-registry/internal/model"

	"go.uber.org/zap"
)

// Draft listings live in the database until the seller submits them as
// parcels for verification. They are editable and removable, unlike the
// verification log.

func (a App) SaveListing(ctx context.Context, listing model.Listing) (model.Listing, error) {
	listing.Complete()
	if err := listing.Validate(); err != nil {
		return model.Listing{}, err
	}

	if err := a.db.InsertListing(ctx, listing); err != nil {
		return model.Listing{}, err
	}

	a.logger.Info("draft listing saved", zap.String("listingID", listing.ID), zap.String("seller", listing.SellerID))
	return listing, nil
}

func (a App) GetListing(ctx context.Context, listingID string) (model.Listing, error) {
	return a.db.GetListing(ctx, listingID)
}

func (a App) GetSellerListings(ctx context.Context, sellerID string) ([]model.Listing, error) {
	if sellerID == "" {
		return nil, model.NewValidationError("sellerId is missing")
	}

	return a.db.GetSellerListings(ctx, sellerID)
}

func (a App) UpdateListing(ctx context.Context, listing model.Listing) error {
	if listing.ID == "" {
		return model.NewValidationError("listing id is missing")
	}
	if err := listing.Validate(); err != nil {
		return err
	}

	return a.db.UpdateListing(ctx, listing)
}

func (a App) RemoveListing(ctx context.Context, listingID string) error {
	return a.db.RemoveListing(ctx, listingID)
}

// PublishListing pins the listing as a metadata document and flips the
// draft to published. The returned CID is the metadataRef the seller
// uses when submitting the parcel for verification.
func (a App) PublishListing(ctx context.Context, listingID string) (string, error) {
	listing, err := a.db.GetListing(ctx, listingID)
	if err != nil {
		return "", err
	}

	cid, err := a.metadata.PinJSON(ctx, listing)
	if err != nil {
		return "", model.NewProviderError("pin the listing metadata", err)
	}

	if err := a.db.PublishListing(ctx, listingID); err != nil {
		return "", err
	}

	a.logger.Info("listing published", zap.String("listingID", listingID), zap.String("cid", cid))
	return cid, nil
}

// UploadDocument stores a supporting file in the metadata store and
// returns its CID.
func (a App) UploadDocument(ctx context.Context, name string, r io.Reader) (string, error) {
	cid, err := a.metadata.PinFile(ctx, name, r)
	if err != nil {
		return "", model.NewProviderError("pin the document", err)
	}

	return cid, nil
}

// UploadMetadata stores an arbitrary JSON document and returns its CID.
func (a App) UploadMetadata(ctx context.Context, document interface{}) (string, error) {
	cid, err := a.metadata.PinJSON(ctx, document)
	if err != nil {
		return "", model.NewProviderError("pin the metadata document", err)
	}

	return cid, nil
}

// FetchDocument retrieves the raw content stored under the CID, as
// uploaded with UploadDocument.
func (a App) FetchDocument(ctx context.Context, cid string) ([]byte, error) {
	if cid == "" {
		return nil, model.NewValidationError("cid is missing")
	}

	content, err := a.metadata.Fetch(ctx, cid)
	if err != nil {
		return nil, model.NewProviderError("fetch the document", err)
	}

	return content, nil
}

// FetchMetadata retrieves a stored document by its CID.
func (a App) FetchMetadata(ctx context.Context, cid string) ([]byte, error) {
	if cid == "" {
		return nil, model.NewValidationError("cid is missing")
	}

	var document interface{}
	if err := a.metadata.FetchJSON(ctx, cid, &document); err != nil {
		return nil, model.NewProviderError("fetch the metadata document", err)
	}

	content, err := json.Marshal(document)
	if err != nil {
		return nil, errors.New("failed to re-marshal the metadata document: " + err.Error())
	}

	return content, nil
}
