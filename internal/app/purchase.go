package app

import (
	"context"
	"errors"
	"time"

	"land-registry/internal/keymanager"
	"land-registry/internal/ledger"
	"land-registry/internal/model"
	"land-registry/internal/registry"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type PurchaseRequest struct {
	ParcelID string
	BuyerID  string
	// hex encoded buyer private key authorizing the currency debit
	BuyerKey string
	// alternative to BuyerKey for accounts whose keys were generated by
	// this process, resolved through the pairing cache
	BuyerPublicKey string
	SellerID       string
	Price          int64
}

func (r PurchaseRequest) validate() error {
	var err error

	if r.ParcelID == "" {
		err = multierr.Append(err, model.NewValidationError("parcelId is missing"))
	}
	if r.BuyerID == "" {
		err = multierr.Append(err, model.NewValidationError("buyerId is missing"))
	}
	if r.BuyerKey == "" && r.BuyerPublicKey == "" {
		err = multierr.Append(err, model.NewValidationError("buyerKey or buyerPublicKey is required"))
	}
	if r.SellerID == "" {
		err = multierr.Append(err, model.NewValidationError("sellerId is missing"))
	}
	if r.Price <= 0 {
		err = multierr.Append(err, model.NewValidationError("price must be a positive amount"))
	}

	return err
}

type PurchaseResult struct {
	ParcelID  string
	Status    model.ParcelStatus
	NFTSerial int64
	Receipt   ledger.Receipt
}

// Purchase runs the ledger-mediated sale: a single atomic transaction
// moves the price from buyer to seller and the NFT from the treasury to
// the buyer. The parcel is recorded sold only after the ledger
// confirms, a rejected transfer leaves it unchanged.
func (a App) Purchase(ctx context.Context, request PurchaseRequest) (PurchaseResult, error) {
	if err := request.validate(); err != nil {
		return PurchaseResult{}, err
	}

	privateHex := request.BuyerKey
	if privateHex == "" {
		privateHex = a.keys.GetPrivateKey(request.BuyerPublicKey)
		if privateHex == "" {
			return PurchaseResult{}, model.NewValidationError("buyer public key is not paired with a generated key")
		}
	}

	buyerKeys, err := keymanager.ParseKeys(privateHex)
	if err != nil {
		return PurchaseResult{}, model.NewValidationError("invalid buyer key: " + err.Error())
	}

	a.registry.Lock(request.ParcelID)
	defer a.registry.Unlock(request.ParcelID)

	parcels := a.registry.Load()
	i, found := registry.FindByID(parcels, request.ParcelID)
	if !found {
		return PurchaseResult{}, model.ErrParcelNotFound
	}
	parcel := parcels[i]

	// preconditions are checked before any ledger call
	if !parcel.Verified || !parcel.NFTMinted || parcel.NFTSerial == 0 {
		return PurchaseResult{}, model.NewValidationError("parcel must be verified and minted before purchase")
	}
	if parcel.Status == model.ParcelStatusSold {
		return PurchaseResult{}, model.NewConflictError("parcel is already sold")
	}

	// best-effort association, an already associated buyer is fine
	if err := a.ledger.AssociateToken(ctx, request.BuyerID, buyerKeys); err != nil {
		if !errors.Is(err, ledger.ErrAlreadyAssociated) {
			a.logger.Warn("token association failed, proceeding to transfer: "+err.Error(), zap.String("buyer", request.BuyerID))
		}
	}

	receipt, err := a.ledger.TransferParcel(ctx, ledger.TransferRequest{
		Serial:    parcel.NFTSerial,
		BuyerID:   request.BuyerID,
		SellerID:  request.SellerID,
		Price:     request.Price,
		BuyerKeys: buyerKeys,
	})
	if err != nil {
		a.logger.Error("transfer failed, parcel left unchanged: "+err.Error(), zap.String("parcelID", request.ParcelID))
		return PurchaseResult{}, model.NewProviderError("transfer parcel", err)
	}

	err = a.registry.Update(func(parcels []model.Parcel) ([]model.Parcel, error) {
		i, found := registry.FindByID(parcels, request.ParcelID)
		if !found {
			return nil, model.ErrParcelNotFound
		}
		if err := parcels[i].MarkSold(request.BuyerID, time.Now()); err != nil {
			return nil, err
		}
		parcel = parcels[i]
		return parcels, nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	a.logger.Info("parcel sold",
		zap.String("parcelID", parcel.ID),
		zap.String("buyer", request.BuyerID),
		zap.Int64("serial", parcel.NFTSerial),
		zap.String("transactionID", receipt.TransactionID))

	return PurchaseResult{
		ParcelID:  parcel.ID,
		Status:    parcel.Status,
		NFTSerial: parcel.NFTSerial,
		Receipt:   receipt,
	}, nil
}
