package app

import (
	"context"
	"time"

	"land-registry/internal/ledger"
	"land-registry/internal/model"
	"land-registry/internal/registry"

	"go.uber.org/zap"
)

// ApprovalResult reports the parcel state after an approval submission
// and, when the quorum flip triggered the auto-mint, the mint result.
type ApprovalResult struct {
	ParcelID string
	Verified bool
	Status   model.ParcelStatus
	Mint     *ledger.MintResult
}

// SubmitApproval records one role's sign-off and, when the approval set
// reaches quorum, mints the parcel NFT within the same call. Registry
// writes go through transactional updates, the per-parcel lock held for
// the whole call keeps a second submission from observing quorum and
// minting again while the first one's mint is in flight.
//
// A failed mint leaves the recorded approvals and the verified flag in
// place: resubmitting any approval retries the mint without requiring
// an extra role.
func (a App) SubmitApproval(ctx context.Context, parcelID string, role model.ApprovalRole, name string) (ApprovalResult, error) {
	if parcelID == "" {
		return ApprovalResult{}, model.NewValidationError("parcelId is missing")
	}
	if !role.IsValid() {
		return ApprovalResult{}, model.NewValidationError("role must be one of the authorized roles, got: " + role.String())
	}
	if name == "" {
		return ApprovalResult{}, model.NewValidationError("approver name is missing")
	}

	a.registry.Lock(parcelID)
	defer a.registry.Unlock(parcelID)

	var parcel model.Parcel
	err := a.registry.Update(func(parcels []model.Parcel) ([]model.Parcel, error) {
		i, found := registry.FindByID(parcels, parcelID)
		if !found {
			return nil, model.ErrParcelNotFound
		}

		if !parcels[i].AddApproval(role, name, time.Now()) {
			a.logger.Debug("role has already signed off, ignoring the resubmission",
				zap.String("parcelID", parcelID), zap.String("role", role.String()))
		}
		parcels[i].RecomputeVerified()
		parcel = parcels[i]
		return parcels, nil
	})
	if err != nil {
		return ApprovalResult{}, err
	}

	result := ApprovalResult{
		ParcelID: parcelID,
		Verified: parcel.Verified,
		Status:   parcel.Status,
	}

	if !parcel.Verified || parcel.NFTMinted {
		return result, nil
	}

	// auto-mint: the parcel just reached quorum, or an earlier mint
	// attempt failed and this submission retries it
	mint, err := a.ledger.MintNFT(ctx, parcel.MetadataCID)
	if err != nil {
		a.logger.Error("minting the parcel NFT failed: "+err.Error(), zap.String("parcelID", parcelID))
		return result, model.NewProviderError("mint parcel NFT", err)
	}

	err = a.registry.Update(func(parcels []model.Parcel) ([]model.Parcel, error) {
		i, found := registry.FindByID(parcels, parcelID)
		if !found {
			return nil, model.ErrParcelNotFound
		}
		if err := parcels[i].MarkMinted(mint.Serial); err != nil {
			return nil, err
		}
		parcel = parcels[i]
		return parcels, nil
	})
	if err != nil {
		return result, err
	}

	a.logger.Info("parcel verified and minted",
		zap.String("parcelID", parcelID),
		zap.Int64("serial", mint.Serial),
		zap.String("transactionID", mint.TransactionID))

	result.Status = parcel.Status
	result.Mint = &mint
	return result, nil
}
