package app

import (
	"context"

	"land-registry/internal/model"
	"land-registry/internal/registry"

	"go.uber.org/zap"
)

// SubmitParcel creates a pending parcel in the verification log.
// An advisory snapshot of the record is archived to the metadata store,
// failure to archive never fails the submission.
func (a App) SubmitParcel(ctx context.Context, parcel model.Parcel) (model.Parcel, error) {
	if err := parcel.Validate(); err != nil {
		return model.Parcel{}, err
	}
	parcel.Complete()

	a.archiveSnapshot(ctx, &parcel)

	err := a.registry.Update(func(parcels []model.Parcel) ([]model.Parcel, error) {
		return append(parcels, parcel), nil
	})
	if err != nil {
		return model.Parcel{}, err
	}

	a.logger.Info("parcel submitted for verification",
		zap.String("parcelID", parcel.ID),
		zap.String("location", parcel.Location),
		zap.String("metadataCID", parcel.MetadataCID))

	return parcel, nil
}

// archiveSnapshot uploads the parcel record to the metadata store as an
// advisory side effect, distinct from the authoritative registry write.
func (a App) archiveSnapshot(ctx context.Context, parcel *model.Parcel) {
	cid, err := a.metadata.PinJSON(ctx, parcel)
	if err != nil {
		a.logger.Debug("failed to archive the parcel snapshot: "+err.Error(), zap.String("parcelID", parcel.ID))
		return
	}

	parcel.ArchiveCID = cid
}

func (a App) GetParcel(ctx context.Context, parcelID string) (model.Parcel, error) {
	parcels := a.registry.Load()
	i, found := registry.FindByID(parcels, parcelID)
	if !found {
		return model.Parcel{}, model.ErrParcelNotFound
	}

	return parcels[i], nil
}

// ListParcels returns the verification log, optionally filtered by
// status.
func (a App) ListParcels(ctx context.Context, status model.ParcelStatus) ([]model.Parcel, error) {
	if status != "" && !status.IsValid() {
		return nil, model.NewValidationError("invalid status filter: " + status.String())
	}

	parcels := a.registry.Load()
	if status == "" {
		return parcels, nil
	}

	filtered := make([]model.Parcel, 0, len(parcels))
	for _, parcel := range parcels {
		if parcel.Status == status {
			filtered = append(filtered, parcel)
		}
	}

	return filtered, nil
}
