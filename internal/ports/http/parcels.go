package http

import (
	"encoding/json"
	"net/http"
	"time"

	"land-registry/internal/model"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type submittedParcel struct {
	Size        string `json:"size"`
	Price       string `json:"price"`
	Location    string `json:"location"`
	MetadataCID string `json:"metadataCid"`
	SellerID    string `json:"sellerId"`
}

type retrievedParcel struct {
	ParcelID    string           `json:"parcelId"`
	SellerID    string           `json:"sellerId,omitempty"`
	Size        string           `json:"size"`
	Price       string           `json:"price"`
	Location    string           `json:"location"`
	MetadataCID string           `json:"metadataCid"`
	Approvals   []model.Approval `json:"approvals"`
	Verified    bool             `json:"verified"`
	Status      string           `json:"status"`
	NFTMinted   bool             `json:"nftMinted"`
	NFTSerial   int64            `json:"nftSerial,omitempty"`
	BuyerID     string           `json:"buyerId,omitempty"`
	SoldAt      *time.Time       `json:"soldAt,omitempty"`
	SubmittedAt time.Time        `json:"submittedAt"`
	ArchiveCID  string           `json:"archiveCid,omitempty"`
}

func (r *retrievedParcel) assign(parcel model.Parcel) {
	r.ParcelID = parcel.ID
	r.SellerID = parcel.SellerID
	r.Size = parcel.Size
	r.Price = parcel.Price
	r.Location = parcel.Location
	r.MetadataCID = parcel.MetadataCID
	r.Approvals = parcel.Approvals
	r.Verified = parcel.Verified
	r.Status = parcel.Status.String()
	r.NFTMinted = parcel.NFTMinted
	r.NFTSerial = parcel.NFTSerial
	r.BuyerID = parcel.BuyerID
	r.SoldAt = parcel.SoldAt
	r.SubmittedAt = parcel.SubmittedAt
	r.ArchiveCID = parcel.ArchiveCID
}

func (ser server) submitParcel(w http.ResponseWriter, r *http.Request) {
	var params submittedParcel
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the parcel submission: "+err.Error())
		return
	}

	parcel := model.Parcel{
		SellerID:    normalize(params.SellerID),
		Size:        normalize(params.Size),
		Price:       normalize(params.Price),
		Location:    normalize(params.Location),
		MetadataCID: normalize(params.MetadataCID),
	}

	created, err := ser.app.SubmitParcel(r.Context(), parcel)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"parcelId":   created.ID,
		"status":     created.Status.String(),
		"archiveCid": created.ArchiveCID,
		"message":    "parcel submitted for verification",
	})
}

type submittedApproval struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

func (ser server) submitApproval(w http.ResponseWriter, r *http.Request) {
	parcelID := normalize(mux.Vars(r)["parcelID"])

	var params submittedApproval
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the approval: "+err.Error())
		return
	}

	var err error
	role := normalize(params.Role)
	name := normalize(params.Name)
	if role == "" {
		err = multierr.Append(err, model.NewValidationError("role is missing"))
	}
	if name == "" {
		err = multierr.Append(err, model.NewValidationError("name is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	ser.logger.Info("approval received", zap.String("parcelID", parcelID), zap.String("role", role))

	result, err := ser.app.SubmitApproval(r.Context(), parcelID, model.ApprovalRole(role), name)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	response := map[string]interface{}{
		"parcelId": result.ParcelID,
		"verified": result.Verified,
		"status":   result.Status.String(),
	}
	if result.Mint != nil {
		response["mint"] = result.Mint
	}

	respondJSON(w, http.StatusOK, response)
}

func (ser server) getParcel(w http.ResponseWriter, r *http.Request) {
	parcelID := normalize(mux.Vars(r)["parcelID"])

	parcel, err := ser.app.GetParcel(r.Context(), parcelID)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	var response retrievedParcel
	response.assign(parcel)
	respondJSON(w, http.StatusOK, response)
}

func (ser server) listParcels(w http.ResponseWriter, r *http.Request) {
	status := normalize(r.URL.Query().Get("status"))

	parcels, err := ser.app.ListParcels(r.Context(), model.ParcelStatus(status))
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	response := make([]retrievedParcel, len(parcels))
	for i, parcel := range parcels {
		response[i].assign(parcel)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(response),
		"items": response,
	})
}
