package http

import (
	"encoding/json"
	"net/http"

	"land-registry/internal/app"

	"go.uber.org/zap"
)

type purchaseParams struct {
	ParcelID       string `json:"parcelId"`
	BuyerID        string `json:"buyerId"`
	BuyerKey       string `json:"buyerKey"`
	BuyerPublicKey string `json:"buyerPublicKey"`
	SellerID       string `json:"sellerId"`
	Price          int64  `json:"price"`
}

func (ser server) purchase(w http.ResponseWriter, r *http.Request) {
	var params purchaseParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the purchase request: "+err.Error())
		return
	}

	ser.logger.Info("purchase requested",
		zap.String("parcelID", params.ParcelID),
		zap.String("buyer", params.BuyerID),
		zap.Int64("price", params.Price))

	result, err := ser.app.Purchase(r.Context(), app.PurchaseRequest{
		ParcelID:       normalize(params.ParcelID),
		BuyerID:        normalize(params.BuyerID),
		BuyerKey:       normalize(params.BuyerKey),
		BuyerPublicKey: normalize(params.BuyerPublicKey),
		SellerID:       normalize(params.SellerID),
		Price:          params.Price,
	})
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"parcelId":      result.ParcelID,
		"status":        result.Status.String(),
		"nftSerial":     result.NFTSerial,
		"transactionId": result.Receipt.TransactionID,
	})
}
