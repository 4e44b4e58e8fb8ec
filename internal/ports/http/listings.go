package http

import (
	"encoding/json"
	"net/http"

	"land-registry/internal/model"

	"github.com/gorilla/mux"
)

type listingParams struct {
	SellerID    string   `json:"sellerId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Size        string   `json:"size"`
	Price       string   `json:"price"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
	Documents   []string `json:"documents"`
}

func (params listingParams) toModel() model.Listing {
	return model.Listing{
		SellerID:    normalize(params.SellerID),
		Title:       normalize(params.Title),
		Description: params.Description,
		Size:        normalize(params.Size),
		Price:       normalize(params.Price),
		Location:    normalize(params.Location),
		Images:      params.Images,
		Documents:   params.Documents,
	}
}

type retrievedListing struct {
	ListingID   string   `json:"listingId"`
	SellerID    string   `json:"sellerId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Size        string   `json:"size"`
	Price       string   `json:"price"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
	Documents   []string `json:"documents"`
	Status      string   `json:"status"`
}

func (r *retrievedListing) assign(listing model.Listing) {
	r.ListingID = listing.ID
	r.SellerID = listing.SellerID
	r.Title = listing.Title
	r.Description = listing.Description
	r.Size = listing.Size
	r.Price = listing.Price
	r.Location = listing.Location
	r.Images = listing.Images
	r.Documents = listing.Documents
	r.Status = string(listing.Status)
}

func (ser server) postListing(w http.ResponseWriter, r *http.Request) {
	var params listingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the listing: "+err.Error())
		return
	}

	listing, err := ser.app.SaveListing(r.Context(), params.toModel())
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"listingId": listing.ID})
}

func (ser server) getListings(w http.ResponseWriter, r *http.Request) {
	sellerID := normalize(r.URL.Query().Get("sellerId"))

	listings, err := ser.app.GetSellerListings(r.Context(), sellerID)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	response := make([]retrievedListing, len(listings))
	for i, listing := range listings {
		response[i].assign(listing)
	}

	respondJSON(w, http.StatusOK, response)
}

func (ser server) getListing(w http.ResponseWriter, r *http.Request) {
	listingID := normalize(mux.Vars(r)["listingID"])

	listing, err := ser.app.GetListing(r.Context(), listingID)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	var response retrievedListing
	response.assign(listing)
	respondJSON(w, http.StatusOK, response)
}

func (ser server) putListing(w http.ResponseWriter, r *http.Request) {
	listingID := normalize(mux.Vars(r)["listingID"])

	var params listingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		ser.badRequest(w, "failed to decode the listing: "+err.Error())
		return
	}

	current, err := ser.app.GetListing(r.Context(), listingID)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	updated := params.toModel()
	updated.ID = current.ID
	updated.Status = current.Status
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = current.UpdatedAt

	if err := ser.app.UpdateListing(r.Context(), updated); err != nil {
		ser.respondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (ser server) deleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := normalize(mux.Vars(r)["listingID"])

	if err := ser.app.RemoveListing(r.Context(), listingID); err != nil {
		ser.respondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (ser server) publishListing(w http.ResponseWriter, r *http.Request) {
	listingID := normalize(mux.Vars(r)["listingID"])

	cid, err := ser.app.PublishListing(r.Context(), listingID)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"listingId":   listingID,
		"metadataCid": cid,
	})
}
