package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"land-registry/internal/app"
	"land-registry/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type server struct {
	app        *app.App
	httpServer *http.Server
	addr       string
	logger     *zap.Logger
}

func NewServer(logger *zap.Logger, a *app.App, address string) server {
	return server{
		app:    a,
		addr:   address,
		logger: logger,
	}
}

func (ser server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck)

	router.HandleFunc("/api/parcels", ser.submitParcel).Methods(http.MethodPost)
	router.HandleFunc("/api/parcels", ser.listParcels).Methods(http.MethodGet)
	router.HandleFunc("/api/parcels/{parcelID}", ser.getParcel).Methods(http.MethodGet)
	router.HandleFunc("/api/parcels/{parcelID}/approvals", ser.submitApproval).Methods(http.MethodPost)

	router.HandleFunc("/api/market/purchase", ser.purchase).Methods(http.MethodPost)

	router.HandleFunc("/api/keys", ser.generateKeys).Methods(http.MethodPost)

	router.HandleFunc("/api/metadata/json", ser.uploadMetadata).Methods(http.MethodPost)
	router.HandleFunc("/api/metadata/file", ser.uploadFile).Methods(http.MethodPost)
	router.HandleFunc("/api/metadata/{cid}", ser.fetchMetadata).Methods(http.MethodGet)
	router.HandleFunc("/api/metadata/{cid}/file", ser.downloadFile).Methods(http.MethodGet)

	router.HandleFunc("/api/listings", ser.postListing).Methods(http.MethodPost)
	router.HandleFunc("/api/listings", ser.getListings).Methods(http.MethodGet)
	router.HandleFunc("/api/listings/{listingID}", ser.getListing).Methods(http.MethodGet)
	router.HandleFunc("/api/listings/{listingID}", ser.putListing).Methods(http.MethodPut)
	router.HandleFunc("/api/listings/{listingID}", ser.deleteListing).Methods(http.MethodDelete)
	router.HandleFunc("/api/listings/{listingID}/publish", ser.publishListing).Methods(http.MethodPost)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func (ser server) Run() error {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	c := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
		Debug:            false,
	})
	handler := c.Handler(router)
	ser.httpServer = &http.Server{
		Handler: handler,
		Addr:    ser.addr,
	}

	return ser.httpServer.ListenAndServe()
}

func (ser server) badRequest(w http.ResponseWriter, message string) {
	ser.logger.Warn(message)
	respondError(w, http.StatusBadRequest, message)
}

func (ser server) serverError(w http.ResponseWriter, message string) {
	ser.logger.Error(message)
	respondError(w, http.StatusInternalServerError, message)
}

// respondAppError maps the error taxonomy onto HTTP status codes.
func (ser server) respondAppError(w http.ResponseWriter, err error) {
	var validationErr model.ValidationError
	var conflictErr model.ConflictError
	var providerErr model.ProviderError

	switch {
	case errors.As(err, &validationErr):
		ser.logger.Warn(err.Error())
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrParcelNotFound) || errors.Is(err, model.ErrListingNotFound):
		ser.logger.Debug(err.Error())
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		ser.logger.Warn(err.Error())
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &providerErr):
		ser.logger.Error(err.Error())
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		ser.serverError(w, err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func normalize(param string) string {
	return strings.TrimSpace(param)
}
