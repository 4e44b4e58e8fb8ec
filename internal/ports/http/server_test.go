package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"land-registry/internal/app"
	"land-registry/internal/keymanager"
	"land-registry/internal/ledger"
	"land-registry/internal/registry"
	"land-registry/internal/repository/mongodb"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLedger struct {
	serial    int64
	transfers int
}

func (s *stubLedger) MintNFT(ctx context.Context, metadataCID string) (ledger.MintResult, error) {
	return ledger.MintResult{Serial: s.serial, TransactionID: "tx-mint"}, nil
}

func (s *stubLedger) AssociateToken(ctx context.Context, accountID string, keys keymanager.UserKeys) error {
	return nil
}

func (s *stubLedger) TransferParcel(ctx context.Context, request ledger.TransferRequest) (ledger.Receipt, error) {
	s.transfers++
	return ledger.Receipt{Status: "SUCCESS", TransactionID: "tx-transfer"}, nil
}

type stubMetadata struct{}

func (s stubMetadata) PinJSON(ctx context.Context, value interface{}) (string, error) {
	return "QmStub", nil
}

func (s stubMetadata) PinFile(ctx context.Context, name string, r io.Reader) (string, error) {
	return "QmStubFile", nil
}

func (s stubMetadata) FetchJSON(ctx context.Context, cid string, out interface{}) error {
	return nil
}

func (s stubMetadata) Fetch(ctx context.Context, cid string) ([]byte, error) {
	return []byte("raw content"), nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	reg := registry.New(zap.NewNop(), filepath.Join(t.TempDir(), "parcels.json"))
	application := app.NewApp(zap.NewNop(), reg, &stubLedger{serial: 7}, stubMetadata{}, keymanager.NewKeyManager(zap.NewNop()), mongodb.Repository{})

	ser := NewServer(zap.NewNop(), &application, ":0")
	router := mux.NewRouter()
	ser.registerHandlers(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		content, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(content)
	}

	request := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealthcheck(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestParcelLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// submit
	recorder := doJSON(t, router, http.MethodPost, "/api/parcels", map[string]string{
		"size":        "2.5",
		"price":       "5000000",
		"location":    "Kiambu",
		"metadataCid": "QmMetadata",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		ParcelID string `json:"parcelId"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.NotEmpty(t, created.ParcelID)
	assert.Equal(t, "pending", created.Status)

	// first approval: no quorum yet
	recorder = doJSON(t, router, http.MethodPost, "/api/parcels/"+created.ParcelID+"/approvals", map[string]string{
		"role": "Chief",
		"name": "chief wanjiku",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var approval struct {
		Verified bool   `json:"verified"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &approval))
	assert.False(t, approval.Verified)

	// second approval: quorum reached, auto-mint fires
	recorder = doJSON(t, router, http.MethodPost, "/api/parcels/"+created.ParcelID+"/approvals", map[string]string{
		"role": "Surveyor",
		"name": "surveyor otieno",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &approval))
	assert.True(t, approval.Verified)
	assert.Equal(t, "minted", approval.Status)

	// purchase
	buyerKeys, err := keymanager.GenerateKeys()
	require.NoError(t, err)
	recorder = doJSON(t, router, http.MethodPost, "/api/market/purchase", map[string]interface{}{
		"parcelId": created.ParcelID,
		"buyerId":  "0.0.2002",
		"buyerKey": buyerKeys.PrivateHex(),
		"sellerId": "0.0.3003",
		"price":    150,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var purchase struct {
		Status    string `json:"status"`
		NFTSerial int64  `json:"nftSerial"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &purchase))
	assert.Equal(t, "sold", purchase.Status)
	assert.EqualValues(t, 7, purchase.NFTSerial)

	// the sold parcel shows up in the status filter
	recorder = doJSON(t, router, http.MethodGet, "/api/parcels?status=sold", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var listed struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Count)
}

func TestGenerateAccountKeys(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/keys", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var keys struct {
		PublicKey  string `json:"publicKey"`
		PrivateKey string `json:"privateKey"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &keys))
	assert.NotEmpty(t, keys.PublicKey)
	assert.NotEmpty(t, keys.PrivateKey)

	parsed, err := keymanager.ParseKeys(keys.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, keys.PublicKey, parsed.PublicHex())
}

func TestDownloadFile(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/api/metadata/QmStubFile/file", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "raw content", recorder.Body.String())
	assert.Equal(t, "application/octet-stream", recorder.Header().Get("Content-Type"))
}

func TestSubmitParcelMissingFields(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/parcels", map[string]string{
		"size": "2.5",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetUnknownParcel(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/api/parcels/unknown", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestApprovalInvalidRole(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/parcels", map[string]string{
		"size":        "1",
		"price":       "2",
		"location":    "x",
		"metadataCid": "QmMeta",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created struct {
		ParcelID string `json:"parcelId"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = doJSON(t, router, http.MethodPost, "/api/parcels/"+created.ParcelID+"/approvals", map[string]string{
		"role": "Clerk",
		"name": "somebody",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPurchaseUnmintedParcelRejected(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/api/parcels", map[string]string{
		"size":        "1",
		"price":       "2",
		"location":    "x",
		"metadataCid": "QmMeta",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created struct {
		ParcelID string `json:"parcelId"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	buyerKeys, err := keymanager.GenerateKeys()
	require.NoError(t, err)
	recorder = doJSON(t, router, http.MethodPost, "/api/market/purchase", map[string]interface{}{
		"parcelId": created.ParcelID,
		"buyerId":  "0.0.2002",
		"buyerKey": buyerKeys.PrivateHex(),
		"sellerId": "0.0.3003",
		"price":    150,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
