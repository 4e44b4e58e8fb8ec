package app

import (
	"context"
	"io"

	"land-registry/internal/keymanager"
	"land-registry/internal/ledger"
	"land-registry/internal/registry"
	"land-registry/internal/repository/mongodb"

	"go.uber.org/zap"
)

// Ledger is the capability surface the core needs from the ledger
// collaborator: mint a token, associate an account, transfer atomically.
type Ledger interface {
	MintNFT(ctx context.Context, metadataCID string) (ledger.MintResult, error)
	AssociateToken(ctx context.Context, accountID string, keys keymanager.UserKeys) error
	TransferParcel(ctx context.Context, request ledger.TransferRequest) (ledger.Receipt, error)
}

// MetadataStore is the content-addressed store capability.
type MetadataStore interface {
	PinJSON(ctx context.Context, value interface{}) (string, error)
	PinFile(ctx context.Context, name string, r io.Reader) (string, error)
	FetchJSON(ctx context.Context, cid string, out interface{}) error
	Fetch(ctx context.Context, cid string) ([]byte, error)
}

type App struct {
	logger   *zap.Logger
	registry *registry.Registry
	ledger   Ledger
	metadata MetadataStore
	keys     keymanager.KeyManager
	db       mongodb.Repository
}

func NewApp(logger *zap.Logger, reg *registry.Registry, ledgerClient Ledger, metadataStore MetadataStore, keys keymanager.KeyManager, db mongodb.Repository) App {
	return App{
		logger:   logger,
		registry: reg,
		ledger:   ledgerClient,
		metadata: metadataStore,
		keys:     keys,
		db:       db,
	}
}
