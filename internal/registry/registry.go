package registry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"land-registry/internal/model"

	"go.uber.org/zap"
)

const snapshotVersion = 1

// snapshot is the persisted whole-collection document. The whole file
// is replaced on every save, there are no partial updates.
type snapshot struct {
	Version int            `json:"version"`
	Parcels []model.Parcel `json:"parcels"`
}

// Registry stores the full parcel collection in a single JSON file.
// Every save replaces the whole snapshot, so mutations must go through
// Update, which holds the collection mutex across the load-apply-save
// cycle. Lock/Unlock additionally serialize operations on one parcel
// that span a ledger call between two updates.
type Registry struct {
	logger   *zap.Logger
	filePath string

	fileMu sync.Mutex

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(logger *zap.Logger, filePath string) *Registry {
	return &Registry{
		logger:   logger,
		filePath: filePath,
		locks:    map[string]*sync.Mutex{},
	}
}

// Load returns the entire current collection. A missing, empty or
// corrupt file yields an empty collection, availability wins over
// strictness here.
func (r *Registry) Load() []model.Parcel {
	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	return r.load()
}

func (r *Registry) load() []model.Parcel {
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to read the registry file, starting empty: "+err.Error(), zap.String("path", r.filePath))
		}
		return []model.Parcel{}
	}

	if len(content) == 0 {
		return []model.Parcel{}
	}

	var snap snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		r.logger.Error("registry file is corrupt, starting empty: "+err.Error(), zap.String("path", r.filePath))
		return []model.Parcel{}
	}

	if snap.Parcels == nil {
		return []model.Parcel{}
	}

	return snap.Parcels
}

// Update runs a load-apply-save cycle under the collection mutex.
// Concurrent updates of different parcels never lose each other's
// writes: each one sees the snapshot the previous one saved. The apply
// function returning an error aborts the cycle without saving.
func (r *Registry) Update(apply func(parcels []model.Parcel) ([]model.Parcel, error)) error {
	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	parcels, err := apply(r.load())
	if err != nil {
		return err
	}

	return r.save(parcels)
}

func (r *Registry) save(parcels []model.Parcel) error {
	snap := snapshot{
		Version: snapshotVersion,
		Parcels: parcels,
	}

	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.New("failed to marshal the registry snapshot: " + err.Error())
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New("failed to create the registry directory: " + err.Error())
	}

	tmp, err := os.CreateTemp(dir, "parcels-*.json")
	if err != nil {
		return errors.New("failed to create a temp registry file: " + err.Error())
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.New("failed to write the registry snapshot: " + err.Error())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.New("failed to close the temp registry file: " + err.Error())
	}

	if err := os.Rename(tmp.Name(), r.filePath); err != nil {
		os.Remove(tmp.Name())
		return errors.New("failed to replace the registry file: " + err.Error())
	}

	return nil
}

// FindByID returns the index of the parcel in the collection.
func FindByID(parcels []model.Parcel, id string) (int, bool) {
	for i := range parcels {
		if parcels[i].ID == id {
			return i, true
		}
	}

	return 0, false
}

// Lock serializes operations on a single parcel that span a ledger
// call between two updates. Two concurrent approval submissions for
// the same parcel would otherwise both observe quorum and mint twice.
func (r *Registry) Lock(parcelID string) {
	r.locksMu.Lock()
	lock, ok := r.locks[parcelID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[parcelID] = lock
	}
	r.locksMu.Unlock()

	lock.Lock()
}

func (r *Registry) Unlock(parcelID string) {
	r.locksMu.Lock()
	lock, ok := r.locks[parcelID]
	r.locksMu.Unlock()

	if ok {
		lock.Unlock()
	}
}
