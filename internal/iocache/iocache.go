// Package iocache has persistent storage for batch run history.
package iocache

import (
	"sync"

	"freshscore/internal/contract"
	"freshscore/schema"
)

// StoreManager manages the history store instance.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

// NewStoreManager opens the configured history backend and wraps it in a
// manager. A NoneBackend manager carries a no-op store.
func NewStoreManager(backend schema.DatabaseBackend, connStr string) (*StoreManager, error) {
	store, err := NewHistoryStore(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &StoreManager{history: store}, nil
}

// GetHistoryStore returns the history store.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// Close closes the underlying store.
func (mgr *StoreManager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	if mgr.history == nil {
		return nil
	}
	return mgr.history.Close()
}
