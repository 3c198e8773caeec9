// Package iocache is for caching I/O calls.
package iocache

import (
	"sync"

	"github.com/huangsam/repovalue/internal/contract"
)

// CacheStoreManager owns the process-wide response store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	response     contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResponseStore returns the response CacheStore, or nil when caching was never initialized.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}
