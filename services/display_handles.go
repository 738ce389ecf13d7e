package services

import (
	"sync"

	"github.com/google/uuid"
)

// HandleRegistry hands out revocable tokens over in-memory payloads so the
// UI can render bytes without owning them. A token stays valid until it is
// explicitly revoked; eviction must revoke or the bytes are pinned forever.
type HandleRegistry struct {
	mu      sync.RWMutex
	handles map[string]displayHandle
}

type displayHandle struct {
	data        []byte
	contentType string
}

func NewHandleRegistry() *HandleRegistry {
	return &HandleRegistry{handles: make(map[string]displayHandle)}
}

func (r *HandleRegistry) Create(data []byte, contentType string) string {
	token := uuid.NewString()

	r.mu.Lock()
	r.handles[token] = displayHandle{data: data, contentType: contentType}
	r.mu.Unlock()

	return token
}

func (r *HandleRegistry) Resolve(token string) ([]byte, string, bool) {
	r.mu.RLock()
	handle, ok := r.handles[token]
	r.mu.RUnlock()

	if !ok {
		return nil, "", false
	}
	return handle.data, handle.contentType, true
}

func (r *HandleRegistry) Revoke(token string) {
	if token == "" {
		return
	}
	r.mu.Lock()
	delete(r.handles, token)
	r.mu.Unlock()
}

func (r *HandleRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
