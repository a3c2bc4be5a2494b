package memory

import (
	"context"
	"sync"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

// CredentialRepo is read outside the state transaction, so it guards itself.
type CredentialRepo struct {
	mu    sync.RWMutex
	byCiv map[diplomacy.CivID]ports.CivCredentialRecord
}

func NewCredentialRepo() *CredentialRepo {
	return &CredentialRepo{byCiv: map[diplomacy.CivID]ports.CivCredentialRecord{}}
}

func (r *CredentialRepo) Create(_ context.Context, credential ports.CivCredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCiv[credential.Civ]; ok {
		return ports.ErrConflict
	}
	r.byCiv[credential.Civ] = credential
	return nil
}

func (r *CredentialRepo) GetByCiv(_ context.Context, civ diplomacy.CivID) (ports.CivCredentialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.byCiv[civ]
	if !ok {
		return ports.CivCredentialRecord{}, ports.ErrNotFound
	}
	return cred, nil
}
