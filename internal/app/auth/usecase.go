package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

const (
	CredentialStatusActive = "active"
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid civilization credentials")
	ErrAlreadyRegistered  = errors.New("civilization already holds a key")
)

type RegisterRequest struct {
	Civ diplomacy.CivID
}

type RegisterResponse struct {
	CivID    diplomacy.CivID `json:"civ_id"`
	CivKey   string          `json:"civ_key"`
	IssuedAt string          `json:"issued_at"`
}

type VerifyRequest struct {
	Civ    diplomacy.CivID
	CivKey string
}

// RegisterUseCase issues the one key a civilization negotiates with. The key
// is returned once; only its salted hash is stored.
type RegisterUseCase struct {
	Credentials ports.CivCredentialRepository
	Universe    ports.Universe
	Now         func() time.Time
}

type VerifyUseCase struct {
	Credentials ports.CivCredentialRepository
}

func (u RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.Universe == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	if _, err := u.Universe.Civilization(ctx, req.Civ); err != nil {
		return RegisterResponse{}, err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	civKey, err := randomToken(32)
	if err != nil {
		return RegisterResponse{}, err
	}
	salt, err := randomBytes(16)
	if err != nil {
		return RegisterResponse{}, err
	}
	err = u.Credentials.Create(ctx, ports.CivCredentialRecord{
		Civ:       req.Civ,
		KeySalt:   salt,
		KeyHash:   credentialHash(salt, civKey),
		Status:    CredentialStatusActive,
		CreatedAt: now,
	})
	if errors.Is(err, ports.ErrConflict) {
		return RegisterResponse{}, ErrAlreadyRegistered
	}
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{
		CivID:    req.Civ,
		CivKey:   civKey,
		IssuedAt: now.Format(time.RFC3339),
	}, nil
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req.CivKey = strings.TrimSpace(req.CivKey)
	if req.CivKey == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	cred, err := u.Credentials.GetByCiv(ctx, req.Civ)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}

	got := credentialHash(cred.KeySalt, req.CivKey)
	if subtle.ConstantTimeCompare(got, cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
