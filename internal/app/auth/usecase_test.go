package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	repomem "botf2/internal/adapter/repo/memory"
	universemem "botf2/internal/adapter/universe/memory"
	"botf2/internal/app/ports"
)

func newRegister(creds ports.CivCredentialRepository) RegisterUseCase {
	u := universemem.NewUniverse(1)
	u.AddCivilization(ports.Civilization{ID: 1, Name: "Federation", IsEmpire: true}, 100)
	return RegisterUseCase{
		Credentials: creds,
		Universe:    u,
		Now:         func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}
}

func TestRegisterUseCase_IssuesKeyOncePerCiv(t *testing.T) {
	creds := repomem.NewCredentialRepo()
	uc := newRegister(creds)

	resp, err := uc.Execute(context.Background(), RegisterRequest{Civ: 1})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if resp.CivID != 1 || resp.CivKey == "" || resp.IssuedAt != "2023-11-14T22:13:20Z" {
		t.Fatalf("unexpected register response: %+v", resp)
	}
	stored, err := creds.GetByCiv(context.Background(), 1)
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if len(stored.KeySalt) == 0 || len(stored.KeyHash) == 0 {
		t.Fatalf("expected credential salt/hash stored")
	}
	if string(stored.KeyHash) == resp.CivKey {
		t.Fatalf("expected the raw key not to be stored")
	}

	if _, err := uc.Execute(context.Background(), RegisterRequest{Civ: 1}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterUseCase_UnknownCiv(t *testing.T) {
	uc := newRegister(repomem.NewCredentialRepo())
	if _, err := uc.Execute(context.Background(), RegisterRequest{Civ: 9}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := (RegisterUseCase{}).Execute(context.Background(), RegisterRequest{Civ: 1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest without repos, got %v", err)
	}
}

func TestVerifyUseCase(t *testing.T) {
	creds := repomem.NewCredentialRepo()
	issued, err := newRegister(creds).Execute(context.Background(), RegisterRequest{Civ: 1})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	uc := VerifyUseCase{Credentials: creds}

	if err := uc.Execute(context.Background(), VerifyRequest{Civ: 1, CivKey: " " + issued.CivKey + " "}); err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if err := uc.Execute(context.Background(), VerifyRequest{Civ: 1, CivKey: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong key, got %v", err)
	}
	if err := uc.Execute(context.Background(), VerifyRequest{Civ: 2, CivKey: issued.CivKey}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unregistered civ, got %v", err)
	}
	if err := uc.Execute(context.Background(), VerifyRequest{Civ: 1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest without key, got %v", err)
	}
}

func TestVerifyUseCase_RejectsInactiveCredential(t *testing.T) {
	creds := repomem.NewCredentialRepo()
	salt := []byte("salt")
	if err := creds.Create(context.Background(), ports.CivCredentialRecord{
		Civ:     3,
		KeySalt: salt,
		KeyHash: credentialHash(salt, "secret"),
		Status:  "revoked",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := VerifyUseCase{Credentials: creds}.Execute(context.Background(), VerifyRequest{Civ: 3, CivKey: "secret"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
