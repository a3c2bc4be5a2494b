package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"gorm.io/gorm"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("BOTF2_DB_DSN")
	if dsn == "" {
		t.Skip("BOTF2_DB_DSN is required for integration test")
	}
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDiplomacyStateRepo_RoundTripAndConflict(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM diplomacy_states").Error

	repo := NewDiplomacyStateRepo(db)
	st, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if st.Version != 0 {
		t.Fatalf("expected fresh state, got version %d", st.Version)
	}

	clause, _ := diplomacy.NewClause(diplomacy.ClauseTreatyTradePact, nil, 0)
	p, _ := diplomacy.NewProposal(1, 2, 4, clause)
	if err := st.Matrix.Add(diplomacy.NewAgreement(p, 4, nil)); err != nil {
		t.Fatalf("add agreement: %v", err)
	}
	st.ForeignPower(2, 1).SetStatus(diplomacy.StatusFriendly, 4)
	st.Version = 1
	if err := repo.SaveWithVersion(ctx, st, 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 1 || got.Matrix.Len() != 1 {
		t.Fatalf("expected version 1 with one agreement, got version=%d agreements=%d", got.Version, got.Matrix.Len())
	}
	if got.ForeignPower(2, 1).Status != diplomacy.StatusFriendly {
		t.Fatalf("expected friendly, got %s", got.ForeignPower(2, 1).Status)
	}

	got.Version = 2
	if err := repo.SaveWithVersion(ctx, got, 1); err != nil {
		t.Fatalf("save v2: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, got, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
	if err := repo.SaveWithVersion(ctx, got, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for second insert, got %v", err)
	}
}

func TestEventRepo_ListOldestFirstWithLimit(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM diplomacy_events WHERE sender IN (901, 902) OR recipient IN (901, 902)").Error

	repo := NewEventRepo(db)
	now := time.Now().UTC()
	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		return repo.Append(txCtx, []diplomacy.Event{
			{Type: diplomacy.EventProposalSent, Turn: 1, OccurredAt: now, Sender: 901, Recipient: 902},
			{Type: diplomacy.EventProposalAccepted, Turn: 1, OccurredAt: now, Sender: 901, Recipient: 902, AgreementID: "a-1"},
			{Type: diplomacy.EventStatusChanged, Turn: 2, OccurredAt: now, Sender: 902, Recipient: 901, Payload: map[string]any{"to": "friendly"}},
		})
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.List(ctx, ports.EventFilter{Civs: []diplomacy.CivID{901}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Type != diplomacy.EventProposalSent {
		t.Fatalf("expected three events oldest first, got %+v", all)
	}
	if all[1].AgreementID != "a-1" {
		t.Fatalf("expected agreement id a-1, got %q", all[1].AgreementID)
	}
	if all[2].Payload["to"] != "friendly" {
		t.Fatalf("expected payload to survive, got %v", all[2].Payload)
	}

	recent, err := repo.List(ctx, ports.EventFilter{Civs: []diplomacy.CivID{902}, Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(recent) != 2 || recent[1].Type != diplomacy.EventStatusChanged {
		t.Fatalf("expected the two most recent events, got %+v", recent)
	}

	turnTwo, err := repo.List(ctx, ports.EventFilter{Civs: []diplomacy.CivID{901}, FromTurn: 2})
	if err != nil {
		t.Fatalf("list by turn: %v", err)
	}
	if len(turnTwo) != 1 {
		t.Fatalf("expected one event from turn 2, got %d", len(turnTwo))
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM diplomacy_events WHERE sender = 903").Error

	repo := NewEventRepo(db)
	boom := errors.New("boom")
	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Append(txCtx, []diplomacy.Event{{Type: diplomacy.EventWarDeclared, Turn: 1, OccurredAt: time.Now(), Sender: 903, Recipient: 904}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := repo.List(ctx, ports.EventFilter{Civs: []diplomacy.CivID{903}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected rollback, got %d events", len(got))
	}
}

func TestSnapshotRepo_UpsertsPerTurn(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM diplomacy_snapshots WHERE turn = 77").Error

	repo := NewSnapshotRepo(db)
	if _, err := repo.LoadSnapshot(ctx, 77); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SaveSnapshot(ctx, 77, diplomacy.Snapshot{Version: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveSnapshot(ctx, 77, diplomacy.Snapshot{Version: 4}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	snap, err := repo.LoadSnapshot(ctx, 77)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Version != 4 {
		t.Fatalf("expected version 4, got %d", snap.Version)
	}
}

func TestCivCredentialRepo_CreateAndGet(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM civ_credentials WHERE civ_id = ?", 77).Error

	repo := NewCivCredentialRepo(db)
	if _, err := repo.GetByCiv(ctx, 77); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	cred := ports.CivCredentialRecord{
		Civ:       77,
		KeySalt:   []byte("salt"),
		KeyHash:   []byte("hash"),
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, cred); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, cred); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate, got %v", err)
	}
	got, err := repo.GetByCiv(ctx, 77)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.KeyHash) != "hash" || got.Status != "active" {
		t.Fatalf("unexpected credential: %+v", got)
	}
}
