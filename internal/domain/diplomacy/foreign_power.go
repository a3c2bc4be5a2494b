package diplomacy

import "fmt"

// Turns that must pass after a war declaration before envoys are received.
const WarDiplomacyCooldownTurns = 3

// ForeignPower is the relationship record one civilization keeps about a
// counterpart. Status is derived; Base is the raw war/peace axis.
type ForeignPower struct {
	OwnerID          CivID              `json:"owner_id"`
	CounterpartyID   CivID              `json:"counterparty_id"`
	Status           ForeignPowerStatus `json:"status"`
	Base             ForeignPowerStatus `json:"base"`
	PendingAction    PendingAction      `json:"pending_action"`
	ProposalSent     *Proposal          `json:"proposal_sent,omitempty"`
	ProposalReceived *Proposal          `json:"proposal_received,omitempty"`
	ResponseSent     *Response          `json:"response_sent,omitempty"`
	ResponseReceived *Response          `json:"response_received,omitempty"`
	ContactTurn      int                `json:"contact_turn"`
	LastStatusChange int                `json:"last_status_change"`
	IsEmbargoInPlace bool               `json:"is_embargo_in_place"`
}

func NewForeignPower(owner, counterparty CivID) *ForeignPower {
	return &ForeignPower{
		OwnerID:        owner,
		CounterpartyID: counterparty,
		Status:         StatusNoContact,
		Base:           StatusNeutral,
		PendingAction:  PendingNone,
	}
}

func (f *ForeignPower) IsContactMade() bool { return f.ContactTurn > 0 }

// SetBase moves the raw war/peace axis.
func (f *ForeignPower) SetBase(to ForeignPowerStatus) error {
	if !IsValidBaseTransition(f.Base, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.Base, to)
	}
	f.Base = to
	return nil
}

// SetStatus stores a derived status and reports whether it changed.
func (f *ForeignPower) SetStatus(status ForeignPowerStatus, turn int) bool {
	if f.Status == status {
		return false
	}
	f.Status = status
	f.LastStatusChange = turn
	return true
}

// BeginEmbargo stops the owner's trade with the counterparty.
func (f *ForeignPower) BeginEmbargo() { f.IsEmbargoInPlace = true }

func (f *ForeignPower) EndEmbargo() { f.IsEmbargoInPlace = false }

// IsDiplomatAvailable reports whether the counterpart receives envoys.
func (f *ForeignPower) IsDiplomatAvailable(turn int) bool {
	if f.Status.IsMembership() {
		return false
	}
	if f.Status == StatusAtWar {
		return turn-f.LastStatusChange > WarDiplomacyCooldownTurns
	}
	return true
}
