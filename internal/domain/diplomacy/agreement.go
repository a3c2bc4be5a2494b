package diplomacy

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Agreement data keys are namespaced by the clause handler that writes them.
const (
	DataKeyTransferredColonies = "membership/transferred-colonies"
	DataKeyMembershipEmpire    = "membership/empire"
)

type Agreement struct {
	ID                string                     `json:"id"`
	Proposal          *Proposal                  `json:"proposal"`
	StartTurn         int                        `json:"start_turn"`
	EndTurn           int                        `json:"end_turn"`
	LastFulfilledTurn int                        `json:"last_fulfilled_turn"`
	Data              map[string]json.RawMessage `json:"data,omitempty"`
}

// NewAgreement records an accepted proposal. EndTurn stays 0 while any
// clause is indefinite.
func NewAgreement(p *Proposal, startTurn int, data AgreementData) *Agreement {
	return &Agreement{
		ID:        "agr_" + uuid.New().String()[:16],
		Proposal:  p,
		StartTurn: startTurn,
		EndTurn:   endTurn(p.Clauses, startTurn),
		Data:      data.raw(),
	}
}

func endTurn(clauses []Clause, start int) int {
	longest := 0
	for _, c := range clauses {
		if c.Duration == IndefiniteDuration {
			return 0
		}
		if c.Duration > longest {
			longest = c.Duration
		}
	}
	if longest == 0 {
		return 0
	}
	return start + longest
}

func (a *Agreement) Sender() CivID    { return a.Proposal.Sender }
func (a *Agreement) Recipient() CivID { return a.Proposal.Recipient }

func (a *Agreement) Pair() Pair {
	return NewPair(a.Proposal.Sender, a.Proposal.Recipient)
}

// IsExpired reports whether a finite agreement has run out at turn.
func (a *Agreement) IsExpired(turn int) bool {
	return a.EndTurn != 0 && turn >= a.EndTurn
}

func (a *Agreement) HasClause(kind ClauseKind) bool {
	return a.Proposal.HasClause(kind)
}

func (a *Agreement) DataAs(key string, out any) (bool, error) {
	raw, ok := a.Data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode agreement data %s: %w", key, err)
	}
	return true, nil
}

func (a *Agreement) TransferredColonies() []ColonyID {
	var ids []ColonyID
	if ok, err := a.DataAs(DataKeyTransferredColonies, &ids); !ok || err != nil {
		return nil
	}
	return ids
}

// MembershipEmpire returns the empire side recorded by a membership clause.
func (a *Agreement) MembershipEmpire() (CivID, bool) {
	var civ CivID
	if ok, err := a.DataAs(DataKeyMembershipEmpire, &civ); !ok || err != nil {
		return NoCiv, false
	}
	return civ, true
}

// AgreementData accumulates handler artifacts during a clause walk.
type AgreementData map[string]any

func (d AgreementData) Set(key string, v any) { d[key] = v }

func (d AgreementData) raw() map[string]json.RawMessage {
	if len(d) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(d))
	for k, v := range d {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out[k] = b
	}
	return out
}
