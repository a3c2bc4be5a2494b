package diplomacy

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid foreign power transition")

// ForeignPowerStatus values are ordered from worst to best relationship so
// that comparisons like status >= StatusFriendly are meaningful.
type ForeignPowerStatus int

const (
	StatusNoContact ForeignPowerStatus = iota
	StatusAtWar
	StatusHostile
	StatusNeutral
	StatusPeace
	StatusFriendly
	StatusAffiliated
	StatusAllied
	StatusOwnerIsMember
	StatusCounterpartyIsMember
	StatusSelf
)

var statusNames = map[ForeignPowerStatus]string{
	StatusNoContact:            "no_contact",
	StatusAtWar:                "at_war",
	StatusHostile:              "hostile",
	StatusNeutral:              "neutral",
	StatusPeace:                "peace",
	StatusFriendly:             "friendly",
	StatusAffiliated:           "affiliated",
	StatusAllied:               "allied",
	StatusOwnerIsMember:        "owner_is_member",
	StatusCounterpartyIsMember: "counterparty_is_member",
	StatusSelf:                 "self",
}

func (s ForeignPowerStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s ForeignPowerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ForeignPowerStatus) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseStatus(name string) (ForeignPowerStatus, error) {
	for k, v := range statusNames {
		if v == name {
			return k, nil
		}
	}
	return StatusNoContact, fmt.Errorf("unknown foreign power status %q", name)
}

func (s ForeignPowerStatus) IsMembership() bool {
	return s == StatusOwnerIsMember || s == StatusCounterpartyIsMember
}

// The raw war/peace axis only moves between these three states; treaty
// statuses are layered on top by ResolveStatus.
var validBaseTransitions = map[ForeignPowerStatus]map[ForeignPowerStatus]bool{
	StatusNeutral: {StatusHostile: true, StatusAtWar: true},
	StatusHostile: {StatusNeutral: true, StatusAtWar: true},
	StatusAtWar:   {StatusNeutral: true},
}

func IsValidBaseTransition(from, to ForeignPowerStatus) bool {
	if from == to {
		return true
	}
	return validBaseTransitions[from][to]
}

// StatusInput is everything ResolveStatus needs about one ordered pair.
type StatusInput struct {
	Owner        CivID
	Counterparty CivID
	ContactMade  bool
	Base         ForeignPowerStatus
	// Treaties holds the treaty kinds of all active agreements for the pair.
	Treaties map[ClauseKind]bool
	// Empire is the empire side of an active membership, NoCiv otherwise.
	Empire CivID
}

// ResolveStatus derives the displayed status from active treaties and the
// raw axis.
func ResolveStatus(in StatusInput) ForeignPowerStatus {
	switch {
	case in.Owner == in.Counterparty:
		return StatusSelf
	case !in.ContactMade:
		return StatusNoContact
	case in.Treaties[ClauseTreatyMembership] && in.Empire == in.Owner:
		return StatusCounterpartyIsMember
	case in.Treaties[ClauseTreatyMembership] && in.Empire == in.Counterparty:
		return StatusOwnerIsMember
	case in.Treaties[ClauseTreatyDefensiveAlliance], in.Treaties[ClauseTreatyFullAlliance]:
		return StatusAllied
	case in.Treaties[ClauseTreatyAffiliation]:
		return StatusAffiliated
	case in.Treaties[ClauseTreatyOpenBorders], in.Treaties[ClauseTreatyTradePact], in.Treaties[ClauseTreatyResearchPact]:
		return StatusFriendly
	case in.Treaties[ClauseTreatyNonAggression]:
		return StatusPeace
	case in.Treaties[ClauseTreatyCeaseFire]:
		return StatusNeutral
	case in.Base == StatusAtWar:
		return StatusAtWar
	case in.Base == StatusHostile:
		return StatusHostile
	default:
		return StatusNeutral
	}
}

type PendingAction string

const (
	PendingNone           PendingAction = "none"
	PendingAcceptProposal PendingAction = "accept_proposal"
	PendingRejectProposal PendingAction = "reject_proposal"
)

func (a PendingAction) IsValid() bool {
	switch a {
	case PendingNone, PendingAcceptProposal, PendingRejectProposal:
		return true
	}
	return false
}
