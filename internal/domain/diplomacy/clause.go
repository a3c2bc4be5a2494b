package diplomacy

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownClauseKind     = errors.New("unknown clause kind")
	ErrClausePayloadMismatch = errors.New("clause payload does not match kind")
	ErrInvalidClausePayload  = errors.New("invalid clause payload")
)

var payloadValidator = validator.New()

type ClauseKind string

const (
	ClauseWithdrawTroopsOffer           ClauseKind = "withdraw_troops_offer"
	ClauseWithdrawTroopsRequest         ClauseKind = "withdraw_troops_request"
	ClauseStopPiracyOffer               ClauseKind = "stop_piracy_offer"
	ClauseStopPiracyRequest             ClauseKind = "stop_piracy_request"
	ClauseBreakAgreementOffer           ClauseKind = "break_agreement_offer"
	ClauseBreakAgreementRequest         ClauseKind = "break_agreement_request"
	ClauseGiveCreditsOffer              ClauseKind = "give_credits_offer"
	ClauseGiveCreditsRequest            ClauseKind = "give_credits_request"
	ClauseGiveResourcesOffer            ClauseKind = "give_resources_offer"
	ClauseGiveResourcesRequest          ClauseKind = "give_resources_request"
	ClauseMapDataOffer                  ClauseKind = "map_data_offer"
	ClauseMapDataRequest                ClauseKind = "map_data_request"
	ClauseHonorMilitaryAgreementOffer   ClauseKind = "honor_military_agreement_offer"
	ClauseHonorMilitaryAgreementRequest ClauseKind = "honor_military_agreement_request"
	ClauseEndEmbargoOffer               ClauseKind = "end_embargo_offer"
	ClauseEndEmbargoRequest             ClauseKind = "end_embargo_request"
	ClauseWarPact                       ClauseKind = "war_pact"
	ClauseTreatyCeaseFire               ClauseKind = "treaty_cease_fire"
	ClauseTreatyNonAggression           ClauseKind = "treaty_non_aggression"
	ClauseTreatyOpenBorders             ClauseKind = "treaty_open_borders"
	ClauseTreatyTradePact               ClauseKind = "treaty_trade_pact"
	ClauseTreatyResearchPact            ClauseKind = "treaty_research_pact"
	ClauseTreatyAffiliation             ClauseKind = "treaty_affiliation"
	ClauseTreatyDefensiveAlliance       ClauseKind = "treaty_defensive_alliance"
	ClauseTreatyFullAlliance            ClauseKind = "treaty_full_alliance"
	ClauseTreatyMembership              ClauseKind = "treaty_membership"
)

var offerKinds = map[ClauseKind]bool{
	ClauseWithdrawTroopsOffer:         true,
	ClauseStopPiracyOffer:             true,
	ClauseBreakAgreementOffer:         true,
	ClauseGiveCreditsOffer:            true,
	ClauseGiveResourcesOffer:          true,
	ClauseMapDataOffer:                true,
	ClauseHonorMilitaryAgreementOffer: true,
	ClauseEndEmbargoOffer:             true,
}

var requestKinds = map[ClauseKind]bool{
	ClauseWithdrawTroopsRequest:         true,
	ClauseStopPiracyRequest:             true,
	ClauseBreakAgreementRequest:         true,
	ClauseGiveCreditsRequest:            true,
	ClauseGiveResourcesRequest:          true,
	ClauseMapDataRequest:                true,
	ClauseHonorMilitaryAgreementRequest: true,
	ClauseEndEmbargoRequest:             true,
}

var treatyKinds = map[ClauseKind]bool{
	ClauseTreatyCeaseFire:         true,
	ClauseTreatyNonAggression:     true,
	ClauseTreatyOpenBorders:       true,
	ClauseTreatyTradePact:         true,
	ClauseTreatyResearchPact:      true,
	ClauseTreatyAffiliation:       true,
	ClauseTreatyDefensiveAlliance: true,
	ClauseTreatyFullAlliance:      true,
	ClauseTreatyMembership:        true,
}

func (k ClauseKind) IsOffer() bool   { return offerKinds[k] }
func (k ClauseKind) IsRequest() bool { return requestKinds[k] }
func (k ClauseKind) IsTreaty() bool  { return treatyKinds[k] }

func (k ClauseKind) Valid() bool {
	return offerKinds[k] || requestKinds[k] || treatyKinds[k] || k == ClauseWarPact
}

// Clause durations are counted in turns.
const (
	IndefiniteDuration = 0
	ImmediateDuration  = 1
	MaxFiniteDuration  = 250
)

type CreditsClauseData struct {
	ImmediateAmount int64 `json:"immediate_amount" validate:"gte=0"`
	RecurringAmount int64 `json:"recurring_amount" validate:"gte=0"`
}

type WarPactClauseData struct {
	Target CivID `json:"target" validate:"gte=0"`
}

type ResourcesClauseData struct {
	Amounts map[string]int `json:"amounts" validate:"required,min=1,dive,gt=0"`
}

type BreakAgreementClauseData struct {
	AgreementID string `json:"agreement_id" validate:"required"`
}

// Clause is a single term of a proposal. Data holds the payload type
// registered for Kind, or nil for kinds without payload.
type Clause struct {
	Kind     ClauseKind `json:"kind"`
	Data     any        `json:"data,omitempty"`
	Duration int        `json:"duration"`
}

// NewClause builds a clause and checks that data matches the kind.
func NewClause(kind ClauseKind, data any, duration int) (Clause, error) {
	if !kind.Valid() {
		return Clause{}, fmt.Errorf("%w: %q", ErrUnknownClauseKind, kind)
	}
	if err := checkPayload(kind, data); err != nil {
		return Clause{}, err
	}
	return Clause{Kind: kind, Data: data, Duration: normalizeDuration(kind, data, duration)}, nil
}

func checkPayload(kind ClauseKind, data any) error {
	var ok bool
	switch kind {
	case ClauseGiveCreditsOffer, ClauseGiveCreditsRequest:
		_, ok = data.(CreditsClauseData)
	case ClauseWarPact:
		_, ok = data.(WarPactClauseData)
	case ClauseGiveResourcesOffer, ClauseGiveResourcesRequest:
		_, ok = data.(ResourcesClauseData)
	case ClauseBreakAgreementOffer, ClauseBreakAgreementRequest:
		_, ok = data.(BreakAgreementClauseData)
	default:
		ok = data == nil
	}
	if !ok {
		return fmt.Errorf("%w: kind=%s payload=%T", ErrClausePayloadMismatch, kind, data)
	}
	if data == nil {
		return nil
	}
	if err := payloadValidator.Struct(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClausePayload, err)
	}
	return nil
}

func normalizeDuration(kind ClauseKind, data any, duration int) int {
	if duration < 0 || duration > MaxFiniteDuration {
		return IndefiniteDuration
	}
	if duration != 0 {
		return duration
	}
	switch {
	case kind.IsTreaty(), kind == ClauseWarPact:
		return IndefiniteDuration
	case kind == ClauseGiveCreditsOffer, kind == ClauseGiveCreditsRequest:
		if c, ok := data.(CreditsClauseData); ok && c.RecurringAmount > 0 {
			return IndefiniteDuration
		}
		return ImmediateDuration
	default:
		return ImmediateDuration
	}
}

// UnmarshalJSON restores the typed payload registered for the clause kind.
func (c *Clause) UnmarshalJSON(b []byte) error {
	var wire struct {
		Kind     ClauseKind      `json:"kind"`
		Data     json.RawMessage `json:"data"`
		Duration int             `json:"duration"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	data, err := decodePayload(wire.Kind, wire.Data)
	if err != nil {
		return err
	}
	*c = Clause{Kind: wire.Kind, Data: data, Duration: wire.Duration}
	return nil
}

func decodePayload(kind ClauseKind, raw json.RawMessage) (any, error) {
	empty := len(raw) == 0 || string(raw) == "null"
	switch kind {
	case ClauseGiveCreditsOffer, ClauseGiveCreditsRequest:
		var d CreditsClauseData
		if !empty {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", kind, err)
			}
		}
		return d, nil
	case ClauseWarPact:
		if empty {
			return nil, nil
		}
		var d struct {
			Target *CivID `json:"target"`
		}
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		if d.Target == nil {
			return nil, fmt.Errorf("%w: %s needs a target", ErrInvalidClausePayload, kind)
		}
		return WarPactClauseData{Target: *d.Target}, nil
	case ClauseGiveResourcesOffer, ClauseGiveResourcesRequest:
		var d ResourcesClauseData
		if !empty {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", kind, err)
			}
		}
		return d, nil
	case ClauseBreakAgreementOffer, ClauseBreakAgreementRequest:
		var d BreakAgreementClauseData
		if !empty {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", kind, err)
			}
		}
		return d, nil
	default:
		return nil, nil
	}
}
