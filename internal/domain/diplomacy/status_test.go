package diplomacy

import (
	"errors"
	"testing"
)

func TestResolveStatusPriority(t *testing.T) {
	base := StatusInput{Owner: 1, Counterparty: 2, ContactMade: true, Base: StatusNeutral, Empire: NoCiv}
	cases := []struct {
		name     string
		treaties []ClauseKind
		base     ForeignPowerStatus
		empire   CivID
		want     ForeignPowerStatus
	}{
		{"neutral default", nil, StatusNeutral, NoCiv, StatusNeutral},
		{"raw war", nil, StatusAtWar, NoCiv, StatusAtWar},
		{"raw hostile", nil, StatusHostile, NoCiv, StatusHostile},
		{"cease fire", []ClauseKind{ClauseTreatyCeaseFire}, StatusNeutral, NoCiv, StatusNeutral},
		{"non aggression", []ClauseKind{ClauseTreatyNonAggression}, StatusNeutral, NoCiv, StatusPeace},
		{"trade pact", []ClauseKind{ClauseTreatyTradePact, ClauseTreatyNonAggression}, StatusNeutral, NoCiv, StatusFriendly},
		{"affiliation", []ClauseKind{ClauseTreatyAffiliation, ClauseTreatyOpenBorders}, StatusNeutral, NoCiv, StatusAffiliated},
		{"alliance", []ClauseKind{ClauseTreatyDefensiveAlliance, ClauseTreatyAffiliation}, StatusNeutral, NoCiv, StatusAllied},
		{"owner is empire", []ClauseKind{ClauseTreatyMembership, ClauseTreatyFullAlliance}, StatusNeutral, 1, StatusCounterpartyIsMember},
		{"counterparty is empire", []ClauseKind{ClauseTreatyMembership}, StatusNeutral, 2, StatusOwnerIsMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.Base = tc.base
			in.Empire = tc.empire
			in.Treaties = map[ClauseKind]bool{}
			for _, k := range tc.treaties {
				in.Treaties[k] = true
			}
			if got := ResolveStatus(in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestResolveStatusWithoutContact(t *testing.T) {
	in := StatusInput{Owner: 1, Counterparty: 2, Base: StatusAtWar, Treaties: map[ClauseKind]bool{ClauseTreatyFullAlliance: true}}
	if got := ResolveStatus(in); got != StatusNoContact {
		t.Fatalf("expected no_contact, got %s", got)
	}
	in.Counterparty = 1
	if got := ResolveStatus(in); got != StatusSelf {
		t.Fatalf("expected self, got %s", got)
	}
}

func TestBaseTransitions(t *testing.T) {
	fp := NewForeignPower(1, 2)
	if err := fp.SetBase(StatusAtWar); err != nil {
		t.Fatalf("neutral -> at_war: %v", err)
	}
	if err := fp.SetBase(StatusHostile); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected at_war -> hostile to be invalid, got %v", err)
	}
	if err := fp.SetBase(StatusNeutral); err != nil {
		t.Fatalf("at_war -> neutral: %v", err)
	}
	if err := fp.SetBase(StatusAllied); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("treaty statuses are not raw axis states, got %v", err)
	}
}

func TestStatusTextRoundTrip(t *testing.T) {
	for s := StatusNoContact; s <= StatusSelf; s++ {
		b, _ := s.MarshalText()
		var got ForeignPowerStatus
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != s {
			t.Fatalf("expected %s, got %s", s, got)
		}
	}
}

func TestIsDiplomatAvailable(t *testing.T) {
	fp := NewForeignPower(1, 2)
	fp.SetStatus(StatusAtWar, 10)
	if fp.IsDiplomatAvailable(13) {
		t.Fatalf("expected no envoys within cooldown")
	}
	if !fp.IsDiplomatAvailable(14) {
		t.Fatalf("expected envoys after cooldown")
	}
	fp.SetStatus(StatusOwnerIsMember, 14)
	if fp.IsDiplomatAvailable(40) {
		t.Fatalf("members have no independent diplomacy")
	}
}

func TestSetStatusStampsChangeTurn(t *testing.T) {
	fp := NewForeignPower(1, 2)
	if !fp.SetStatus(StatusNeutral, 3) {
		t.Fatalf("expected change")
	}
	if fp.SetStatus(StatusNeutral, 9) {
		t.Fatalf("expected no change")
	}
	if fp.LastStatusChange != 3 {
		t.Fatalf("expected last change turn 3, got %d", fp.LastStatusChange)
	}
}
