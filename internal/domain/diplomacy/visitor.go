package diplomacy

import "context"

// ClauseVisitor interprets clauses for one resolution phase. Implementations
// embed BaseVisitor and override the kinds they act on.
type ClauseVisitor interface {
	VisitWithdrawTroopsOffer(ctx context.Context, c Clause)
	VisitWithdrawTroopsRequest(ctx context.Context, c Clause)
	VisitStopPiracyOffer(ctx context.Context, c Clause)
	VisitStopPiracyRequest(ctx context.Context, c Clause)
	VisitBreakAgreementOffer(ctx context.Context, c Clause)
	VisitBreakAgreementRequest(ctx context.Context, c Clause)
	VisitGiveCreditsOffer(ctx context.Context, c Clause)
	VisitGiveCreditsRequest(ctx context.Context, c Clause)
	VisitGiveResourcesOffer(ctx context.Context, c Clause)
	VisitGiveResourcesRequest(ctx context.Context, c Clause)
	VisitMapDataOffer(ctx context.Context, c Clause)
	VisitMapDataRequest(ctx context.Context, c Clause)
	VisitHonorMilitaryAgreementOffer(ctx context.Context, c Clause)
	VisitHonorMilitaryAgreementRequest(ctx context.Context, c Clause)
	VisitEndEmbargoOffer(ctx context.Context, c Clause)
	VisitEndEmbargoRequest(ctx context.Context, c Clause)
	VisitWarPact(ctx context.Context, c Clause)
	VisitTreatyCeaseFire(ctx context.Context, c Clause)
	VisitTreatyNonAggression(ctx context.Context, c Clause)
	VisitTreatyOpenBorders(ctx context.Context, c Clause)
	VisitTreatyTradePact(ctx context.Context, c Clause)
	VisitTreatyResearchPact(ctx context.Context, c Clause)
	VisitTreatyAffiliation(ctx context.Context, c Clause)
	VisitTreatyDefensiveAlliance(ctx context.Context, c Clause)
	VisitTreatyFullAlliance(ctx context.Context, c Clause)
	VisitTreatyMembership(ctx context.Context, c Clause)
}

type BaseVisitor struct{}

func (BaseVisitor) VisitWithdrawTroopsOffer(context.Context, Clause)           {}
func (BaseVisitor) VisitWithdrawTroopsRequest(context.Context, Clause)         {}
func (BaseVisitor) VisitStopPiracyOffer(context.Context, Clause)               {}
func (BaseVisitor) VisitStopPiracyRequest(context.Context, Clause)             {}
func (BaseVisitor) VisitBreakAgreementOffer(context.Context, Clause)           {}
func (BaseVisitor) VisitBreakAgreementRequest(context.Context, Clause)         {}
func (BaseVisitor) VisitGiveCreditsOffer(context.Context, Clause)              {}
func (BaseVisitor) VisitGiveCreditsRequest(context.Context, Clause)            {}
func (BaseVisitor) VisitGiveResourcesOffer(context.Context, Clause)            {}
func (BaseVisitor) VisitGiveResourcesRequest(context.Context, Clause)          {}
func (BaseVisitor) VisitMapDataOffer(context.Context, Clause)                  {}
func (BaseVisitor) VisitMapDataRequest(context.Context, Clause)                {}
func (BaseVisitor) VisitHonorMilitaryAgreementOffer(context.Context, Clause)   {}
func (BaseVisitor) VisitHonorMilitaryAgreementRequest(context.Context, Clause) {}
func (BaseVisitor) VisitEndEmbargoOffer(context.Context, Clause)               {}
func (BaseVisitor) VisitEndEmbargoRequest(context.Context, Clause)             {}
func (BaseVisitor) VisitWarPact(context.Context, Clause)                       {}
func (BaseVisitor) VisitTreatyCeaseFire(context.Context, Clause)               {}
func (BaseVisitor) VisitTreatyNonAggression(context.Context, Clause)           {}
func (BaseVisitor) VisitTreatyOpenBorders(context.Context, Clause)             {}
func (BaseVisitor) VisitTreatyTradePact(context.Context, Clause)               {}
func (BaseVisitor) VisitTreatyResearchPact(context.Context, Clause)            {}
func (BaseVisitor) VisitTreatyAffiliation(context.Context, Clause)             {}
func (BaseVisitor) VisitTreatyDefensiveAlliance(context.Context, Clause)       {}
func (BaseVisitor) VisitTreatyFullAlliance(context.Context, Clause)            {}
func (BaseVisitor) VisitTreatyMembership(context.Context, Clause)              {}

var _ ClauseVisitor = BaseVisitor{}

// Accept invokes the handler for the clause's own kind. Unknown kinds are
// ignored.
func (c Clause) Accept(ctx context.Context, v ClauseVisitor) {
	switch c.Kind {
	case ClauseWithdrawTroopsOffer:
		v.VisitWithdrawTroopsOffer(ctx, c)
	case ClauseWithdrawTroopsRequest:
		v.VisitWithdrawTroopsRequest(ctx, c)
	case ClauseStopPiracyOffer:
		v.VisitStopPiracyOffer(ctx, c)
	case ClauseStopPiracyRequest:
		v.VisitStopPiracyRequest(ctx, c)
	case ClauseBreakAgreementOffer:
		v.VisitBreakAgreementOffer(ctx, c)
	case ClauseBreakAgreementRequest:
		v.VisitBreakAgreementRequest(ctx, c)
	case ClauseGiveCreditsOffer:
		v.VisitGiveCreditsOffer(ctx, c)
	case ClauseGiveCreditsRequest:
		v.VisitGiveCreditsRequest(ctx, c)
	case ClauseGiveResourcesOffer:
		v.VisitGiveResourcesOffer(ctx, c)
	case ClauseGiveResourcesRequest:
		v.VisitGiveResourcesRequest(ctx, c)
	case ClauseMapDataOffer:
		v.VisitMapDataOffer(ctx, c)
	case ClauseMapDataRequest:
		v.VisitMapDataRequest(ctx, c)
	case ClauseHonorMilitaryAgreementOffer:
		v.VisitHonorMilitaryAgreementOffer(ctx, c)
	case ClauseHonorMilitaryAgreementRequest:
		v.VisitHonorMilitaryAgreementRequest(ctx, c)
	case ClauseEndEmbargoOffer:
		v.VisitEndEmbargoOffer(ctx, c)
	case ClauseEndEmbargoRequest:
		v.VisitEndEmbargoRequest(ctx, c)
	case ClauseWarPact:
		v.VisitWarPact(ctx, c)
	case ClauseTreatyCeaseFire:
		v.VisitTreatyCeaseFire(ctx, c)
	case ClauseTreatyNonAggression:
		v.VisitTreatyNonAggression(ctx, c)
	case ClauseTreatyOpenBorders:
		v.VisitTreatyOpenBorders(ctx, c)
	case ClauseTreatyTradePact:
		v.VisitTreatyTradePact(ctx, c)
	case ClauseTreatyResearchPact:
		v.VisitTreatyResearchPact(ctx, c)
	case ClauseTreatyAffiliation:
		v.VisitTreatyAffiliation(ctx, c)
	case ClauseTreatyDefensiveAlliance:
		v.VisitTreatyDefensiveAlliance(ctx, c)
	case ClauseTreatyFullAlliance:
		v.VisitTreatyFullAlliance(ctx, c)
	case ClauseTreatyMembership:
		v.VisitTreatyMembership(ctx, c)
	}
}

// Walk dispatches every clause in order.
func Walk(ctx context.Context, clauses []Clause, v ClauseVisitor) {
	for _, c := range clauses {
		c.Accept(ctx, v)
	}
}
