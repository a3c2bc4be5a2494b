package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"botf2/internal/app/agreement"
	"botf2/internal/app/auth"
	"botf2/internal/app/ports"
	"botf2/internal/app/proposal"
	"botf2/internal/app/relations"
	"botf2/internal/app/replay"
	"botf2/internal/app/treaty"
	"botf2/internal/domain/diplomacy"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/go-playground/validator/v10"
)

const (
	civIDHeader  = "X-Civ-ID"
	civKeyHeader = "X-Civ-Key"
)

var requestValidator = validator.New()

// Handler serves the diplomacy API. With AuthUC set every civ-scoped route
// also requires the civilization's key.
type Handler struct {
	RegisterUC    auth.RegisterUseCase
	AuthUC        *auth.VerifyUseCase
	ProposeUC     proposal.ProposeUseCase
	RespondUC     proposal.RespondUseCase
	IntentUC      proposal.IntentUseCase
	BreakUC       agreement.BreakUseCase
	AdvanceTurnUC agreement.AdvanceTurnUseCase
	DeclareWarUC  agreement.DeclareWarUseCase
	RelationsUC   relations.UseCase
	ReplayUC      replay.UseCase
	KPI           kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api/diplomacy")
	api.POST("/civs/:id/register", h.register)
	api.POST("/proposals", h.propose)
	api.POST("/proposals/:id/accept", h.accept)
	api.POST("/proposals/:id/reject", h.reject)
	api.POST("/proposals/:id/intent", h.intent)
	api.POST("/agreements/:id/break", h.breakAgreement)
	api.POST("/war", h.declareWar)
	api.POST("/turns/advance", h.advanceTurn)
	api.GET("/relations", h.relations)
	api.GET("/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type proposeRequest struct {
	Recipient diplomacy.CivID    `json:"recipient" validate:"gte=0"`
	Clauses   []diplomacy.Clause `json:"clauses" validate:"required,min=1"`
}

type intentRequest struct {
	Action diplomacy.PendingAction `json:"action" validate:"oneof=none accept_proposal reject_proposal"`
}

type declareWarRequest struct {
	Target diplomacy.CivID `json:"target" validate:"gte=0"`
}

func (h Handler) propose(c context.Context, ctx *app.RequestContext) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body proposeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		if errors.Is(err, diplomacy.ErrInvalidClausePayload) {
			writeError(ctx, err)
			return
		}
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := requestValidator.Struct(body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}

	resp, err := h.ProposeUC.Execute(c, proposal.ProposeRequest{
		Sender:    civ,
		Recipient: body.Recipient,
		Clauses:   body.Clauses,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) accept(c context.Context, ctx *app.RequestContext) {
	h.respond(c, ctx, true)
}

func (h Handler) reject(c context.Context, ctx *app.RequestContext) {
	h.respond(c, ctx, false)
}

func (h Handler) respond(c context.Context, ctx *app.RequestContext, accept bool) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RespondUC.Execute(c, proposal.RespondRequest{
		ProposalID: ctx.Param("id"),
		Responder:  civ,
		Accept:     accept,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// intent queues an answer that is carried out when the turn advances.
func (h Handler) intent(c context.Context, ctx *app.RequestContext) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body intentRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := requestValidator.Struct(body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}
	resp, err := h.IntentUC.Execute(c, proposal.IntentRequest{
		ProposalID: ctx.Param("id"),
		Responder:  civ,
		Action:     body.Action,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) breakAgreement(c context.Context, ctx *app.RequestContext) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.BreakUC.Execute(c, agreement.BreakRequest{
		AgreementID: ctx.Param("id"),
		RequestedBy: civ,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) declareWar(c context.Context, ctx *app.RequestContext) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body declareWarRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := requestValidator.Struct(body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}
	resp, err := h.DeclareWarUC.Execute(c, agreement.DeclareWarRequest{Declarer: civ, Target: body.Target})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) advanceTurn(c context.Context, ctx *app.RequestContext) {
	resp, err := h.AdvanceTurnUC.Execute(c, agreement.AdvanceTurnRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) relations(c context.Context, ctx *app.RequestContext) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	req := relations.Request{Civ: civ}
	if raw := string(ctx.Query("counterparty")); raw != "" {
		other, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "invalid counterparty")
			return
		}
		counterparty := diplomacy.CivID(other)
		req.Counterparty = &counterparty
	}
	resp, err := h.RelationsUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	civ, err := h.authenticate(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	fromTurn, _ := strconv.Atoi(string(ctx.Query("from_turn")))
	toTurn, _ := strconv.Atoi(string(ctx.Query("to_turn")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		Civ:          civ,
		FromTurn:     fromTurn,
		ToTurn:       toTurn,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
		Limit:        limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 0 {
		writeError(ctx, ErrInvalidCivHeader)
		return
	}
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{Civ: diplomacy.CivID(id)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var (
	ErrMissingCivHeader = errors.New("missing x-civ-id header")
	ErrInvalidCivHeader = errors.New("invalid x-civ-id header")
	ErrMissingCivKey    = errors.New("missing x-civ-key header")
)

func (h Handler) authenticate(c context.Context, ctx *app.RequestContext) (diplomacy.CivID, error) {
	civ, err := requireCiv(ctx)
	if err != nil || h.AuthUC == nil {
		return civ, err
	}
	key := strings.TrimSpace(string(ctx.GetHeader(civKeyHeader)))
	if key == "" {
		return 0, ErrMissingCivKey
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{Civ: civ, CivKey: key}); err != nil {
		return 0, err
	}
	return civ, nil
}

func requireCiv(ctx *app.RequestContext) (diplomacy.CivID, error) {
	raw := strings.TrimSpace(string(ctx.GetHeader(civIDHeader)))
	if raw == "" {
		return 0, ErrMissingCivHeader
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, ErrInvalidCivHeader
	}
	return diplomacy.CivID(id), nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingCivHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_civ_id", err.Error())
	case errors.Is(err, ErrInvalidCivHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_civ_id", err.Error())
	case errors.Is(err, ErrMissingCivKey):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_civ_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_civ_credentials", err.Error())
	case errors.Is(err, auth.ErrAlreadyRegistered):
		writeErrorBody(ctx, consts.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, proposal.ErrNotRecipient),
		errors.Is(err, agreement.ErrNotParty):
		writeErrorBody(ctx, consts.StatusForbidden, "not_a_party", err.Error())
	case errors.Is(err, treaty.ErrAtWar):
		writeErrorBody(ctx, consts.StatusConflict, "at_war", err.Error())
	case errors.Is(err, proposal.ErrStaleProposal):
		writeErrorBody(ctx, consts.StatusConflict, "stale_proposal", err.Error())
	case errors.Is(err, proposal.ErrDiplomatUnavailable):
		writeErrorBody(ctx, consts.StatusConflict, "diplomat_unavailable", err.Error())
	case errors.Is(err, ports.ErrInsufficientCredits):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_credits", err.Error())
	case errors.Is(err, treaty.ErrAlreadyFulfilled):
		writeErrorBody(ctx, consts.StatusConflict, "already_fulfilled", err.Error())
	case errors.Is(err, diplomacy.ErrUnknownClauseKind),
		errors.Is(err, diplomacy.ErrClausePayloadMismatch),
		errors.Is(err, diplomacy.ErrInvalidClausePayload):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_clause", err.Error())
	case errors.Is(err, proposal.ErrInvalidRequest),
		errors.Is(err, agreement.ErrInvalidRequest),
		errors.Is(err, diplomacy.ErrSameParty),
		errors.Is(err, diplomacy.ErrNoClauses):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
