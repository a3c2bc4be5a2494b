// Package scenario replays a scripted sequence of diplomatic moves against an
// in-memory universe.
package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	metricsinmem "botf2/internal/adapter/metrics/inmemory"
	repomem "botf2/internal/adapter/repo/memory"
	universemem "botf2/internal/adapter/universe/memory"
	"botf2/internal/app/agreement"
	"botf2/internal/app/ports"
	"botf2/internal/app/proposal"
	"botf2/internal/app/relations"
	"botf2/internal/app/shared/statetx"
	"botf2/internal/app/treaty"
	"botf2/internal/domain/diplomacy"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type File struct {
	Universe universemem.Seed `yaml:"universe"`
	Steps    []Step           `yaml:"steps" validate:"dive"`
}

// Step holds exactly one move.
type Step struct {
	Propose *ProposeStep `yaml:"propose,omitempty"`
	Accept  string       `yaml:"accept,omitempty"`
	Reject  string       `yaml:"reject,omitempty"`
	Intend  *IntendStep  `yaml:"intend,omitempty"`
	Break   *BreakStep   `yaml:"break,omitempty"`
	War     *WarStep     `yaml:"war,omitempty"`
	Advance int          `yaml:"advance,omitempty" validate:"gte=0"`
}

type ProposeStep struct {
	Ref       string       `yaml:"ref" validate:"required"`
	Sender    int          `yaml:"sender"`
	Recipient int          `yaml:"recipient"`
	Clauses   []ClauseSpec `yaml:"clauses" validate:"required,min=1,dive"`
}

type ClauseSpec struct {
	Kind     string         `yaml:"kind" validate:"required"`
	Data     map[string]any `yaml:"data,omitempty"`
	Duration int            `yaml:"duration,omitempty"`
}

// IntendStep queues the recipient's answer to proposal Ref for the next
// turn advance.
type IntendStep struct {
	Ref    string `yaml:"ref" validate:"required"`
	Action string `yaml:"action" validate:"oneof=none accept_proposal reject_proposal"`
}

// BreakStep breaks the agreement that came out of proposal Ref.
type BreakStep struct {
	Ref string `yaml:"ref" validate:"required"`
	By  int    `yaml:"by"`
}

type WarStep struct {
	Declarer int `yaml:"declarer"`
	Target   int `yaml:"target"`
}

var fileValidator = validator.New()

func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := fileValidator.Struct(f); err != nil {
		return File{}, fmt.Errorf("invalid scenario: %w", err)
	}
	return f, nil
}

// toClause goes through the JSON codec so the payload gets the type
// registered for its kind.
func (c ClauseSpec) toClause() (diplomacy.Clause, error) {
	b, err := json.Marshal(map[string]any{"kind": c.Kind, "data": c.Data, "duration": c.Duration})
	if err != nil {
		return diplomacy.Clause{}, err
	}
	var out diplomacy.Clause
	if err := json.Unmarshal(b, &out); err != nil {
		return diplomacy.Clause{}, err
	}
	return out, nil
}

type CivRow struct {
	ID       diplomacy.CivID
	Name     string
	IsEmpire bool
	Credits  int64
}

type RelationRow struct {
	Owner        string
	Counterparty string
	Status       diplomacy.ForeignPowerStatus
	Base         diplomacy.ForeignPowerStatus
	Agreements   int
}

type Result struct {
	Turn       int
	Civs       []CivRow
	Relations  []RelationRow
	Agreements []*diplomacy.Agreement
	Events     []diplomacy.Event
	KPI        metricsinmem.Snapshot
}

type world struct {
	universe  *universemem.Universe
	runner    statetx.Runner
	kpi       *metricsinmem.Recorder
	propose   proposal.ProposeUseCase
	respond   proposal.RespondUseCase
	intent    proposal.IntentUseCase
	breakUC   agreement.BreakUseCase
	advance   agreement.AdvanceTurnUseCase
	war       agreement.DeclareWarUseCase
	relations relations.UseCase
}

func newWorld(seed universemem.Seed, logger *slog.Logger) world {
	u := seed.Build()
	store := repomem.NewStore()
	kpi := metricsinmem.NewRecorder()
	runner := statetx.Runner{
		TxManager: repomem.NewTxManager(store),
		StateRepo: repomem.NewDiplomacyStateRepo(store),
		EventRepo: repomem.NewEventRepo(store),
		Metrics:   kpi,
		Logger:    logger,
	}
	engine := treaty.Engine{Universe: u, Treasury: u, Clock: u, Logger: logger}
	return world{
		universe:  u,
		runner:    runner,
		kpi:       kpi,
		propose:   proposal.ProposeUseCase{Runner: runner, Engine: engine, Universe: u, Clock: u},
		respond:   proposal.RespondUseCase{Runner: runner, Engine: engine, Metrics: kpi},
		intent:    proposal.IntentUseCase{Runner: runner, Clock: u},
		breakUC:   agreement.BreakUseCase{Runner: runner, Engine: engine, Clock: u, Metrics: kpi},
		advance:   agreement.AdvanceTurnUseCase{Runner: runner, Engine: engine, Clock: u, Metrics: kpi},
		war:       agreement.DeclareWarUseCase{Runner: runner, Engine: engine, Universe: u, Clock: u},
		relations: relations.UseCase{Runner: runner, Universe: u, Clock: u},
	}
}

// Run plays every step in order and stops at the first failing one.
func Run(ctx context.Context, f File, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := newWorld(f.Universe, logger)
	proposals := map[string]string{}
	agreements := map[string]string{}

	for i, step := range f.Steps {
		if err := w.play(ctx, step, proposals, agreements); err != nil {
			return Result{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return w.result(ctx)
}

func (w world) play(ctx context.Context, step Step, proposals, agreements map[string]string) error {
	switch {
	case step.Propose != nil:
		clauses := make([]diplomacy.Clause, 0, len(step.Propose.Clauses))
		for _, spec := range step.Propose.Clauses {
			c, err := spec.toClause()
			if err != nil {
				return err
			}
			clauses = append(clauses, c)
		}
		resp, err := w.propose.Execute(ctx, proposal.ProposeRequest{
			Sender:    diplomacy.CivID(step.Propose.Sender),
			Recipient: diplomacy.CivID(step.Propose.Recipient),
			Clauses:   clauses,
		})
		if err != nil {
			return fmt.Errorf("propose %s: %w", step.Propose.Ref, err)
		}
		proposals[step.Propose.Ref] = resp.Proposal.ID
	case step.Accept != "", step.Reject != "":
		ref, accept := step.Accept, true
		if ref == "" {
			ref, accept = step.Reject, false
		}
		id, ok := proposals[ref]
		if !ok {
			return fmt.Errorf("unknown proposal ref %q", ref)
		}
		responder, err := w.recipient(ctx, ref, id)
		if err != nil {
			return err
		}
		resp, err := w.respond.Execute(ctx, proposal.RespondRequest{ProposalID: id, Responder: responder, Accept: accept})
		if err != nil {
			return fmt.Errorf("answer %s: %w", ref, err)
		}
		if resp.Agreement != nil {
			agreements[ref] = resp.Agreement.ID
		}
	case step.Intend != nil:
		id, ok := proposals[step.Intend.Ref]
		if !ok {
			return fmt.Errorf("unknown proposal ref %q", step.Intend.Ref)
		}
		responder, err := w.recipient(ctx, step.Intend.Ref, id)
		if err != nil {
			return err
		}
		if _, err := w.intent.Execute(ctx, proposal.IntentRequest{
			ProposalID: id,
			Responder:  responder,
			Action:     diplomacy.PendingAction(step.Intend.Action),
		}); err != nil {
			return fmt.Errorf("intend %s: %w", step.Intend.Ref, err)
		}
	case step.Break != nil:
		id, ok := agreements[step.Break.Ref]
		if !ok {
			return fmt.Errorf("no agreement for ref %q", step.Break.Ref)
		}
		if _, err := w.breakUC.Execute(ctx, agreement.BreakRequest{AgreementID: id, RequestedBy: diplomacy.CivID(step.Break.By)}); err != nil {
			return fmt.Errorf("break %s: %w", step.Break.Ref, err)
		}
	case step.War != nil:
		if _, err := w.war.Execute(ctx, agreement.DeclareWarRequest{
			Declarer: diplomacy.CivID(step.War.Declarer),
			Target:   diplomacy.CivID(step.War.Target),
		}); err != nil {
			return fmt.Errorf("declare war: %w", err)
		}
	case step.Advance > 0:
		for range step.Advance {
			resp, err := w.advance.Execute(ctx, agreement.AdvanceTurnRequest{})
			if err != nil {
				return fmt.Errorf("advance turn: %w", err)
			}
			for _, r := range resp.Resolved {
				if r.AgreementID == "" {
					continue
				}
				for ref, id := range proposals {
					if id == r.ProposalID {
						agreements[ref] = r.AgreementID
					}
				}
			}
		}
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

func (w world) recipient(ctx context.Context, ref, id string) (diplomacy.CivID, error) {
	var out diplomacy.CivID
	err := w.runner.View(ctx, func(_ context.Context, st *diplomacy.State) error {
		p, ok := st.Pending(id)
		if !ok {
			return fmt.Errorf("proposal %s: %w", ref, diplomacy.ErrProposalNotPending)
		}
		out = p.Recipient
		return nil
	})
	return out, err
}

func (w world) result(ctx context.Context) (Result, error) {
	turn, err := w.universe.CurrentTurn(ctx)
	if err != nil {
		return Result{}, err
	}
	civs, err := w.universe.Civilizations(ctx)
	if err != nil {
		return Result{}, err
	}
	sort.Slice(civs, func(i, j int) bool { return civs[i].ID < civs[j].ID })

	out := Result{Turn: turn, KPI: w.kpi.Snapshot()}
	for _, c := range civs {
		credits, err := w.universe.Credits(ctx, c.ID)
		if err != nil {
			return Result{}, err
		}
		out.Civs = append(out.Civs, CivRow{ID: c.ID, Name: c.Name, IsEmpire: c.IsEmpire, Credits: credits})

		rel, err := w.relations.Execute(ctx, relations.Request{Civ: c.ID})
		if err != nil {
			return Result{}, err
		}
		for _, r := range rel.Relations {
			if r.Status == diplomacy.StatusNoContact {
				continue
			}
			out.Relations = append(out.Relations, RelationRow{
				Owner:        c.Name,
				Counterparty: r.Name,
				Status:       r.Status,
				Base:         r.Base,
				Agreements:   len(r.Agreements),
			})
		}
	}

	err = w.runner.View(ctx, func(ctx context.Context, st *diplomacy.State) error {
		out.Agreements = st.Matrix.All()
		events, err := w.runner.EventRepo.List(ctx, ports.EventFilter{})
		out.Events = events
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return out, nil
}
