package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	redisclient "github.com/bundasehat/screening-backend/internal/clients/redis"
	"github.com/bundasehat/screening-backend/internal/data/dberr"
	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/gemini"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

const lockKeyPrefix = "screening:eval:"

type EvaluatorDeps struct {
	Sessions repos.AnswerSessionRepo
	// CallLogs is optional; writes are best-effort.
	CallLogs repos.AICallLogRepo
	// Model may be nil, in which case every evaluation falls back.
	Model gemini.Client
	// Locker is optional and guards one session across instances.
	Locker  redisclient.Locker
	LockTTL time.Duration
	Now     func() time.Time
}

// Evaluation is an evaluated session together with how its result was produced.
type Evaluation struct {
	Session  *types.AnswerSession
	Result   EvaluationResult
	Outcome  Outcome
	ModelErr error
}

type Evaluator struct {
	log   *logger.Logger
	deps  EvaluatorDeps
	group singleflight.Group
}

func NewEvaluator(baseLog *logger.Logger, deps EvaluatorDeps) *Evaluator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = 5 * time.Minute
	}
	return &Evaluator{log: baseLog.With("service", "SessionEvaluator"), deps: deps}
}

// EvaluateAndSave evaluates the session and returns it reloaded with the
// written percentage, summary and submitted_at.
func (e *Evaluator) EvaluateAndSave(ctx context.Context, sessionID uuid.UUID) (*types.AnswerSession, error) {
	ev, err := e.Evaluate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ev.Session, nil
}

// Evaluate is EvaluateAndSave with the outcome attached. Concurrent calls for
// the same session inside this process share one run.
func (e *Evaluator) Evaluate(ctx context.Context, sessionID uuid.UUID) (*Evaluation, error) {
	v, err, shared := e.group.Do(sessionID.String(), func() (any, error) {
		// Once started, a run finishes even if the first caller goes away.
		return e.evaluate(context.WithoutCancel(ctx), sessionID)
	})
	if err != nil {
		return nil, err
	}
	ev := v.(*Evaluation)
	if shared {
		ev = ev.clone()
	}
	return ev, nil
}

// clone gives each coalesced caller its own Evaluation, session and answer
// slice. Nested pointers (patient, questions, options) stay shared and must
// be treated as read-only.
func (ev *Evaluation) clone() *Evaluation {
	out := *ev
	if ev.Session != nil {
		s := *ev.Session
		s.Answers = slices.Clone(ev.Session.Answers)
		out.Session = &s
	}
	return &out
}

func (e *Evaluator) evaluate(ctx context.Context, sessionID uuid.UUID) (_ *Evaluation, retErr error) {
	ctx, span := otel.Tracer("screening").Start(ctx, "screening.evaluate_session")
	span.SetAttributes(attribute.String("session.id", sessionID.String()))
	defer func() {
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, retErr.Error())
		}
		span.End()
	}()

	if e.deps.Locker != nil {
		lease, err := e.deps.Locker.Acquire(ctx, lockKeyPrefix+sessionID.String(), e.deps.LockTTL)
		switch {
		case errors.Is(err, redisclient.ErrNotAcquired):
			return nil, ErrEvaluationInProgress
		case err != nil:
			e.log.Warn("Evaluation lock unavailable; continuing without it", "session_id", sessionID, "error", err)
		default:
			defer func() {
				if rerr := lease.Release(context.Background()); rerr != nil {
					e.log.Warn("Failed to release evaluation lock", "session_id", sessionID, "error", rerr)
				}
			}()
		}
	}

	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pairs := projectPairs(session.Answers)
	var patientName *string
	if session.Patient != nil && strings.TrimSpace(session.Patient.Name) != "" {
		name := session.Patient.Name
		patientName = &name
	}
	prompt := BuildPrompt(patientName, pairs)

	result, outcome, modelErr := e.callModel(ctx, sessionID, prompt)
	span.SetAttributes(
		attribute.String("screening.outcome", string(outcome)),
		attribute.Int("screening.percentage", result.Percentage),
		attribute.Int("screening.answers", len(pairs)),
	)

	summary := Compose(result)
	submittedAt := e.deps.Now().UTC()
	if err := e.deps.Sessions.UpdateEvaluation(dbctx.Context{Ctx: ctx}, sessionID, result.Percentage, summary, submittedAt); err != nil {
		if dberr.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("save evaluation: %w", err)
	}

	updated, err := e.load(ctx, sessionID)
	if err != nil {
		// The evaluation is already stored; answer with what was written.
		e.log.Warn("Reload after evaluation failed; returning written fields", "session_id", sessionID, "error", err)
		updated = session
		updated.Percentage = &result.Percentage
		updated.Summary = &summary
		updated.SubmittedAt = &submittedAt
	}

	e.log.Info("Session evaluated",
		"session_id", sessionID,
		"outcome", outcome,
		"percentage", result.Percentage,
		"risk_level", result.RiskLevel,
	)
	return &Evaluation{Session: updated, Result: result, Outcome: outcome, ModelErr: modelErr}, nil
}

func (e *Evaluator) load(ctx context.Context, sessionID uuid.UUID) (*types.AnswerSession, error) {
	s, err := e.deps.Sessions.GetWithAnswers(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// callModel never fails: any model error is absorbed into the fallback result.
func (e *Evaluator) callModel(ctx context.Context, sessionID uuid.UUID, prompt string) (EvaluationResult, Outcome, error) {
	if e.deps.Model == nil {
		e.log.Warn("Model client not configured; using fallback", "session_id", sessionID)
		e.recordCall(ctx, sessionID, "", prompt, nil, ErrModelUnavailable, 0)
		return FallbackResult(), OutcomeFallback, ErrModelUnavailable
	}

	start := time.Now()
	resp, err := e.deps.Model.GenerateJSON(ctx, prompt)
	latency := time.Since(start)
	e.recordCall(ctx, sessionID, e.deps.Model.Model(), prompt, resp, err, latency)
	if err != nil {
		e.log.Warn("Model call failed; using fallback",
			"session_id", sessionID,
			"error_kind", gemini.KindOf(err),
			"error", err,
			"latency_ms", latency.Milliseconds(),
		)
		return FallbackResult(), OutcomeFallback, err
	}
	return Normalize(resp.Object), OutcomeModel, nil
}

func (e *Evaluator) recordCall(ctx context.Context, sessionID uuid.UUID, model, prompt string, resp *gemini.Response, callErr error, latency time.Duration) {
	if e.deps.CallLogs == nil {
		return
	}
	row := &types.AICallLog{
		SessionID: &sessionID,
		CallType:  types.CallTypeEvaluateSession,
		Model:     model,
		Prompt:    prompt,
		Success:   callErr == nil,
		LatencyMS: latency.Milliseconds(),
	}
	if resp != nil {
		row.Response = resp.RawText
		row.Attempts = resp.Attempts
		if len(resp.Usage) > 0 {
			if b, err := json.Marshal(resp.Usage); err == nil {
				row.Usage = datatypes.JSON(b)
			}
		}
	}
	if callErr != nil {
		row.Error = callErr.Error()
		row.ErrorKind = string(gemini.KindOf(callErr))
		var me *gemini.ModelError
		if errors.As(callErr, &me) {
			row.Attempts = me.Attempts
		}
	}
	if _, err := e.deps.CallLogs.Create(dbctx.Context{Ctx: ctx}, []*types.AICallLog{row}); err != nil {
		e.log.Warn("Failed to record model call", "session_id", sessionID, "error", err)
	}
}

func projectPairs(answers []types.Answer) []QAPair {
	pairs := make([]QAPair, 0, len(answers))
	for _, a := range answers {
		var p QAPair
		if a.Question != nil {
			p.Question = a.Question.Question
		}
		if a.SelectedOption != nil {
			p.Answer = a.SelectedOption.Value
		}
		pairs = append(pairs, p)
	}
	return pairs
}
