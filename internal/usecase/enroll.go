package usecase

import (
	"context"
	"log/slog"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
)

// EnrollFinger drives one enrollment session against a claimed device.
type EnrollFinger struct {
	log *slog.Logger
}

func NewEnrollFinger(log *slog.Logger) *EnrollFinger {
	return &EnrollFinger{log: orDiscard(log)}
}

// Execute claims dev, streams enroll status signals into sink and releases.
//
// Cancelling ctx is cooperative: it is observed between steps and between
// signals, never in the middle of a remote call. On cancellation a
// best-effort stop is sent and the session ends with OutcomeCancelled.
//
// Event order: EnrollStarted, zero or more EnrollProgress, an optional
// OperationError, then exactly one EnrollTerminal. A failed claim emits only
// an OperationError.
func (uc *EnrollFinger) Execute(ctx context.Context, dev ports.Device, username string, finger domain.Finger, sink ports.EventSink) domain.EnrollOutcome {
	if sink == nil {
		sink = ports.DiscardSink
	}
	log := uc.log.With("user", username, "finger", string(finger))
	sess := domain.NewEnrollSession(username, finger)

	// Remote calls are never interrupted by ctx.
	rctx := context.WithoutCancel(ctx)

	if err := dev.Claim(rctx, username); err != nil {
		log.Warn("enroll.claim.failed", "err", err)
		sink.Emit(domain.OperationError{Err: domain.AsError(err)})
		return domain.OutcomeFailed
	}
	sess.State = domain.StateClaimed
	log.Info("enroll.claimed")

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := dev.Release(rctx); err != nil {
			log.Warn("enroll.release.failed", "err", err)
		}
	}
	defer release()

	res := uc.run(ctx, rctx, dev, sess, sink, log)
	sess.State = res.outcome.State()

	release()
	sess.State = domain.StateReleased

	if res.failure != nil {
		sink.Emit(domain.OperationError{Err: res.failure})
	}

	sink.Emit(domain.EnrollTerminal{
		Outcome:        res.outcome,
		Message:        terminalMessage(res),
		StagesPassed:   sess.StagesPassed,
		RefreshFingers: res.outcome == domain.OutcomeCompleted,
	})

	log.Info("enroll.done",
		"outcome", string(res.outcome),
		"stages_passed", sess.StagesPassed,
		"cancel_requested", sess.CancelRequested,
	)
	return res.outcome
}

type enrollResult struct {
	outcome domain.EnrollOutcome
	last    domain.EnrollStatus
	failure *domain.Error
}

func (uc *EnrollFinger) run(
	ctx, rctx context.Context,
	dev ports.Device,
	sess *domain.EnrollSession,
	sink ports.EventSink,
	log *slog.Logger,
) enrollResult {
	n, err := dev.NumEnrollStages(rctx)
	if err != nil {
		log.Debug("enroll.stages.unknown", "err", err)
	} else {
		sess.StageCount = domain.StageCountFrom(n)
	}

	sink.Emit(domain.EnrollStarted{
		Username:   sess.Username,
		Finger:     sess.Finger,
		StageCount: sess.StageCount,
	})

	if ctx.Err() != nil {
		sess.CancelRequested = true
		return enrollResult{outcome: domain.OutcomeCancelled}
	}

	// Subscribe before starting so no early signal is missed.
	stream, err := dev.SubscribeEnrollStatus(rctx)
	if err != nil {
		log.Warn("enroll.subscribe.failed", "err", err)
		return enrollResult{
			outcome: domain.OutcomeFailed,
			failure: domain.AsError(err).WithContext("subscribe to enroll status"),
		}
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			log.Debug("enroll.stream.close_failed", "err", cerr)
		}
	}()

	if err := dev.EnrollStart(rctx, string(sess.Finger)); err != nil {
		log.Warn("enroll.start.failed", "err", err)
		return enrollResult{outcome: domain.OutcomeFailed, failure: domain.AsError(err)}
	}
	sess.State = domain.StateStarted

	signals := stream.Signals()
	sess.State = domain.StateStreaming

	for {
		select {
		case <-ctx.Done():
			sess.CancelRequested = true
			if err := dev.EnrollStop(rctx); err != nil {
				log.Debug("enroll.stop.failed", "err", err)
			}
			return enrollResult{outcome: domain.OutcomeCancelled}

		case sig, ok := <-signals:
			if !ok {
				log.Warn("enroll.stream.closed", "stages_passed", sess.StagesPassed)
				return enrollResult{outcome: domain.OutcomeFailed}
			}
			if sig.Err != nil {
				log.Warn("enroll.signal.malformed", "err", sig.Err)
				return enrollResult{
					outcome: domain.OutcomeFailed,
					failure: domain.Unknown("failed to parse enroll status signal"),
				}
			}

			status := domain.EnrollStatus(sig.Result)
			msg := sess.Apply(status)
			log.Debug("enroll.status", "result", sig.Result, "done", sig.Done)

			sink.Emit(domain.EnrollProgress{
				Status:       status,
				Message:      msg,
				StagesPassed: sess.StagesPassed,
				StageCount:   sess.StageCount,
				Done:         sig.Done,
			})

			if sig.Done {
				return enrollResult{outcome: domain.OutcomeForStatus(status), last: status}
			}
		}
	}
}

func terminalMessage(res enrollResult) string {
	if res.last != "" {
		return res.last.Message()
	}
	switch res.outcome {
	case domain.OutcomeCompleted:
		return domain.EnrollCompleted.Message()
	case domain.OutcomeCancelled:
		return domain.EnrollCancelled.Message()
	default:
		return domain.EnrollFailed.Message()
	}
}
