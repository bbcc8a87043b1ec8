package engine

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"dscengine/address"
	"dscengine/internal/logging"
)

// Event is the advisory event envelope spec §6 describes: ordered after the
// corresponding ledger mutation, never consulted by an invariant. Every
// event carries a google/uuid correlation ID, following the pack's common
// idiom (the teacher uses google/uuid module-wide) of giving an advisory
// record a stable ID independent of any block/sequence number, since this
// engine has no block height of its own.
type Event struct {
	ID   uuid.UUID
	Name string
	Attrs []slog.Attr
}

func newEvent(name string, attrs ...slog.Attr) Event {
	return Event{ID: uuid.New(), Name: name, Attrs: attrs}
}

// StructuredLogger is the narrow logging dependency the engine consumes,
// satisfied directly by *slog.Logger (as returned by internal/logging.Setup)
// so the engine never imports log/slog's handler configuration itself.
type StructuredLogger interface {
	Info(msg string, args ...any)
}

// MetricsSink is the narrow metrics dependency the engine observes after a
// mutation succeeds or the FreezeController's state changes, satisfied
// directly by *internal/metrics.Registry. Keeping this interface here (and
// narrow) lets the engine stay free of a direct Prometheus import, the same
// reasoning behind StructuredLogger.
type MetricsSink interface {
	ObserveHealthFactor(account string, hf *uint256.Int)
	ObserveFreezeState(frozenCount int, systemFrozen bool)
	IncLiquidation()
	IncDeposit(assetID string)
	IncMint()
}

// emit logs the event as a structured record and, if the caller wired a
// Sink, forwards it. Logging never blocks an operation's success: a nil
// logger is tolerated.
func (e *Engine) emit(ev Event) {
	if e.logger != nil {
		args := make([]any, 0, len(ev.Attrs)*2+4)
		args = append(args, slog.String("event", ev.Name), slog.String("event_id", ev.ID.String()))
		for _, a := range ev.Attrs {
			args = append(args, a)
		}
		e.logger.Info("debt engine event", args...)
	}
	if e.sink != nil {
		e.sink.Publish(ev)
	}
}

// Sink receives advisory events. Supplying one is optional; the engine
// functions identically with or without a sink since invariants never
// depend on events being observed.
type Sink interface {
	Publish(Event)
}

func collateralDeposited(user address.ID, assetID string, amount *uint256.Int) Event {
	return newEvent("CollateralDeposited",
		logging.MaskField("user", user.String()),
		slog.String("asset", assetID),
		slog.String("amount", amount.String()),
	)
}

func collateralRedeemed(from, to address.ID, assetID string, amount *uint256.Int) Event {
	return newEvent("CollateralRedeemed",
		logging.MaskField("from", from.String()),
		logging.MaskField("to", to.String()),
		slog.String("asset", assetID),
		slog.String("amount", amount.String()),
	)
}

func assetFrozenEvent(assetID string, lastPrice, currentPrice, dropPct *uint256.Int) Event {
	return newEvent("AssetFrozen",
		slog.String("asset", assetID),
		slog.String("last_price", lastPrice.String()),
		slog.String("current_price", currentPrice.String()),
		slog.String("drop_pct", dropPct.String()),
	)
}

func systemFrozenEvent(frozenCount int) Event {
	return newEvent("SystemFrozen", slog.Int("frozen_count", frozenCount))
}

func systemUnfrozenEvent() Event {
	return newEvent("SystemUnfrozen")
}
