// Command dscengine is a demonstration/smoke-test harness, grounded on the
// teacher's cmd/nhb/main.go idiom (flag-parsed config path, config.Load,
// logging.Setup). It wires a StaticFeed oracle, InMemoryAsset collateral,
// and InMemoryToken stablecoin together and runs scenarios S1 through S6
// against a live engine.Engine, logging the resulting health factors and
// balances as structured JSON. It opens no listener: there is no
// RPC/gateway surface in scope, only an in-process engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"dscengine/address"
	"dscengine/collateral"
	"dscengine/engine"
	"dscengine/fixedpoint"
	"dscengine/freeze"
	"dscengine/internal/config"
	"dscengine/internal/logging"
	"dscengine/internal/metrics"
	"dscengine/ledger"
	"dscengine/oracle"
	"dscengine/stablecoin"
)

func main() {
	configFile := flag.String("config", "", "Path to a TOML risk-parameter file (optional; defaults are used when omitted)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("DSCENGINE_ENV"))
	logger := logging.Setup("dscengine", env)

	engineID, admin, assets, liqBps, maxDropPct, checkInterval := resolveConfig(*configFile, logger)
	_ = liqBps // documented in config, enforced by the compiled-in health package

	// The demo steps the wall clock by hand rather than sleeping in real
	// time, the same technique engine_test.go's harness uses: a shared
	// *time.Time backs both the oracle feed's staleness check and the
	// engine's freeze-interval bookkeeping, so S5's check_price_drop calls
	// see exactly the elapsed time the scenario calls for.
	now := time.Now()
	clock := &now
	clockFn := func() time.Time { return *clock }

	feed := oracle.NewStaticFeed(time.Hour, clockFn)
	for _, a := range assets {
		feed.SetPrice(a.OracleID, uint256.NewInt(2000*1e8))
	}

	dsc := stablecoin.NewInMemoryToken(engineID)
	fc, err := freeze.New(maxDropPct, checkInterval)
	if err != nil {
		logger.Error("failed to construct freeze controller", slog.Any("error", err))
		os.Exit(1)
	}

	eng := engine.New(engineID, admin, ledger.New(), fc, feed, dsc)
	eng.SetClock(clockFn)
	eng.SetLogger(logging.Component(logger, "engine"))
	eng.SetMetrics(metrics.New())

	collateralTokens := make(map[string]*collateral.InMemoryAsset, len(assets))
	for _, a := range assets {
		tok := collateral.NewInMemoryAsset(engineID)
		collateralTokens[a.AssetID] = tok
		eng.AddAsset(a.AssetID, a.OracleID, a.Symbol, tok)
	}

	runScenarios(context.Background(), logging.Component(logger, "demo"), eng, feed, collateralTokens, clock, checkInterval)
}

type assetBinding struct {
	AssetID  string
	OracleID string
	Symbol   string
}

func resolveConfig(path string, logger *slog.Logger) (engineID, admin address.ID, assets []assetBinding, liqBps uint64, maxDropPct *uint256.Int, checkInterval time.Duration) {
	if path == "" {
		logger.Info("no config file given, using built-in demo defaults")
		engineID, _ = address.Random()
		admin, _ = address.Random()
		return engineID, admin, []assetBinding{{AssetID: "ETH", OracleID: "ETH-USD", Symbol: "WETH"}},
			5000, uint256.NewInt(10), time.Hour
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err), slog.String("path", path))
		os.Exit(1)
	}
	engineID, err = address.Decode(cfg.Engine)
	if err != nil {
		logger.Error("invalid Engine address in config", slog.Any("error", err))
		os.Exit(1)
	}
	admin, err = address.Decode(cfg.Admin)
	if err != nil {
		logger.Error("invalid Admin address in config", slog.Any("error", err))
		os.Exit(1)
	}
	for _, a := range cfg.Assets {
		assets = append(assets, assetBinding{AssetID: a.AssetID, OracleID: a.OracleID, Symbol: a.Symbol})
	}
	return engineID, admin, assets, cfg.LiqThresholdBps, uint256.NewInt(cfg.MaxDropPct), cfg.CheckInterval()
}

// runScenarios exercises spec §8's S1-S6 against a single live engine,
// reusing one ETH binding across all six since they build on each other's
// state (deposit -> mint -> price crash -> liquidate -> freeze). clock is
// the same pointer backing both the engine's and the feed's time source;
// advancing it is how S5 simulates the passage of checkInterval without an
// actual sleep.
func runScenarios(ctx context.Context, logger *slog.Logger, eng *engine.Engine, feed *oracle.StaticFeed, tokens map[string]*collateral.InMemoryAsset, clock *time.Time, checkInterval time.Duration) {
	eth, ok := tokens["ETH"]
	if !ok {
		logger.Error("demo requires an ETH asset binding")
		os.Exit(1)
	}

	user, _ := address.Random()
	liquidator, _ := address.Random()
	eth.Credit(user, dec18(10))
	eth.Credit(liquidator, dec18(20))

	feed.SetPrice("ETH-USD", dec8(2000))
	logger.Info("S1: depositing 10 ETH at $2000", slog.String("user", user.String()))
	must(logger, eng.Deposit(ctx, user, "ETH", dec18(10)))
	usd, err := eng.AccountCollateralValueUSDTotal(ctx, user)
	must(logger, err)
	logger.Info("S1 result", slog.String("collateral_usd", fmt.Sprint(usd)))

	logger.Info("S2: minting 10000 DSC against 10 ETH collateral")
	must(logger, eng.Mint(ctx, user, dec18(10000)))
	snap, err := eng.AccountSnapshot(ctx, user)
	must(logger, err)
	logger.Info("S2 result", slog.String("health_factor", fmt.Sprint(snap.HealthFactor)))

	logger.Info("S3: ETH price crashes to $1800")
	feed.SetPrice("ETH-USD", dec8(1800))
	snap, err = eng.AccountSnapshot(ctx, user)
	must(logger, err)
	logger.Info("S3 result", slog.String("health_factor", fmt.Sprint(snap.HealthFactor)))

	logger.Info("S4: liquidator repays 100 DSC of the unhealthy position")
	must(logger, eng.Deposit(ctx, liquidator, "ETH", dec18(20)))
	must(logger, eng.Mint(ctx, liquidator, dec18(100)))
	must(logger, eng.Liquidate(ctx, liquidator, user, "ETH", dec18(100)))
	snap, err = eng.AccountSnapshot(ctx, user)
	must(logger, err)
	logger.Info("S4 result", slog.String("health_factor_after_liquidation", fmt.Sprint(snap.HealthFactor)))

	logger.Info("S5: a single sharp drop trips the asset-level breaker")
	// First call establishes the $1800 baseline (check_price_drop never
	// evaluates a drop on an asset's first observation); advancing the
	// clock past checkInterval before the second call is what lets that
	// second call evaluate a drop at all, instead of failing CheckTooSoon.
	_, err = eng.CheckPriceDrop(ctx, "ETH")
	must(logger, err)
	*clock = clock.Add(checkInterval + time.Minute)
	feed.SetPrice("ETH-USD", dec8(1500))
	// A tripped breaker reports itself as engine.KindPriceDropExceeded, not a
	// failed check, so it is logged rather than treated as fatal by must().
	frozen, err := eng.CheckPriceDrop(ctx, "ETH")
	var dropErr *engine.Error
	if err != nil && !(errors.As(err, &dropErr) && dropErr.Kind == engine.KindPriceDropExceeded) {
		must(logger, err)
	}
	logger.Info("S5 result", slog.Bool("asset_frozen", frozen))

	logger.Info("S6: a non-admin principal may not call unfreeze_asset")
	err = eng.UnfreezeAsset(ctx, address.ID{}, "ETH")
	logger.Info("S6 result", slog.Any("unfreeze_rejected_unauthorized", err != nil))
}

func must(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("scenario step failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func dec18(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), fixedpoint.PRECISION)
}

func dec8(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(100_000_000))
}
