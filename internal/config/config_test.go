package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dscengine.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validTOML = `
Admin = "dsc1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"
Engine = "dsc1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"
LiqThresholdBps = 5000
MaxDropPct = 10
CheckIntervalSecs = 3600

[[asset]]
AssetID = "ETH"
OracleID = "ETH-USD"
Symbol = "WETH"
`

func TestLoadValidConfig(t *testing.T) {
	path := writeTemp(t, validTOML)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), cfg.LiqThresholdBps)
	require.Len(t, cfg.Assets, 1)
	require.Equal(t, "ETH", cfg.Assets[0].AssetID)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTemp(t, `
Admin = "dsc1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"
Engine = "dsc1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"

[[asset]]
AssetID = "ETH"
OracleID = "ETH-USD"
Symbol = "WETH"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), cfg.LiqThresholdBps)
	require.Equal(t, uint64(10), cfg.MaxDropPct)
	require.Equal(t, uint64(3600), cfg.CheckIntervalSecs)
}

func TestValidateRejectsOutOfRangeDrop(t *testing.T) {
	cfg := &Config{
		Admin: "a", Engine: "b",
		LiqThresholdBps: 5000, MaxDropPct: 60, CheckIntervalSecs: 3600,
		Assets: []AssetBinding{{AssetID: "ETH", OracleID: "ETH-USD", Symbol: "WETH"}},
	}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrBadConfig)
}

func TestValidateRejectsMissingAssets(t *testing.T) {
	cfg := &Config{
		Admin: "a", Engine: "b",
		LiqThresholdBps: 5000, MaxDropPct: 10, CheckIntervalSecs: 3600,
	}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrBadConfig)
}
