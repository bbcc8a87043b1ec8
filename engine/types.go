package engine

import (
	"dscengine/collateral"
)

// SupportedAsset binds an asset identifier to its oracle and collateral
// token adapter. Fixed at construction (AddAsset); the frozen flag and
// observed-price fields are owned by the freeze.Controller, not stored
// here, so this struct only carries the immutable binding plus the
// Symbol label spec §3's [SUPPLEMENT] adds for logging/metrics.
type SupportedAsset struct {
	AssetID  string
	OracleID string
	Symbol   string
	Token    collateral.Asset
}
