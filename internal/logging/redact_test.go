package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAllowlistedIsCaseAndSpaceInsensitive(t *testing.T) {
	require.True(t, IsAllowlisted("service"))
	require.True(t, IsAllowlisted("  Service  "))
	require.True(t, IsAllowlisted("SEVERITY"))
	require.False(t, IsAllowlisted("user"))
	require.False(t, IsAllowlisted("account"))
}

func TestRedactionAllowlistIsSorted(t *testing.T) {
	keys := RedactionAllowlist()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		require.LessOrEqual(t, keys[i-1], keys[i])
	}
	require.Contains(t, keys, "reason")
	require.Contains(t, keys, "component")
}

func TestMaskValueLeavesEmptyUntouched(t *testing.T) {
	require.Equal(t, "", MaskValue(""))
	require.Equal(t, "   ", MaskValue("   "))
	require.Equal(t, RedactedValue, MaskValue("nhb1abc..."))
}

func TestMaskFieldRedactsNonAllowlistedKeys(t *testing.T) {
	attr := MaskField("user", "nhb1abc...")
	require.Equal(t, "user", attr.Key)
	require.Equal(t, RedactedValue, attr.Value.String())
}

func TestMaskFieldPassesThroughAllowlistedKeys(t *testing.T) {
	attr := MaskField("reason", "price crashed")
	require.Equal(t, "reason", attr.Key)
	require.Equal(t, "price crashed", attr.Value.String())
}

func TestMaskFieldPassesThroughEmptyValues(t *testing.T) {
	attr := MaskField("user", "")
	require.Equal(t, "", attr.Value.String())
}
