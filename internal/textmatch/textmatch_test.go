package textmatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowercases", "  Steam Sterilization  ", "steam sterilization"},
		{"collapses internal whitespace", "laser\t  ablation\nsystem", "laser ablation system"},
		{"empty stays empty", "   ", ""},
		{"compatibility forms fold", "ﬁltration", "filtration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestEqualIgnoresCaseAndSpacing(t *testing.T) {
	require.True(t, Equal("Ethylene  Oxide", "ethylene oxide"))
	require.False(t, Equal("gamma irradiation", "ethylene oxide"))
	require.True(t, Equal("", "   "))
}

func TestTokensSplitsOnPunctuation(t *testing.T) {
	got := Tokens("Single-use, sterile; catheter (6F)")
	require.Equal(t, []string{"single", "use", "sterile", "catheter", "6f"}, got)

	require.Nil(t, Tokens(""))
	require.Nil(t, Tokens("---"))
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "continuous glucose monitoring", "continuous glucose monitoring", 1.0},
		{"disjoint", "bone screw", "glucose monitor", 0.0},
		{"both empty", "", "", 1.0},
		{"one empty", "bone screw", "", 0.0},
		{"half overlap", "a b", "b c", 1.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBroader(t *testing.T) {
	// Strict superset only.
	require.True(t, Broader("pain relief and wound healing", "pain relief"))
	require.False(t, Broader("pain relief", "pain relief"))
	require.False(t, Broader("pain relief", "pain relief and wound healing"))
	require.False(t, Broader("pain relief", ""))
	require.False(t, Broader("wound care", "pain relief"))
}

func TestOverlaps(t *testing.T) {
	require.True(t, Overlaps("infusion pump", "syringe pump"))
	require.False(t, Overlaps("infusion pump", "bone screw"))
	require.False(t, Overlaps("", "bone screw"))
}
