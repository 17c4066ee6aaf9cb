package classify_test

import (
	"testing"

	"github.com/dshills/shellgate/internal/classify"
)

func TestTierString(t *testing.T) {
	tests := []struct {
		tier classify.Tier
		want string
	}{
		{classify.TierTrusted, "1"},
		{classify.TierSafe, "2"},
		{classify.TierConfirm, "2.5"},
		{classify.TierCaution, "3"},
		{classify.TierForbidden, "4"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    classify.Tier
		wantErr bool
	}{
		{"1", classify.TierTrusted, false},
		{"2", classify.TierSafe, false},
		{"2.5", classify.TierConfirm, false},
		{"3", classify.TierCaution, false},
		{"4", classify.TierForbidden, false},
		{"0", 0, true},
		{"5", 0, true},
		{"safe", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := classify.ParseTier(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTier(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTier(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTierOrdering(t *testing.T) {
	// Gating logic relies on numeric comparisons across tiers.
	if !(classify.TierTrusted < classify.TierSafe &&
		classify.TierSafe < classify.TierConfirm &&
		classify.TierConfirm < classify.TierCaution &&
		classify.TierCaution < classify.TierForbidden) {
		t.Fatal("tiers are not strictly ordered")
	}
}
