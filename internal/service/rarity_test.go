package service

import (
	"math"
	"math/rand"
	"runpal_backend/internal/model"
	"testing"
)

func TestRollBelowMinimumDistance(t *testing.T) {
	roller := NewRarityRoller(rand.New(rand.NewSource(1)))

	for _, distance := range []float64{0, 500, 999, 999.99} {
		if got := roller.Roll(distance); got != nil {
			t.Errorf("Roll(%v) = %v, want nil", distance, got)
		}
	}

	if got := roller.Roll(1000); len(got) != 1 {
		t.Errorf("Roll(1000) returned %d rarities, want exactly 1", len(got))
	}
}

func TestRarityBucketsSumTo100(t *testing.T) {
	for _, b := range rarityBuckets {
		sum := 0.0
		for _, p := range b.probs {
			sum += p
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("bucket starting at %vkm sums to %v, want 100", b.minKm, sum)
		}
	}
}

func TestRarityBucketsFavorLongerRuns(t *testing.T) {
	// rare/epic/legendary 列必须随距离单调不减
	for col := 2; col < 5; col++ {
		for i := 1; i < len(rarityBuckets); i++ {
			prev := rarityBuckets[i-1].probs[col]
			cur := rarityBuckets[i].probs[col]
			if cur < prev {
				t.Errorf("column %d decreases from %v to %v between buckets %v and %v",
					col, prev, cur, rarityBuckets[i-1].minKm, rarityBuckets[i].minKm)
			}
		}
	}
}

func TestRollDeterministicWithSeed(t *testing.T) {
	a := NewRarityRoller(rand.New(rand.NewSource(42)))
	b := NewRarityRoller(rand.New(rand.NewSource(42)))

	for i := 0; i < 50; i++ {
		distance := float64(1000 + i*700)
		if got, want := a.Roll(distance), b.Roll(distance); got[0] != want[0] {
			t.Fatalf("same seed diverged at iteration %d: %v vs %v", i, got, want)
		}
	}
}

func TestRollTierSelection(t *testing.T) {
	// 10-15 公里区间的概率为 45/30/15/8/2，按累积区间逐档验证
	tests := []struct {
		value float64
		want  model.Rarity
	}{
		{0.0, model.RarityCommon},
		{0.4499, model.RarityCommon},
		{0.45, model.RarityUncommon},
		{0.7499, model.RarityUncommon},
		{0.75, model.RarityRare},
		{0.8999, model.RarityRare},
		{0.90, model.RarityEpic},
		{0.9799, model.RarityEpic},
		{0.98, model.RarityLegendary},
		{0.9999, model.RarityLegendary},
	}

	for _, tt := range tests {
		roller := NewRarityRoller(&fakeRand{floats: []float64{tt.value}})
		got := roller.Roll(12_000)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("Roll(12km) with rand=%v = %v, want [%s]", tt.value, got, tt.want)
		}
	}
}

func TestShortRunNeverDropsEpic(t *testing.T) {
	// 1-5 公里区间 epic/legendary 概率为 0
	roller := NewRarityRoller(rand.New(rand.NewSource(7)))
	for i := 0; i < 10_000; i++ {
		got := roller.Roll(3000)
		if got[0] == model.RarityEpic || got[0] == model.RarityLegendary {
			t.Fatalf("3km run dropped %s", got[0])
		}
	}
}

func TestGuaranteedDrops(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		wantLen  int
	}{
		{"below 50km", 49_999, 0},
		{"exactly 50km", 50_000, 2},
		{"between thresholds", 99_999, 2},
		{"exactly 100km", 100_000, 5},
		{"beyond 100km", 150_000, 5},
	}

	roller := NewRarityRoller(rand.New(rand.NewSource(3)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roller.GuaranteedDrops(tt.distance)
			if len(got) != tt.wantLen {
				t.Fatalf("GuaranteedDrops(%v) returned %d drops, want %d", tt.distance, len(got), tt.wantLen)
			}
		})
	}
}

func TestGuaranteedDropsComposition(t *testing.T) {
	roller := NewRarityRoller(&fakeRand{floats: []float64{0.0, 0.6, 0.99}})

	got := roller.GuaranteedDrops(100_000)
	want := []model.Rarity{
		model.RarityEpic,      // 50km 保底
		model.RarityRare,      // 0.0 -> rare (50%)
		model.RarityLegendary, // 100km 保底
		model.RarityEpic,      // 0.6 -> epic (50-85%)
		model.RarityLegendary, // 0.99 -> legendary (85-100%)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d drops %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("drop %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestGuaranteedBonusNeverLowTier(t *testing.T) {
	roller := NewRarityRoller(rand.New(rand.NewSource(11)))
	for i := 0; i < 1000; i++ {
		for _, r := range roller.GuaranteedDrops(120_000) {
			if r == model.RarityCommon || r == model.RarityUncommon {
				t.Fatalf("guaranteed drop produced %s", r)
			}
		}
	}
}
