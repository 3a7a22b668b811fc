package calculator

import (
	"testing"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

func TestRecommend_Baseline(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.1,
		GlobalMinimum:    2,
		AllowShrink:      true,
	})

	cases := []struct {
		machineCount int
		want         int
	}{
		{0, 2},   // 无台数时只取最低备货数
		{1, 2},   // ceil(0.1) = 1 < minimum
		{20, 2},  // ceil(2.0) = 2
		{21, 3},  // ceil(2.1) = 3
		{50, 5},
	}

	for _, c := range cases {
		got, warnings := calc.Recommend("Press", "P-100", c.machineCount, 0)
		if got != c.want {
			t.Fatalf("machineCount=%d want=%d got=%d", c.machineCount, c.want, got)
		}
		if len(warnings) != 0 {
			t.Fatalf("machineCount=%d unexpected warnings %v", c.machineCount, warnings)
		}
	}
}

func TestRecommend_PartRatioOverride(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.1,
		PartRatios:       map[string]float64{"P-900": 0.5},
		GlobalMinimum:    1,
		AllowShrink:      true,
	})

	got, _ := calc.Recommend("Press", "P-900", 10, 0)
	if got != 5 {
		t.Fatalf("per-part ratio override want=5 got=%d", got)
	}
	got, _ = calc.Recommend("Press", "P-100", 10, 0)
	if got != 1 {
		t.Fatalf("global ratio want=1 got=%d", got)
	}
}

func TestRecommend_MonotonicInMachineCount(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.15,
		GlobalMinimum:    1,
		AllowShrink:      true,
		UseScaleLadder:   true,
		Ladder: []config.LadderBand{
			{MaxCount: 5, Factor: 1.0},
			{MaxCount: 10, Factor: 1.25},
			{MaxCount: 15, Factor: 1.5},
			{MaxCount: 20, Factor: 1.75},
		},
		LadderMaxFactor: 2.0,
	})

	prev := 0
	for mc := 0; mc <= 200; mc++ {
		got, _ := calc.Recommend("Press", "P-100", mc, 0)
		if got < prev {
			t.Fatalf("recommendation decreased at machineCount=%d: %d -> %d", mc, prev, got)
		}
		prev = got
	}
}

func TestRecommend_OnHandFloor(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.15,
		GlobalMinimum:    1,
	})

	got, warnings := calc.Recommend("Press", "P-100", 5, 10)
	if got != 10 {
		t.Fatalf("recommendation should be raised to the on-hand floor, got=%d", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != model.PolicyFloor {
		t.Fatalf("want one floor warning got %v", warnings)
	}
}

func TestRecommend_AllowShrink(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.15,
		GlobalMinimum:    1,
		AllowShrink:      true,
	})

	got, warnings := calc.Recommend("Press", "P-100", 5, 10)
	if got != 1 {
		t.Fatalf("allow_shrink should keep the computed value, got=%d", got)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
}

func TestRecommend_MaximumCap(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.5,
		GlobalMinimum:    1,
		MaximumCap:       10,
		AllowShrink:      true,
	})

	got, warnings := calc.Recommend("Press", "P-100", 100, 0)
	if got != 10 {
		t.Fatalf("recommendation should be capped at 10, got=%d", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != model.PolicyCeiling {
		t.Fatalf("want one ceiling warning got %v", warnings)
	}
}

func TestRecommend_ScaleLadder(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.2,
		GlobalMinimum:    1,
		AllowShrink:      true,
		UseScaleLadder:   true,
		Ladder: []config.LadderBand{
			{MaxCount: 5, Factor: 1.0},
			{MaxCount: 10, Factor: 1.25},
		},
		LadderMaxFactor: 2.0,
	})

	// 4 台：ceil(0.8)=1, 档位 1.0 -> 1
	if got, _ := calc.Recommend("Press", "P-100", 4, 0); got != 1 {
		t.Fatalf("band 1 want=1 got=%d", got)
	}
	// 8 台：ceil(1.6)=2, 档位 1.25 -> ceil(2.5)=3
	if got, _ := calc.Recommend("Press", "P-100", 8, 0); got != 3 {
		t.Fatalf("band 2 want=3 got=%d", got)
	}
	// 50 台：ceil(10)=10, 超出档位 2.0 -> 20
	if got, _ := calc.Recommend("Press", "P-100", 50, 0); got != 20 {
		t.Fatalf("max factor want=20 got=%d", got)
	}
}

func TestRecommend_CapBeatsFloor(t *testing.T) {
	t.Parallel()

	calc := New(config.PolicyConfig{
		GlobalSpareRatio: 0.1,
		GlobalMinimum:    1,
		MaximumCap:       5,
	})

	// 下限抬到 8 后仍被上限压回 5：两条告警都要保留
	got, warnings := calc.Recommend("Press", "P-100", 1, 8)
	if got != 5 {
		t.Fatalf("cap should apply after the floor, got=%d", got)
	}
	if len(warnings) != 2 {
		t.Fatalf("want floor + ceiling warnings got %v", warnings)
	}
}
