package service

import (
	"runpal_backend/internal/model"
	"testing"
	"time"
)

func specialItem(id uint, cond model.SpecialCondition) model.CatalogItem {
	item := model.CatalogItem{
		Name:             string(cond),
		Rarity:           model.RarityMythic,
		IsSpecialReward:  true,
		SpecialCondition: cond,
	}
	item.ID = id
	return item
}

func TestConditionMatches(t *testing.T) {
	noon := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cond model.SpecialCondition
		run  RunContext
		want bool
	}{
		{"hot match", model.ConditionHot, RunContext{LocalTime: noon, Weather: WeatherConditions{IsHot: true}}, true},
		{"hot no weather", model.ConditionHot, RunContext{LocalTime: noon}, false},
		{"cold match", model.ConditionCold, RunContext{LocalTime: noon, Weather: WeatherConditions{IsCold: true}}, true},
		{"snow match", model.ConditionSnow, RunContext{LocalTime: noon, Weather: WeatherConditions{IsSnowing: true}}, true},
		{"rain match", model.ConditionRain, RunContext{LocalTime: noon, Weather: WeatherConditions{IsRaining: true}}, true},
		{"early bird 05:59", model.ConditionEarlyBird, RunContext{LocalTime: time.Date(2026, 6, 1, 5, 59, 0, 0, time.UTC)}, true},
		{"early bird 06:00", model.ConditionEarlyBird, RunContext{LocalTime: time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)}, false},
		{"night owl 21:59", model.ConditionNightOwl, RunContext{LocalTime: time.Date(2026, 6, 1, 21, 59, 0, 0, time.UTC)}, false},
		{"night owl 22:00", model.ConditionNightOwl, RunContext{LocalTime: time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)}, true},
		{"valentines", model.ConditionValentines, RunContext{LocalTime: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}, true},
		{"not valentines", model.ConditionValentines, RunContext{LocalTime: time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)}, false},
		{"ultra at 100km", model.ConditionUltraDistance, RunContext{LocalTime: noon, DistanceMeters: 100_000}, false},
		{"ultra over 100km", model.ConditionUltraDistance, RunContext{LocalTime: noon, DistanceMeters: 100_001}, true},
		{"unknown condition", model.SpecialCondition("full_moon"), RunContext{LocalTime: noon}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conditionMatches(tt.cond, tt.run); got != tt.want {
				t.Errorf("conditionMatches(%s) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestMatchSkipsUnlockedItems(t *testing.T) {
	rainItem := specialItem(1, model.ConditionRain)
	hotItem := specialItem(2, model.ConditionHot)
	catalog := &fakeCatalog{items: []model.CatalogItem{rainItem, hotItem}}
	unlocks := newFakeUnlocks()

	svc := NewSpecialRewardService(catalog, unlocks)
	run := RunContext{
		LocalTime: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Weather:   WeatherConditions{IsRaining: true, IsHot: true},
	}

	matched, err := svc.Match(1, run)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 2 {
		t.Fatalf("first match returned %d items, want 2", len(matched))
	}

	// 解锁后同样的跑步不再命中
	for _, item := range matched {
		if err := unlocks.RecordUnlock(1, item.ID); err != nil {
			t.Fatal(err)
		}
	}
	matched, err = svc.Match(1, run)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 0 {
		t.Errorf("second match returned %d items, want 0", len(matched))
	}

	// 其他用户不受影响
	matched, err = svc.Match(2, run)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 2 {
		t.Errorf("other user match returned %d items, want 2", len(matched))
	}
}

func TestMatchSameConditionMultipleItems(t *testing.T) {
	catalog := &fakeCatalog{items: []model.CatalogItem{
		specialItem(1, model.ConditionEarlyBird),
		specialItem(2, model.ConditionEarlyBird),
	}}
	svc := NewSpecialRewardService(catalog, newFakeUnlocks())

	matched, err := svc.Match(1, RunContext{LocalTime: time.Date(2026, 6, 1, 5, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 2 {
		t.Errorf("matched %d items, want 2 (same condition, two items)", len(matched))
	}
}

// 天气降级为零值时，所有天气类条件不命中，但时间类条件照常
func TestMatchWithDegradedWeather(t *testing.T) {
	catalog := &fakeCatalog{items: []model.CatalogItem{
		specialItem(1, model.ConditionRain),
		specialItem(2, model.ConditionSnow),
		specialItem(3, model.ConditionNightOwl),
	}}
	svc := NewSpecialRewardService(catalog, newFakeUnlocks())

	matched, err := svc.Match(1, RunContext{
		LocalTime: time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC),
		// Weather 保持零值，模拟查询失败后的降级
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].ID != 3 {
		t.Errorf("matched = %v, want only night owl item", matched)
	}
}
