package service

import (
	"runpal_backend/internal/model"
	"time"
)

// UnlockStore 一次性解锁台账边界；RecordUnlock 必须幂等
type UnlockStore interface {
	HasUnlocked(userID, itemID uint) (bool, error)
	RecordUnlock(userID, itemID uint) error
	UnlockedItemIDs(userID uint) (map[uint]bool, error)
}

// RunContext 特殊奖励谓词的全部输入
type RunContext struct {
	DistanceMeters float64
	LocalTime      time.Time
	Weather        WeatherConditions
}

// SpecialRewardService 评估条件触发的一次性特殊奖励
type SpecialRewardService struct {
	Catalog CatalogStore
	Unlocks UnlockStore
}

func NewSpecialRewardService(catalog CatalogStore, unlocks UnlockStore) *SpecialRewardService {
	return &SpecialRewardService{Catalog: catalog, Unlocks: unlocks}
}

// Match 对每个尚未解锁的特殊物品逐一评估谓词，返回本次命中的物品。
// 谓词按物品评估而非按条件种类：同一条件可以挂多个物品。
// 已解锁物品被跳过，所以重复命中天然是 no-op
func (s *SpecialRewardService) Match(userID uint, run RunContext) ([]model.CatalogItem, error) {
	items, err := s.Catalog.SpecialItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	unlocked, err := s.Unlocks.UnlockedItemIDs(userID)
	if err != nil {
		return nil, err
	}

	var matched []model.CatalogItem
	for _, item := range items {
		if unlocked[item.ID] {
			continue
		}
		if conditionMatches(item.SpecialCondition, run) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func conditionMatches(cond model.SpecialCondition, run RunContext) bool {
	switch cond {
	case model.ConditionHot:
		return run.Weather.IsHot
	case model.ConditionCold:
		return run.Weather.IsCold
	case model.ConditionSnow:
		return run.Weather.IsSnowing
	case model.ConditionRain:
		return run.Weather.IsRaining
	case model.ConditionEarlyBird:
		return run.LocalTime.Hour() < 6
	case model.ConditionNightOwl:
		return run.LocalTime.Hour() >= 22
	case model.ConditionValentines:
		return run.LocalTime.Month() == time.February && run.LocalTime.Day() == 14
	case model.ConditionUltraDistance:
		return run.DistanceMeters > 100_000
	default:
		return false
	}
}
