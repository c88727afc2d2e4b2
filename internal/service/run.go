package service

import (
	"context"
	"errors"
	"fmt"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
	"runpal_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunStore 跑步记录存储边界；Create 对重复的 Strava 活动返回 created=false
type RunStore interface {
	Create(run *model.RunEvent) (bool, error)
	ListByUser(userID uint, page, limit int) ([]model.RunEvent, int64, error)
}

// RunRewards 单次跑步结算出的全部奖励
type RunRewards struct {
	Run             *model.RunEvent      `json:"run"`
	Items           []model.CatalogItem  `json:"items"`
	SpecialItems    []model.CatalogItem  `json:"specialItems"`
	MedalsFromDrops int                  `json:"medalsFromDrops"`
	StageReward     int                  `json:"stageReward"`
	Stage           model.CharacterStage `json:"stage"`
	TotalRuns       int                  `json:"totalRuns"`
}

// RunService 把一次“跑步已处理”事件串成完整的奖励管线：
// 常规抽取 → 保底掉落 → 特殊奖励匹配 → 物品落库 → 勋章入账 → 进阶结算
type RunService struct {
	Runs        RunStore
	Characters  CharacterStore
	Catalog     *CatalogService
	Roller      *RarityRoller
	Special     *SpecialRewardService
	Weather     *WeatherService
	Unlocks     UnlockStore
	Inventory   InventoryStore
	Medals      *MedalService
	Progression *ProgressionService
	Referral    *ReferralService
}

func NewRunService(
	runs RunStore,
	characters CharacterStore,
	catalog *CatalogService,
	roller *RarityRoller,
	special *SpecialRewardService,
	weather *WeatherService,
	unlocks UnlockStore,
	inventory InventoryStore,
	medals *MedalService,
	progression *ProgressionService,
	referral *ReferralService,
) *RunService {
	return &RunService{
		Runs:        runs,
		Characters:  characters,
		Catalog:     catalog,
		Roller:      roller,
		Special:     special,
		Weather:     weather,
		Unlocks:     unlocks,
		Inventory:   inventory,
		Medals:      medals,
		Progression: progression,
		Referral:    referral,
	}
}

// ProcessRun 结算一次跑步。重复同步的活动（唯一索引兜底）返回 nil 结果。
// 最坏情况是“这次跑步没有产生额外奖励”，任何子步骤失败都不致命
func (s *RunService) ProcessRun(ctx context.Context, user *model.User, run *model.RunEvent) (*RunRewards, error) {
	created, err := s.Runs.Create(run)
	if err != nil {
		return nil, err
	}
	if !created {
		// 已处理过的活动，直接跳过
		return nil, nil
	}

	rewards := &RunRewards{Run: run}

	// 常规抽取 + 距离阈值保底，保底是增量、不替换常规结果
	rarities := s.Roller.Roll(run.DistanceMeters)
	rarities = append(rarities, s.Roller.GuaranteedDrops(run.DistanceMeters)...)

	for _, rarity := range rarities {
		item, err := s.Catalog.PickItem(rarity)
		if err != nil {
			return nil, err
		}
		if item == nil {
			// 该稀有度目录为空，配置缺口，容忍空结果
			continue
		}
		rewards.Items = append(rewards.Items, *item)
	}

	// 特殊奖励：天气查询失败降级为全 false，不阻塞管线
	runCtx := s.buildRunContext(ctx, user, run)
	specials, err := s.Special.Match(user.ID, runCtx)
	if err != nil {
		return nil, err
	}
	rewards.SpecialItems = specials

	// 物品落库 + 按稀有度入账勋章
	for _, item := range append(rewards.Items, rewards.SpecialItems...) {
		if err := s.awardItem(user.ID, &item, run.ID); err != nil {
			return nil, err
		}
		rewards.MedalsFromDrops += item.Rarity.MedalValue()
	}

	// 进阶结算
	character, err := s.Characters.FindByUserID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 没有存活角色也允许记录跑步，只是没有进阶可言
			return rewards, nil
		}
		return nil, err
	}

	before := character.TotalRuns
	after, err := s.Characters.IncrementRuns(user.ID)
	if err != nil {
		return nil, err
	}
	stageReward, err := s.Progression.OnRunsAdded(user.ID, before, after)
	if err != nil {
		return nil, err
	}

	rewards.StageReward = stageReward
	rewards.Stage = StageForRuns(after)
	rewards.TotalRuns = after
	return rewards, nil
}

// ProcessBatch 结算一批新跑步（Strava 同步），最后统一做推荐分成。
// previousTotalRuns 以批次开始前的累计值为准
func (s *RunService) ProcessBatch(ctx context.Context, user *model.User, runs []*model.RunEvent) ([]*RunRewards, error) {
	previousTotal := 0
	if character, err := s.Characters.FindByUserID(user.ID); err == nil {
		previousTotal = character.TotalRuns
	}

	var results []*RunRewards
	newRuns := 0
	for _, run := range runs {
		rewards, err := s.ProcessRun(ctx, user, run)
		if err != nil {
			return results, err
		}
		if rewards == nil {
			continue
		}
		newRuns++
		results = append(results, rewards)
	}

	if newRuns > 0 {
		if err := s.Referral.PayoutForRuns(user.ID, previousTotal, newRuns); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (s *RunService) ListRuns(userID uint, page, limit int) ([]model.RunEvent, int64, error) {
	return s.Runs.ListByUser(userID, page, limit)
}

// buildRunContext 汇总特殊奖励谓词需要的本地时间与天气信号
func (s *RunService) buildRunContext(ctx context.Context, user *model.User, run *model.RunEvent) RunContext {
	tz := run.Timezone
	if tz == "" {
		tz = user.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil || loc == nil {
		loc = time.UTC
	}

	runCtx := RunContext{
		DistanceMeters: run.DistanceMeters,
		LocalTime:      run.OccurredAt.In(loc),
	}

	if s.Weather != nil && (run.StartLat != 0 || run.StartLng != 0) {
		cond, err := s.Weather.ConditionsAt(ctx, run.StartLat, run.StartLng, run.OccurredAt)
		if err != nil {
			// 天气服务不可用：所有天气谓词视为 false
			logger.Log.Warn("weather lookup failed, degrading to no weather conditions",
				zap.Uint("userId", user.ID), zap.Error(err))
		} else {
			runCtx.Weather = *cond
		}
	}

	return runCtx
}

// awardItem 幂等解锁 + 入库 + 按稀有度入账勋章
func (s *RunService) awardItem(userID uint, item *model.CatalogItem, runID uint) error {
	if err := s.Unlocks.RecordUnlock(userID, item.ID); err != nil {
		return err
	}
	if err := s.Inventory.Create(&model.InventoryEntry{UserID: userID, ItemID: item.ID}); err != nil {
		return err
	}

	err := s.Medals.Award(userID, item.Rarity.MedalValue(), model.SourceItemDrop, &item.ID,
		fmt.Sprintf("掉落 %s（%s）", item.Name, item.Rarity))
	if errors.Is(err, util.ErrNoActiveCharacter) {
		// 角色已死亡仍可收集物品，勋章部分按软失败忽略
		return nil
	}
	return err
}
