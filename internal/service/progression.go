package service

import (
	"errors"
	"fmt"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
)

// CharacterStore 角色存储边界
type CharacterStore interface {
	Create(character *model.Character) error
	FindByUserID(userID uint) (*model.Character, error)
	IncrementRuns(userID uint) (int, error)
	UpdateStage(userID uint, stage model.CharacterStage) error
	TopByMedals(limit int) ([]model.Character, error)
}

// stageThreshold 阶段与其累计跑步次数门槛；顺序即阶段顺序
type stageThreshold struct {
	stage model.CharacterStage
	runs  int
}

var stageThresholds = []stageThreshold{
	{model.StageEgg, 0},
	{model.StageHatchlingV1, 1},
	{model.StageHatchlingV2, 2},
	{model.StageChild, 3},
	{model.StageAdolescent, 7},
	{model.StageYoungAdult, 11},
	{model.StageMature, 20},
	{model.StageMaxed, 30},
}

// 进阶到某阶段时的勋章奖励，按目标阶段查表
var stageRewards = map[model.CharacterStage]int{
	model.StageHatchlingV1: 1,
	model.StageHatchlingV2: 2,
	model.StageChild:       2,
	model.StageAdolescent:  3,
	model.StageYoungAdult:  5,
	model.StageMature:      7,
	model.StageMaxed:       10,
}

// StageForRuns 累计跑步次数到阶段的纯单调阶梯函数
func StageForRuns(totalRuns int) model.CharacterStage {
	stage := stageThresholds[0].stage
	for _, t := range stageThresholds {
		if totalRuns >= t.runs {
			stage = t.stage
		}
	}
	return stage
}

// ProgressionService 阶段进阶与对应的勋章奖励
type ProgressionService struct {
	Characters CharacterStore
	Medals     *MedalService
}

func NewProgressionService(characters CharacterStore, medals *MedalService) *ProgressionService {
	return &ProgressionService{Characters: characters, Medals: medals}
}

// OnRunsAdded 在累计次数从 before 变为 after 后结算进阶奖励。
// 只比较净变化前后的两个阶段：一次批量同步跨过多个门槛时，
// 仅按目标阶段发一次奖励，不逐级补发中间阶段
func (p *ProgressionService) OnRunsAdded(userID uint, before, after int) (int, error) {
	fromStage := StageForRuns(before)
	toStage := StageForRuns(after)
	if fromStage == toStage {
		return 0, nil
	}

	if err := p.Characters.UpdateStage(userID, toStage); err != nil {
		return 0, err
	}

	reward := stageRewards[toStage]
	if reward <= 0 {
		return 0, nil
	}

	err := p.Medals.Award(userID, reward, model.SourceProgression, nil,
		fmt.Sprintf("伙伴成长到 %s 阶段", toStage))
	if errors.Is(err, util.ErrNoActiveCharacter) {
		// 角色已死亡，进阶奖励按软失败忽略
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return reward, nil
}
