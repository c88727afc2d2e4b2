package model

type CharacterStage string

// 伙伴成长阶段，按累计跑步次数单调递进
const (
	StageEgg         CharacterStage = "egg"
	StageHatchlingV1 CharacterStage = "hatchling_v1"
	StageHatchlingV2 CharacterStage = "hatchling_v2"
	StageChild       CharacterStage = "child"
	StageAdolescent  CharacterStage = "adolescent"
	StageYoungAdult  CharacterStage = "young_adult"
	StageMature      CharacterStage = "mature"
	StageMaxed       CharacterStage = "maxed"
)

// Character 虚拟伙伴，随用户跑步成长；Medals 为勋章余额的非规范化缓存，
// 每笔勋章流水写入时同事务更新（见 repository.appendMedalTx）
type Character struct {
	BaseModel
	UserID    uint           `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Stage     CharacterStage `gorm:"size:20;default:'egg'" json:"stage"` // 由 TotalRuns 推导的缓存列
	TotalRuns int            `gorm:"default:0" json:"totalRuns"`
	Medals    int            `gorm:"default:0" json:"medals"`
	IsAlive   bool           `gorm:"default:true" json:"isAlive"`
}

func (Character) TableName() string {
	return "characters"
}
