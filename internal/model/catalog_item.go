package model

type Rarity string

// 稀有度等级，按价值从低到高排序
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// AllRarities 返回全部稀有度，从低到高
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic}
}

// MedalValue 返回该稀有度掉落时入账的勋章数
func (r Rarity) MedalValue() int {
	switch r {
	case RarityUncommon:
		return 2
	case RarityRare:
		return 3
	case RarityEpic:
		return 5
	case RarityLegendary:
		return 8
	case RarityMythic:
		return 12
	default:
		return 1
	}
}

// 特殊奖励的解锁条件码
type SpecialCondition string

const (
	ConditionHot           SpecialCondition = "hot"            // 气温 > 100°F
	ConditionCold          SpecialCondition = "cold"           // 气温 < 10°F
	ConditionSnow          SpecialCondition = "snow"           // 降雪中跑步
	ConditionRain          SpecialCondition = "rain"           // 降雨中跑步
	ConditionEarlyBird     SpecialCondition = "early_bird"     // 本地时间 06:00 前
	ConditionNightOwl      SpecialCondition = "night_owl"      // 本地时间 22:00 起
	ConditionValentines    SpecialCondition = "valentines"     // 2 月 14 日
	ConditionUltraDistance SpecialCondition = "ultra_distance" // 单次超过 100 公里
)

// CatalogItem 物品目录条目，只读参照数据
// swagger:model CatalogItem
type CatalogItem struct {
	BaseModel
	Name             string           `gorm:"size:100;not null" json:"name"`
	Rarity           Rarity           `gorm:"size:20;index;not null" json:"rarity"`
	IsSpecialReward  bool             `gorm:"default:false;index" json:"isSpecialReward"`
	SpecialCondition SpecialCondition `gorm:"size:30" json:"specialCondition,omitempty"`
	// 商店售价（勋章），为空表示不可购买
	Price    *int   `json:"price,omitempty"`
	ImageRef string `gorm:"size:255" json:"imageRef"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
