package repository

import (
	"runpal_backend/internal/model"

	"gorm.io/gorm"
)

type CharacterRepository struct {
	DB *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{DB: db}
}

func (r *CharacterRepository) Create(character *model.Character) error {
	return r.DB.Create(character).Error
}

func (r *CharacterRepository) FindByUserID(userID uint) (*model.Character, error) {
	var character model.Character
	err := r.DB.Where("user_id = ?", userID).First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

// IncrementRuns 累计跑步次数 +1，返回更新后的总次数
func (r *CharacterRepository) IncrementRuns(userID uint) (int, error) {
	err := r.DB.Model(&model.Character{}).
		Where("user_id = ?", userID).
		Update("total_runs", gorm.Expr("total_runs + ?", 1)).Error
	if err != nil {
		return 0, err
	}

	character, err := r.FindByUserID(userID)
	if err != nil {
		return 0, err
	}
	return character.TotalRuns, nil
}

// UpdateStage 刷新阶段缓存列
func (r *CharacterRepository) UpdateStage(userID uint, stage model.CharacterStage) error {
	return r.DB.Model(&model.Character{}).
		Where("user_id = ?", userID).
		Update("stage", stage).Error
}

func (r *CharacterRepository) TopByMedals(limit int) ([]model.Character, error) {
	var characters []model.Character
	err := r.DB.Where("is_alive = ?", true).
		Order("medals DESC").Limit(limit).Find(&characters).Error
	return characters, err
}
