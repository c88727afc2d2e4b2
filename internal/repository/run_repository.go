package repository

import (
	"runpal_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RunRepository struct {
	DB *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{DB: db}
}

// Create 写入跑步记录。Strava 活动按唯一索引 insert-or-ignore：
// 重复同步返回 created=false，调用方跳过该次的奖励计算
func (r *RunRepository) Create(run *model.RunEvent) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(run)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *RunRepository) ListByUser(userID uint, page, limit int) ([]model.RunEvent, int64, error) {
	var runs []model.RunEvent
	var total int64

	query := r.DB.Model(&model.RunEvent{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("occurred_at DESC").Offset(offset).Limit(limit).Find(&runs).Error
	return runs, total, err
}
