package repository

import (
	"errors"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

// NewCheckinRepository 创建新的签到仓库实例
func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

// CreateWithAward 在同一事务内写入签到记录并入账勋章。
// (user_id, checkin_date) 唯一索引保证同一天重复签到（包括并发双击）
// 只有一次能成功，其余返回 ErrAlreadyCheckedIn 且不产生流水。
func (r *CheckinRepository) CreateWithAward(checkin *model.CheckIn) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(checkin).Error; err != nil {
			return err
		}
		return appendMedalTx(tx, &model.MedalTransaction{
			UserID:      checkin.UserID,
			Amount:      checkin.MedalsAwarded,
			Source:      model.SourceCheckIn,
			SourceID:    &checkin.ID,
			Description: "每日签到奖励",
		})
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrAlreadyCheckedIn
	}
	return err
}

// FindRecent 获取用户最近的签到记录，按日期倒序
func (r *CheckinRepository) FindRecent(userID uint, limit int) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	err := r.DB.Where("user_id = ?", userID).
		Order("checkin_date DESC").
		Limit(limit).
		Find(&checkins).Error
	return checkins, err
}

// FindByUserAndDate 检查用户在指定日历日是否已签到
func (r *CheckinRepository) FindByUserAndDate(userID uint, date string) (*model.CheckIn, error) {
	var checkin model.CheckIn
	err := r.DB.Where("user_id = ? AND checkin_date = ?", userID, date).First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}
