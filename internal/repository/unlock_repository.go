package repository

import (
	"runpal_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnlockRepository struct {
	DB *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) *UnlockRepository {
	return &UnlockRepository{DB: db}
}

func (r *UnlockRepository) HasUnlocked(userID, itemID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UnlockRecord{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

// RecordUnlock 幂等写入解锁记录：唯一索引 + insert-or-ignore，
// 并发重复调用也只会留下一行，重复调用不报错
func (r *UnlockRepository) RecordUnlock(userID, itemID uint) error {
	record := &model.UnlockRecord{UserID: userID, ItemID: itemID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

// UnlockedItemIDs 返回用户已解锁的物品 ID 集合
func (r *UnlockRepository) UnlockedItemIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UnlockRecord{}).
		Where("user_id = ?", userID).
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
