package repository

import (
	"runpal_backend/internal/model"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	DB *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{DB: db}
}

func (r *InventoryRepository) Create(entry *model.InventoryEntry) error {
	return r.DB.Create(entry).Error
}

func (r *InventoryRepository) ListByUser(userID uint) ([]model.InventoryEntry, error) {
	var entries []model.InventoryEntry
	err := r.DB.Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *InventoryRepository) FindByIDAndUser(id, userID uint) (*model.InventoryEntry, error) {
	var entry model.InventoryEntry
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetEquipped 装备/卸下一件物品；装备时先卸下该用户的其他物品
func (r *InventoryRepository) SetEquipped(userID, entryID uint, equipped bool) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if equipped {
			if err := tx.Model(&model.InventoryEntry{}).
				Where("user_id = ? AND equipped = ?", userID, true).
				Update("equipped", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.InventoryEntry{}).
			Where("id = ? AND user_id = ?", entryID, userID).
			Update("equipped", equipped).Error
	})
}
