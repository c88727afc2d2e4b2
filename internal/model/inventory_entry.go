package model

// InventoryEntry 用户持有的一件物品实例，同一物品可重复持有
type InventoryEntry struct {
	BaseModel
	UserID   uint `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ItemID   uint `gorm:"index;type:bigint unsigned;not null" json:"itemId"`
	Equipped bool `gorm:"default:false" json:"equipped"`

	Item CatalogItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (InventoryEntry) TableName() string {
	return "inventory_entries"
}
