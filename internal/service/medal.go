package service

import (
	"errors"
	"fmt"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
)

// LedgerStore 勋章台账边界；Append 必须把流水写入与余额更新做成一个原子单元
type LedgerStore interface {
	Append(m *model.MedalTransaction) error
	CurrentBalance(userID uint) (int, error)
	ListByUser(userID uint, page, limit int) ([]model.MedalTransaction, int64, error)
}

// InventoryStore 库存边界
type InventoryStore interface {
	Create(entry *model.InventoryEntry) error
	ListByUser(userID uint) ([]model.InventoryEntry, error)
	FindByIDAndUser(id, userID uint) (*model.InventoryEntry, error)
	SetEquipped(userID, entryID uint, equipped bool) error
}

// MedalService 勋章经济的入账与消费
type MedalService struct {
	Ledger    LedgerStore
	Catalog   CatalogStore
	Inventory InventoryStore
}

func NewMedalService(ledger LedgerStore, catalog CatalogStore, inventory InventoryStore) *MedalService {
	return &MedalService{
		Ledger:    ledger,
		Catalog:   catalog,
		Inventory: inventory,
	}
}

// Award 给用户入账 amount（必须为正）枚勋章。
// 用户没有存活角色时返回 ErrNoActiveCharacter，属于可恢复的软失败，
// 批量调用方（推荐结算等）捕获后忽略即可，不应中断整批处理
func (s *MedalService) Award(userID uint, amount int, source model.TransactionSource, sourceID *uint, description string) error {
	if amount <= 0 {
		return fmt.Errorf("award amount must be positive, got %d", amount)
	}
	return s.Ledger.Append(&model.MedalTransaction{
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
	})
}

// Spend 扣减勋章；余额不足返回 ErrInsufficientBalance，状态不变
func (s *MedalService) Spend(userID uint, amount int, sourceID *uint, description string) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount must be positive, got %d", amount)
	}
	return s.Ledger.Append(&model.MedalTransaction{
		UserID:      userID,
		Amount:      -amount,
		Source:      model.SourcePurchase,
		SourceID:    sourceID,
		Description: description,
	})
}

func (s *MedalService) Balance(userID uint) (int, error) {
	return s.Ledger.CurrentBalance(userID)
}

func (s *MedalService) Transactions(userID uint, page, limit int) ([]model.MedalTransaction, int64, error) {
	return s.Ledger.ListByUser(userID, page, limit)
}

func (s *MedalService) ListInventory(userID uint) ([]model.InventoryEntry, error) {
	return s.Inventory.ListByUser(userID)
}

// Equip 穿戴/卸下库存条目；条目必须属于该用户
func (s *MedalService) Equip(userID, entryID uint, equipped bool) (*model.InventoryEntry, error) {
	if _, err := s.Inventory.FindByIDAndUser(entryID, userID); err != nil {
		return nil, util.ErrItemNotFound
	}
	if err := s.Inventory.SetEquipped(userID, entryID, equipped); err != nil {
		return nil, err
	}
	return s.Inventory.FindByIDAndUser(entryID, userID)
}

// Purchase 用勋章购买目录物品并放入库存
func (s *MedalService) Purchase(userID, itemID uint) (*model.InventoryEntry, error) {
	item, err := s.Catalog.ItemByID(itemID)
	if err != nil {
		return nil, util.ErrItemNotFound
	}
	if item.Price == nil || *item.Price <= 0 {
		return nil, util.ErrItemNotPurchasable
	}

	if err := s.Spend(userID, *item.Price, &item.ID, fmt.Sprintf("购买 %s", item.Name)); err != nil {
		return nil, err
	}

	entry := &model.InventoryEntry{UserID: userID, ItemID: item.ID}
	if err := s.Inventory.Create(entry); err != nil {
		// 扣款成功但入库失败：补偿回滚扣款
		if rbErr := s.Award(userID, *item.Price, model.SourcePurchase, &item.ID, "购买失败退款"); rbErr != nil && !errors.Is(rbErr, util.ErrNoActiveCharacter) {
			return nil, rbErr
		}
		return nil, err
	}
	return entry, nil
}
