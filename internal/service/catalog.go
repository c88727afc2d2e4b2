package service

import (
	"runpal_backend/internal/model"
)

// CatalogStore 目录存储边界
type CatalogStore interface {
	ItemsByRarity(rarity model.Rarity, excludeSpecial bool) ([]model.CatalogItem, error)
	SpecialItems() ([]model.CatalogItem, error)
	ItemByID(id uint) (*model.CatalogItem, error)
	ListAll() ([]model.CatalogItem, error)
}

// CatalogService 负责从目录中选取掉落物品
type CatalogService struct {
	Catalog CatalogStore
	rng     RandSource
}

func NewCatalogService(catalog CatalogStore, rng RandSource) *CatalogService {
	return &CatalogService{Catalog: catalog, rng: rng}
}

// PickItem 在指定稀有度的非特殊物品中等概率取一件。
// 该稀有度没有条目属于配置缺口：返回 (nil, nil)，调用方容忍空结果
func (s *CatalogService) PickItem(rarity model.Rarity) (*model.CatalogItem, error) {
	items, err := s.Catalog.ItemsByRarity(rarity, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	item := items[s.rng.Intn(len(items))]
	return &item, nil
}

func (s *CatalogService) ListCatalog() ([]model.CatalogItem, error) {
	return s.Catalog.ListAll()
}
