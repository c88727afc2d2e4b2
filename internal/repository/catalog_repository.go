package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"runpal_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 目录为只读参照数据，按稀有度的查询结果在 Redis 里短缓存
const catalogCacheTTL = 5 * time.Minute

type CatalogRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewCatalogRepository(db *gorm.DB, rdb *redis.Client) *CatalogRepository {
	return &CatalogRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// ItemsByRarity 获取某一稀有度的目录条目；excludeSpecial 为 true 时
// 过滤掉特殊奖励（随机掉落池不含特殊物品）
func (r *CatalogRepository) ItemsByRarity(rarity model.Rarity, excludeSpecial bool) ([]model.CatalogItem, error) {
	key := fmt.Sprintf("catalog:rarity:%s:%t", rarity, excludeSpecial)

	if r.Redis != nil {
		cached, err := r.Redis.Get(r.ctx, key).Result()
		if err == nil {
			var items []model.CatalogItem
			if jsonErr := json.Unmarshal([]byte(cached), &items); jsonErr == nil {
				return items, nil
			}
		}
	}

	var items []model.CatalogItem
	query := r.DB.Where("rarity = ?", rarity)
	if excludeSpecial {
		query = query.Where("is_special_reward = ?", false)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(items); err == nil {
			r.Redis.Set(r.ctx, key, data, catalogCacheTTL)
		}
	}
	return items, nil
}

func (r *CatalogRepository) SpecialItems() ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	err := r.DB.Where("is_special_reward = ?", true).Find(&items).Error
	return items, err
}

func (r *CatalogRepository) ItemByID(id uint) (*model.CatalogItem, error) {
	var item model.CatalogItem
	err := r.DB.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CatalogRepository) ListAll() ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	err := r.DB.Order("rarity, name").Find(&items).Error
	return items, err
}
