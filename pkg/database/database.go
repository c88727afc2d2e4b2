package database

import (
	"fmt"
	"log"
	"runpal_backend/internal/config"
	"runpal_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一键冲突需要被识别为 gorm.ErrDuplicatedKey（签到、推荐关系去重依赖它）
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Character{},
		&model.RunEvent{},
		&model.CatalogItem{},
		&model.UnlockRecord{},
		&model.InventoryEntry{},
		&model.MedalTransaction{},
		&model.CheckIn{},
		&model.Referral{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedCatalog(db)

	return db, nil
}

func price(v int) *int { return &v }

// seedCatalog 目录为空时写入默认掉落池与特殊奖励
func seedCatalog(db *gorm.DB) {
	var count int64
	db.Model(&model.CatalogItem{}).Count(&count)
	if count > 0 {
		return
	}

	defaultItems := []model.CatalogItem{
		// 普通掉落池，每个稀有度至少一件
		{Name: "棉质发带", Rarity: model.RarityCommon, Price: price(3)},
		{Name: "荧光鞋带", Rarity: model.RarityCommon, Price: price(3)},
		{Name: "运动水壶", Rarity: model.RarityCommon},
		{Name: "速干头巾", Rarity: model.RarityUncommon, Price: price(6)},
		{Name: "反光臂带", Rarity: model.RarityUncommon},
		{Name: "折叠墨镜", Rarity: model.RarityUncommon},
		{Name: "越野背包", Rarity: model.RarityRare, Price: price(12)},
		{Name: "碳板跑鞋", Rarity: model.RarityRare},
		{Name: "心率胸带", Rarity: model.RarityRare},
		{Name: "冠军披风", Rarity: model.RarityEpic, Price: price(25)},
		{Name: "鎏金号码布", Rarity: model.RarityEpic},
		{Name: "星辉翅膀", Rarity: model.RarityLegendary},
		{Name: "永燃火炬", Rarity: model.RarityLegendary},

		// 特殊奖励：条件满足即一次性解锁，不进掉落池
		{Name: "熔岩勋章", Rarity: model.RarityMythic, IsSpecialReward: true, SpecialCondition: model.ConditionHot},
		{Name: "极寒勋章", Rarity: model.RarityMythic, IsSpecialReward: true, SpecialCondition: model.ConditionCold},
		{Name: "初雪足迹", Rarity: model.RarityLegendary, IsSpecialReward: true, SpecialCondition: model.ConditionSnow},
		{Name: "雨中奔跑者", Rarity: model.RarityEpic, IsSpecialReward: true, SpecialCondition: model.ConditionRain},
		{Name: "破晓之翼", Rarity: model.RarityEpic, IsSpecialReward: true, SpecialCondition: model.ConditionEarlyBird},
		{Name: "夜枭之眼", Rarity: model.RarityEpic, IsSpecialReward: true, SpecialCondition: model.ConditionNightOwl},
		{Name: "心动巧克力", Rarity: model.RarityRare, IsSpecialReward: true, SpecialCondition: model.ConditionValentines},
		{Name: "百公里王冠", Rarity: model.RarityMythic, IsSpecialReward: true, SpecialCondition: model.ConditionUltraDistance},
	}

	for i := range defaultItems {
		db.Create(&defaultItems[i])
	}
	log.Printf("Seeded %d default catalog items", len(defaultItems))
}
