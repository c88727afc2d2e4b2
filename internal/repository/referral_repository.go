package repository

import (
	"errors"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	DB *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{DB: db}
}

// Create 创建推荐关系；ReferredUserID 唯一索引保证一个用户只能被推荐一次
func (r *ReferralRepository) Create(referral *model.Referral) error {
	err := r.DB.Create(referral).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrAlreadyReferred
	}
	return err
}

func (r *ReferralRepository) FindByReferredUserID(referredUserID uint) (*model.Referral, error) {
	var referral model.Referral
	err := r.DB.Where("referred_user_id = ?", referredUserID).First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepository) FindByReferrerID(referrerID uint) ([]model.Referral, error) {
	var referrals []model.Referral
	err := r.DB.Where("referrer_id = ?", referrerID).Find(&referrals).Error
	return referrals, err
}

// RecordPayout 原子地累加推荐收益并给推荐人入账勋章。
// 条件更新在存储层兜底封顶：并发批次叠加也不会让累计值越过 maxTotal；
// 推荐人角色已死亡时整个事务回滚（累计值不变），调用方按软失败处理。
func (r *ReferralRepository) RecordPayout(referral *model.Referral, amount, maxTotal int, description string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Referral{}).
			Where("id = ? AND medals_earned + ? <= ?", referral.ID, amount, maxTotal).
			Update("medals_earned", gorm.Expr("medals_earned + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已达上限，无事发生
			return nil
		}

		return appendMedalTx(tx, &model.MedalTransaction{
			UserID:      referral.ReferrerID,
			Amount:      amount,
			Source:      model.SourceReferral,
			SourceID:    &referral.ID,
			Description: description,
		})
	})
}
