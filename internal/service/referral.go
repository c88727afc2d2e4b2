package service

import (
	"errors"
	"fmt"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"

	"gorm.io/gorm"
)

// ReferralStore 推荐关系存储边界；Create 对重复的被推荐用户返回
// ErrAlreadyReferred，RecordPayout 原子地累加收益并给推荐人入账
type ReferralStore interface {
	Create(referral *model.Referral) error
	FindByReferredUserID(referredUserID uint) (*model.Referral, error)
	FindByReferrerID(referrerID uint) ([]model.Referral, error)
	RecordPayout(referral *model.Referral, amount, maxTotal int, description string) error
}

// 推荐奖励默认参数（可被配置覆盖）
const (
	defaultWelcomeBonus  = 5  // 被推荐人注册即得
	defaultSignupBonus   = 5  // 推荐人在对方注册时得
	defaultFirstRunBonus = 5  // 被推荐人首跑额外奖励
	defaultPerRunBonus   = 1  // 被推荐人之后每跑一次
	defaultMaxTotal      = 25 // 单个推荐关系的累计上限
)

// ReferralService 推荐关系与封顶的持续分成
type ReferralService struct {
	Referrals ReferralStore
	Users     UserStore
	Medals    *MedalService

	WelcomeBonus  int
	SignupBonus   int
	FirstRunBonus int
	PerRunBonus   int
	MaxTotal      int
}

func NewReferralService(referrals ReferralStore, users UserStore, medals *MedalService) *ReferralService {
	return &ReferralService{
		Referrals:     referrals,
		Users:         users,
		Medals:        medals,
		WelcomeBonus:  defaultWelcomeBonus,
		SignupBonus:   defaultSignupBonus,
		FirstRunBonus: defaultFirstRunBonus,
		PerRunBonus:   defaultPerRunBonus,
		MaxTotal:      defaultMaxTotal,
	}
}

// Redeem 被推荐用户兑换推荐码。自荐与重复兑换被拒绝；
// 给推荐人的注册奖励是尽力而为：推荐人角色已死亡不影响关系创建
func (s *ReferralService) Redeem(referredUserID uint, code string) (*model.Referral, error) {
	referrer, err := s.Users.FindByReferralCode(code)
	if err != nil {
		return nil, util.ErrInvalidReferralCode
	}
	if referrer.ID == referredUserID {
		return nil, util.ErrSelfReferral
	}

	referral := &model.Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: referredUserID,
	}
	if err := s.Referrals.Create(referral); err != nil {
		return nil, err
	}

	if err := s.Medals.Award(referredUserID, s.WelcomeBonus, model.SourceReferral, &referral.ID, "推荐注册欢迎奖励"); err != nil {
		return nil, err
	}
	err = s.Medals.Award(referrer.ID, s.SignupBonus, model.SourceReferral, &referral.ID, "成功推荐新用户")
	if err != nil && !errors.Is(err, util.ErrNoActiveCharacter) {
		return nil, err
	}

	return referral, nil
}

// PayoutForRuns 被推荐用户新同步了一批跑步后给推荐人结算分成：
//
//	payout = 首跑奖励（若此前累计为 0）+ 每跑奖励 × 其余新增次数
//
// 结果被钳制到 MaxTotal - 已得；≤ 0 时无事发生。
// 累计值更新与勋章入账由存储层原子完成
func (s *ReferralService) PayoutForRuns(referredUserID uint, previousTotalRuns, newRuns int) error {
	if newRuns <= 0 {
		return nil
	}

	referral, err := s.Referrals.FindByReferredUserID(referredUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	payout := 0
	remaining := newRuns
	if previousTotalRuns == 0 {
		payout += s.FirstRunBonus
		remaining--
	}
	payout += s.PerRunBonus * remaining

	if room := s.MaxTotal - referral.MedalsEarned; payout > room {
		payout = room
	}
	if payout <= 0 {
		return nil
	}

	err = s.Referrals.RecordPayout(referral, payout, s.MaxTotal,
		fmt.Sprintf("推荐分成：好友新增 %d 次跑步", newRuns))
	if errors.Is(err, util.ErrNoActiveCharacter) {
		// 推荐人角色已死亡：整笔结算回滚，按软失败忽略
		return nil
	}
	return err
}

// Status 返回用户作为被推荐人的关系（可能为 nil）与作为推荐人的全部关系
func (s *ReferralService) Status(userID uint) (*model.Referral, []model.Referral, error) {
	var referredBy *model.Referral
	r, err := s.Referrals.FindByReferredUserID(userID)
	if err == nil {
		referredBy = r
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	referred, err := s.Referrals.FindByReferrerID(userID)
	if err != nil {
		return nil, nil, err
	}
	return referredBy, referred, nil
}
