package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrNoActiveCharacter   = errors.New("no active character")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyCheckedIn    = errors.New("already checked in")
	ErrItemNotFound        = errors.New("item not found")
	ErrItemNotPurchasable  = errors.New("item not purchasable")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("cannot refer yourself")
	ErrAlreadyReferred     = errors.New("user already referred")
	ErrStravaNotConnected  = errors.New("strava account not connected")
)
