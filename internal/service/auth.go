package service

import (
	"errors"
	"runpal_backend/internal/config"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserWriteStore 认证流程需要的用户写边界
type UserWriteStore interface {
	UserStore
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
}

type AuthService struct {
	Users      UserWriteStore
	Characters CharacterStore
	Referrals  *ReferralService
	Cfg        *config.Config
}

func NewAuthService(users UserWriteStore, characters CharacterStore, referrals *ReferralService, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:      users,
		Characters: characters,
		Referrals:  referrals,
		Cfg:        cfg,
	}
}

type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Timezone      string `json:"timezone"`
	CharacterName string `json:"characterName"`
	ReferralCode  string `json:"referralCode"`
}

// Register 注册用户并孵化一只蛋（egg 阶段角色）；
// 带推荐码时顺带建立推荐关系
func (s *AuthService) Register(req *RegisterRequest) (*model.User, error) {
	_, err := s.Users.FindByEmail(req.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tz := req.Timezone
	if _, tzErr := time.LoadLocation(tz); tz == "" || tzErr != nil {
		tz = "UTC"
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashedPassword),
		Timezone:     tz,
		ReferralCode: generateReferralCode(),
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}

	characterName := req.CharacterName
	if characterName == "" {
		characterName = "小跑"
	}
	character := &model.Character{
		UserID:  user.ID,
		Name:    characterName,
		Stage:   model.StageEgg,
		IsAlive: true,
	}
	if err := s.Characters.Create(character); err != nil {
		return nil, err
	}

	if req.ReferralCode != "" {
		// 推荐码无效不阻断注册
		if _, err := s.Referrals.Redeem(user.ID, req.ReferralCode); err != nil &&
			!errors.Is(err, util.ErrInvalidReferralCode) &&
			!errors.Is(err, util.ErrSelfReferral) {
			return nil, err
		}
	}

	return user, nil
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetUser(userID uint) (*model.User, error) {
	return s.Users.FindByID(userID)
}

// UpdateProfile 更新昵称、时区、头像，空字段保持不变
func (s *AuthService) UpdateProfile(userID uint, name, timezone, avatar string) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if name != "" {
		user.Name = name
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, errors.New("invalid timezone")
		}
		user.Timezone = timezone
	}
	if avatar != "" {
		user.Avatar = avatar
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateReferralCode 生成 8 位大写推荐码
func generateReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
