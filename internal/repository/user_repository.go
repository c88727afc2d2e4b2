package repository

import (
	"runpal_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ids []uint) (map[uint]model.User, error) {
	var users []model.User
	if err := r.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByReferralCode(code string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("referral_code = ?", code).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

// UpdateStravaTokens 保存 OAuth 令牌与绑定的运动员 ID
func (r *UserRepository) UpdateStravaTokens(userID uint, athleteID int64, access, refresh string, expiry time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"strava_athlete_id":    athleteID,
			"strava_access_token":  access,
			"strava_refresh_token": refresh,
			"strava_token_expiry":  expiry,
		}).Error
}

func (r *UserRepository) UpdateLastSyncedAt(userID uint, at time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_synced_at", at).Error
}
