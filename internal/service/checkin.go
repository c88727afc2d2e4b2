package service

import (
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// CheckInStore 签到存储边界；CreateWithAward 必须把签到写入与勋章入账
// 做成一个原子单元，且对同一日历日的重复写入返回 ErrAlreadyCheckedIn
type CheckInStore interface {
	CreateWithAward(checkin *model.CheckIn) error
	FindRecent(userID uint, limit int) ([]model.CheckIn, error)
	FindByUserAndDate(userID uint, date string) (*model.CheckIn, error)
}

// UserStore 用户存储边界（签到需要用户时区）
type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByIDs(ids []uint) (map[uint]model.User, error)
	FindByReferralCode(code string) (*model.User, error)
}

const checkinDateLayout = "2006-01-02"

// 每三天一次的奖励抽取表：勋章数 -> 概率（百分比，总和 100）
var checkinBonusProbs = []struct {
	medals int
	prob   float64
}{
	{3, 40},
	{4, 25},
	{5, 15},
	{6, 10},
	{7, 6},
	{8, 3},
	{9, 0.8},
	{10, 0.2},
}

// CheckInService 基于用户本地日历日的签到与连续天数统计
type CheckInService struct {
	Checkins CheckInStore
	Users    UserStore
	rng      RandSource
}

func NewCheckInService(checkins CheckInStore, users UserStore, rng RandSource) *CheckInService {
	return &CheckInService{Checkins: checkins, Users: users, rng: rng}
}

// userLocation 解析用户时区，解析失败回退 UTC
func (s *CheckInService) userLocation(user *model.User) *time.Location {
	loc, err := time.LoadLocation(user.Timezone)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

// CanCheckIn 今天（用户本地日历日）是否还可以签到
func (s *CheckInService) CanCheckIn(userID uint, now time.Time) (bool, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return false, util.ErrUserNotFound
	}
	today := now.In(s.userLocation(user)).Format(checkinDateLayout)

	_, err = s.Checkins.FindByUserAndDate(userID, today)
	if err == gorm.ErrRecordNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Streak 计算当前连续签到天数：最近一次签到既不是今天也不是昨天则为 0，
// 否则从命中的那天起往前数无间隔的连续日历日
func (s *CheckInService) Streak(userID uint, now time.Time) (int, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return 0, util.ErrUserNotFound
	}
	loc := s.userLocation(user)

	checkins, err := s.Checkins.FindRecent(userID, 400)
	if err != nil {
		return 0, err
	}
	if len(checkins) == 0 {
		return 0, nil
	}

	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	latest := checkins[0].CheckinDate
	var cursor time.Time
	switch latest {
	case today.Format(checkinDateLayout):
		cursor = today
	case yesterday.Format(checkinDateLayout):
		cursor = yesterday
	default:
		// 连续中断
		return 0, nil
	}

	streak := 0
	for _, c := range checkins {
		if c.CheckinDate != cursor.Format(checkinDateLayout) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}

// PerformCheckIn 执行一次签到：重复签到报错；连续第 3n 天走奖励表抽取，
// 其余天固定 1 枚。签到行与勋章入账由存储层作为一个单元落库
func (s *CheckInService) PerformCheckIn(userID uint, now time.Time) (*model.CheckIn, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	loc := s.userLocation(user)
	today := now.In(loc).Format(checkinDateLayout)

	streak, err := s.Streak(userID, now)
	if err != nil {
		return nil, err
	}

	newStreakDay := streak + 1
	medals := 1
	if newStreakDay%3 == 0 {
		medals = s.rollBonus()
	}

	checkin := &model.CheckIn{
		UserID:        userID,
		CheckinDate:   today,
		MedalsAwarded: medals,
		StreakDay:     newStreakDay,
	}
	if err := s.Checkins.CreateWithAward(checkin); err != nil {
		return nil, err
	}
	return checkin, nil
}

// rollBonus 与稀有度表同款的累积概率抽取，残留概率兜底为表首的 3 枚
func (s *CheckInService) rollBonus() int {
	v := s.rng.Float64() * 100
	cumulative := 0.0
	for _, e := range checkinBonusProbs {
		cumulative += e.prob
		if v < cumulative {
			return e.medals
		}
	}
	return checkinBonusProbs[0].medals
}
