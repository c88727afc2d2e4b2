package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runpal_backend/internal/config"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
	"runpal_backend/pkg/logger"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	stravaAuthURL     = "https://www.strava.com/oauth/authorize"
	stravaTokenURL    = "https://www.strava.com/oauth/token"
	stravaActivityURL = "https://www.strava.com/api/v3/athlete/activities"

	stravaStateTTL = 10 * time.Minute
)

// stravaActivity Strava 活动列表接口的响应条目（只取需要的字段）
type stravaActivity struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Distance    float64   `json:"distance"` // 米
	StartDate   time.Time `json:"start_date"`
	Timezone    string    `json:"timezone"` // 形如 "(GMT+08:00) Asia/Shanghai"
	StartLatLng []float64 `json:"start_latlng"`
	Map         struct {
		SummaryPolyline string `json:"summary_polyline"`
	} `json:"map"`
}

// StravaService Strava OAuth 绑定与活动同步
type StravaService struct {
	Users UserWriteStore
	Runs  *RunService
	oauth *oauth2.Config
	rdb   *redis.Client
}

func NewStravaService(users UserWriteStore, runs *RunService, cfg *config.StravaConfig, rdb *redis.Client) *StravaService {
	return &StravaService{
		Users: users,
		Runs:  runs,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"activity:read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  stravaAuthURL,
				TokenURL: stravaTokenURL,
			},
		},
		rdb: rdb,
	}
}

// AuthorizeURL 生成授权跳转地址；state 随机并在 Redis 里暂存用户 ID 防 CSRF
func (s *StravaService) AuthorizeURL(ctx context.Context, userID uint) (string, error) {
	state := uuid.New().String()
	if err := s.rdb.Set(ctx, "strava:state:"+state, userID, stravaStateTTL).Err(); err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback 用授权码换取令牌并绑定到 state 对应的用户
func (s *StravaService) HandleCallback(ctx context.Context, state, code string) (*model.User, error) {
	userIDStr, err := s.rdb.Get(ctx, "strava:state:"+state).Result()
	if err != nil {
		return nil, fmt.Errorf("invalid or expired state: %w", err)
	}
	s.rdb.Del(ctx, "strava:state:"+state)

	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	athleteID := int64(0)
	if athlete, ok := token.Extra("athlete").(map[string]interface{}); ok {
		if id, ok := athlete["id"].(float64); ok {
			athleteID = int64(id)
		}
	}

	user, err := s.Users.FindByID(uint(userID))
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	user.StravaAthleteID = athleteID
	user.StravaAccessToken = token.AccessToken
	user.StravaRefreshToken = token.RefreshToken
	user.StravaTokenExpiry = &token.Expiry
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Sync 拉取上次同步之后的新活动并走奖励管线批量结算
func (s *StravaService) Sync(ctx context.Context, userID uint) ([]*RunRewards, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.StravaAccessToken == "" {
		return nil, util.ErrStravaNotConnected
	}

	activities, err := s.fetchActivities(ctx, user)
	if err != nil {
		return nil, err
	}

	runs := make([]*model.RunEvent, 0, len(activities))
	for _, a := range activities {
		if a.Type != "Run" {
			continue
		}
		runs = append(runs, activityToRun(user.ID, a))
	}

	results, err := s.Runs.ProcessBatch(ctx, user, runs)
	if err != nil {
		return results, err
	}

	now := time.Now()
	user.LastSyncedAt = &now
	if err := s.Users.Update(user); err != nil {
		logger.Log.Warn("failed to update last synced at", zap.Uint("userId", user.ID), zap.Error(err))
	}
	return results, nil
}

// fetchActivities 带令牌自动刷新的活动拉取
func (s *StravaService) fetchActivities(ctx context.Context, user *model.User) ([]stravaActivity, error) {
	token := &oauth2.Token{
		AccessToken:  user.StravaAccessToken,
		RefreshToken: user.StravaRefreshToken,
	}
	if user.StravaTokenExpiry != nil {
		token.Expiry = *user.StravaTokenExpiry
	}

	source := s.oauth.TokenSource(ctx, token)
	fresh, err := source.Token()
	if err != nil {
		return nil, err
	}
	if fresh.AccessToken != token.AccessToken {
		user.StravaAccessToken = fresh.AccessToken
		user.StravaRefreshToken = fresh.RefreshToken
		user.StravaTokenExpiry = &fresh.Expiry
		if err := s.Users.Update(user); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	q.Set("per_page", "100")
	if user.LastSyncedAt != nil {
		q.Set("after", strconv.FormatInt(user.LastSyncedAt.Unix(), 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, stravaActivityURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, source)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("strava api returned status %d", resp.StatusCode)
	}

	var activities []stravaActivity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func activityToRun(userID uint, a stravaActivity) *model.RunEvent {
	activityID := a.ID
	run := &model.RunEvent{
		UserID:           userID,
		DistanceMeters:   a.Distance,
		OccurredAt:       a.StartDate,
		Timezone:         parseStravaTimezone(a.Timezone),
		Polyline:         a.Map.SummaryPolyline,
		StravaActivityID: &activityID,
	}
	if len(a.StartLatLng) == 2 {
		run.StartLat = a.StartLatLng[0]
		run.StartLng = a.StartLatLng[1]
	}
	return run
}

// parseStravaTimezone 从 "(GMT+08:00) Asia/Shanghai" 中取出 IANA 名称
func parseStravaTimezone(tz string) string {
	if i := strings.LastIndex(tz, ") "); i >= 0 {
		return tz[i+2:]
	}
	return tz
}
