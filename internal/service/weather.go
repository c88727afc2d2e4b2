package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runpal_backend/internal/config"
	"time"

	"github.com/go-redis/redis/v8"
)

// WeatherConditions 跑步时的天气信号，全部为布尔谓词
type WeatherConditions struct {
	IsHot     bool `json:"isHot"`     // 气温 > 100°F
	IsCold    bool `json:"isCold"`    // 气温 < 10°F
	IsSnowing bool `json:"isSnowing"`
	IsRaining bool `json:"isRaining"`
}

// WeatherService 查询跑步起点的天气。这是奖励管线里唯一的网络调用，
// 超时或失败一律降级为“无特殊天气”，绝不阻塞跑步处理
type WeatherService struct {
	cfg    *config.WeatherConfig
	client *http.Client
	rdb    *redis.Client
}

func NewWeatherService(cfg *config.WeatherConfig, rdb *redis.Client) *WeatherService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &WeatherService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		rdb:    rdb,
	}
}

// open-meteo 风格的当前天气响应
type weatherAPIResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"` // 摄氏
		Weathercode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// ConditionsAt 查询坐标在指定时刻附近的天气；同一坐标小时级结果走 Redis 缓存
func (s *WeatherService) ConditionsAt(ctx context.Context, lat, lng float64, when time.Time) (*WeatherConditions, error) {
	key := fmt.Sprintf("weather:%.2f:%.2f:%s", lat, lng, when.UTC().Format("2006010215"))

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var cond WeatherConditions
			if jsonErr := json.Unmarshal([]byte(cached), &cond); jsonErr == nil {
				return &cond, nil
			}
		}
	}

	base := s.cfg.BaseURL
	if base == "" {
		base = "https://api.open-meteo.com/v1/forecast"
	}
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lng))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var body weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	cond := conditionsFromResponse(&body)

	if s.rdb != nil {
		ttl := time.Duration(s.cfg.CacheMinutes) * time.Minute
		if ttl <= 0 {
			ttl = 30 * time.Minute
		}
		if data, err := json.Marshal(cond); err == nil {
			s.rdb.Set(ctx, key, data, ttl)
		}
	}

	return cond, nil
}

func conditionsFromResponse(body *weatherAPIResponse) *WeatherConditions {
	tempF := body.CurrentWeather.Temperature*9/5 + 32
	code := body.CurrentWeather.Weathercode

	return &WeatherConditions{
		IsHot:  tempF > 100,
		IsCold: tempF < 10,
		// WMO weather code：51-67 为雨，71-77/85-86 为雪
		IsRaining: (code >= 51 && code <= 67) || (code >= 80 && code <= 82) || code == 95,
		IsSnowing: (code >= 71 && code <= 77) || code == 85 || code == 86,
	}
}
