package service

import (
	"math/rand"
	"runpal_backend/internal/model"
	"sync"
)

// RandSource 可注入的随机源，*math/rand.Rand 天然满足；
// 测试里用固定种子即可让掉落完全确定
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// lockedRand 给 *rand.Rand 加锁，多个请求并发抽取时共享一个源
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

// NewLockedRand 返回可并发使用的随机源
func NewLockedRand(seed int64) RandSource {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

// rarityBucket 距离区间（公里，左闭右开）对应的五档概率，总和恒为 100
type rarityBucket struct {
	minKm float64
	probs [5]float64 // common, uncommon, rare, epic, legendary
}

// 距离越长的区间对高稀有度越慷慨（rare/epic/legendary 列单调不减）
var rarityBuckets = []rarityBucket{
	{minKm: 1, probs: [5]float64{75, 20, 5, 0, 0}},
	{minKm: 5, probs: [5]float64{60, 25, 10, 4, 1}},
	{minKm: 10, probs: [5]float64{45, 30, 15, 8, 2}},
	{minKm: 15, probs: [5]float64{35, 30, 20, 11, 4}},
	{minKm: 20, probs: [5]float64{25, 30, 25, 14, 6}},
	{minKm: 30, probs: [5]float64{15, 30, 28, 18, 9}},
	{minKm: 40, probs: [5]float64{8, 27, 30, 22, 13}},
}

var rollableRarities = [5]model.Rarity{
	model.RarityCommon,
	model.RarityUncommon,
	model.RarityRare,
	model.RarityEpic,
	model.RarityLegendary,
}

// 超长距离保底掉落的受限三档表
var bonusProbs = []struct {
	rarity model.Rarity
	prob   float64
}{
	{model.RarityRare, 50},
	{model.RarityEpic, 35},
	{model.RarityLegendary, 15},
}

const (
	minRollDistanceM     = 1000.0
	guaranteedEpicM      = 50_000.0
	guaranteedLegendaryM = 100_000.0
)

// RarityRoller 按距离加权抽取稀有度，并解析超长跑的保底掉落
type RarityRoller struct {
	rng RandSource
}

func NewRarityRoller(rng RandSource) *RarityRoller {
	return &RarityRoller{rng: rng}
}

// Roll 对一次跑步做常规抽取：不足 1000 米不抽（返回空，不是错误），
// 否则按距离区间抽恰好一档
func (r *RarityRoller) Roll(distanceMeters float64) []model.Rarity {
	if distanceMeters < minRollDistanceM {
		return nil
	}

	bucket := rarityBuckets[0]
	km := distanceMeters / 1000
	for _, b := range rarityBuckets {
		if km >= b.minKm {
			bucket = b
		}
	}

	return []model.Rarity{r.drawTier(bucket.probs)}
}

// drawTier 累积概率抽取：[0,100) 均匀值落在哪个累计区间取哪档，
// 舍入残留的概率质量兜底为 common
func (r *RarityRoller) drawTier(probs [5]float64) model.Rarity {
	v := r.rng.Float64() * 100
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if v < cumulative {
			return rollableRarities[i]
		}
	}
	return model.RarityCommon
}

// GuaranteedDrops 解析距离阈值保底：
//   - ≥ 50 公里：一个保底 epic + 一次受限三档抽取
//   - ≥ 100 公里：再叠加一个保底 legendary + 两次受限抽取（50 公里的保底不被替换）
//
// 结果是常规抽取之外的增量，永远不替换 Roll 的输出
func (r *RarityRoller) GuaranteedDrops(distanceMeters float64) []model.Rarity {
	var drops []model.Rarity

	if distanceMeters >= guaranteedEpicM {
		drops = append(drops, model.RarityEpic, r.drawBonus())
	}
	if distanceMeters >= guaranteedLegendaryM {
		drops = append(drops, model.RarityLegendary, r.drawBonus(), r.drawBonus())
	}

	return drops
}

func (r *RarityRoller) drawBonus() model.Rarity {
	v := r.rng.Float64() * 100
	cumulative := 0.0
	for _, e := range bonusProbs {
		cumulative += e.prob
		if v < cumulative {
			return e.rarity
		}
	}
	return bonusProbs[0].rarity
}
