package service

import (
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
	"sort"

	"gorm.io/gorm"
)

// fakeRand 按脚本回放的随机源，测试里掉落完全可控
type fakeRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (f *fakeRand) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[f.fi%len(f.floats)]
	f.fi++
	return v
}

func (f *fakeRand) Intn(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[f.ii%len(f.ints)]
	f.ii++
	return v % n
}

// fakeLedger 内存版台账，复刻存储层的原子语义：
// 无存活角色拒绝入账，余额不足拒绝扣减
type fakeLedger struct {
	txs      []model.MedalTransaction
	balances map[uint]int
	alive    map[uint]bool
	nextID   uint
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[uint]int),
		alive:    make(map[uint]bool),
	}
}

func (f *fakeLedger) Append(m *model.MedalTransaction) error {
	if !f.alive[m.UserID] {
		return util.ErrNoActiveCharacter
	}
	if m.Amount < 0 && f.balances[m.UserID] < -m.Amount {
		return util.ErrInsufficientBalance
	}
	f.balances[m.UserID] += m.Amount
	f.nextID++
	m.ID = f.nextID
	f.txs = append(f.txs, *m)
	return nil
}

func (f *fakeLedger) CurrentBalance(userID uint) (int, error) {
	if !f.alive[userID] {
		return 0, util.ErrNoActiveCharacter
	}
	return f.balances[userID], nil
}

func (f *fakeLedger) ListByUser(userID uint, page, limit int) ([]model.MedalTransaction, int64, error) {
	var all []model.MedalTransaction
	for _, tx := range f.txs {
		if tx.UserID == userID {
			all = append(all, tx)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// sumFor 对账：流水求和必须等于余额
func (f *fakeLedger) sumFor(userID uint) int {
	sum := 0
	for _, tx := range f.txs {
		if tx.UserID == userID {
			sum += tx.Amount
		}
	}
	return sum
}

type fakeCatalog struct {
	items []model.CatalogItem
}

func (f *fakeCatalog) ItemsByRarity(rarity model.Rarity, excludeSpecial bool) ([]model.CatalogItem, error) {
	var out []model.CatalogItem
	for _, it := range f.items {
		if it.Rarity != rarity {
			continue
		}
		if excludeSpecial && it.IsSpecialReward {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeCatalog) SpecialItems() ([]model.CatalogItem, error) {
	var out []model.CatalogItem
	for _, it := range f.items {
		if it.IsSpecialReward {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ItemByID(id uint) (*model.CatalogItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) ListAll() ([]model.CatalogItem, error) {
	return f.items, nil
}

type fakeUnlocks struct {
	unlocked map[uint]map[uint]bool
}

func newFakeUnlocks() *fakeUnlocks {
	return &fakeUnlocks{unlocked: make(map[uint]map[uint]bool)}
}

func (f *fakeUnlocks) HasUnlocked(userID, itemID uint) (bool, error) {
	return f.unlocked[userID][itemID], nil
}

func (f *fakeUnlocks) RecordUnlock(userID, itemID uint) error {
	if f.unlocked[userID] == nil {
		f.unlocked[userID] = make(map[uint]bool)
	}
	f.unlocked[userID][itemID] = true
	return nil
}

func (f *fakeUnlocks) UnlockedItemIDs(userID uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(f.unlocked[userID]))
	for id := range f.unlocked[userID] {
		out[id] = true
	}
	return out, nil
}

type fakeInventory struct {
	entries   []model.InventoryEntry
	nextID    uint
	createErr error
}

func (f *fakeInventory) Create(entry *model.InventoryEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeInventory) ListByUser(userID uint) ([]model.InventoryEntry, error) {
	var out []model.InventoryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeInventory) FindByIDAndUser(id, userID uint) (*model.InventoryEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id && f.entries[i].UserID == userID {
			return &f.entries[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInventory) SetEquipped(userID, entryID uint, equipped bool) error {
	for i := range f.entries {
		if f.entries[i].UserID != userID {
			continue
		}
		if f.entries[i].ID == entryID {
			f.entries[i].Equipped = equipped
		} else if equipped {
			f.entries[i].Equipped = false
		}
	}
	return nil
}

type fakeUsers struct {
	users map[uint]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uint]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByIDs(ids []uint) (map[uint]model.User, error) {
	out := make(map[uint]model.User, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (f *fakeUsers) FindByReferralCode(code string) (*model.User, error) {
	for _, u := range f.users {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCheckins struct {
	checkins []model.CheckIn
	ledger   *fakeLedger
	nextID   uint
}

func (f *fakeCheckins) CreateWithAward(checkin *model.CheckIn) error {
	for _, c := range f.checkins {
		if c.UserID == checkin.UserID && c.CheckinDate == checkin.CheckinDate {
			return util.ErrAlreadyCheckedIn
		}
	}
	if err := f.ledger.Append(&model.MedalTransaction{
		UserID: checkin.UserID,
		Amount: checkin.MedalsAwarded,
		Source: model.SourceCheckIn,
	}); err != nil {
		return err
	}
	f.nextID++
	checkin.ID = f.nextID
	f.checkins = append(f.checkins, *checkin)
	return nil
}

func (f *fakeCheckins) FindRecent(userID uint, limit int) ([]model.CheckIn, error) {
	var out []model.CheckIn
	for _, c := range f.checkins {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckinDate > out[j].CheckinDate })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCheckins) FindByUserAndDate(userID uint, date string) (*model.CheckIn, error) {
	for i := range f.checkins {
		if f.checkins[i].UserID == userID && f.checkins[i].CheckinDate == date {
			return &f.checkins[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCharacters struct {
	characters map[uint]*model.Character
}

func newFakeCharacters(characters ...*model.Character) *fakeCharacters {
	f := &fakeCharacters{characters: make(map[uint]*model.Character)}
	for _, c := range characters {
		f.characters[c.UserID] = c
	}
	return f
}

func (f *fakeCharacters) Create(character *model.Character) error {
	f.characters[character.UserID] = character
	return nil
}

func (f *fakeCharacters) FindByUserID(userID uint) (*model.Character, error) {
	c, ok := f.characters[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCharacters) IncrementRuns(userID uint) (int, error) {
	c, ok := f.characters[userID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	c.TotalRuns++
	return c.TotalRuns, nil
}

func (f *fakeCharacters) UpdateStage(userID uint, stage model.CharacterStage) error {
	c, ok := f.characters[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Stage = stage
	return nil
}

func (f *fakeCharacters) TopByMedals(limit int) ([]model.Character, error) {
	var out []model.Character
	for _, c := range f.characters {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Medals > out[j].Medals })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeReferrals 复刻存储层语义：重复被推荐人报错，
// RecordPayout 超过封顶时静默 no-op，推荐人无存活角色时整笔失败
type fakeReferrals struct {
	referrals []*model.Referral
	ledger    *fakeLedger
	nextID    uint
}

func (f *fakeReferrals) Create(referral *model.Referral) error {
	for _, r := range f.referrals {
		if r.ReferredUserID == referral.ReferredUserID {
			return util.ErrAlreadyReferred
		}
	}
	f.nextID++
	referral.ID = f.nextID
	f.referrals = append(f.referrals, referral)
	return nil
}

func (f *fakeReferrals) FindByReferredUserID(referredUserID uint) (*model.Referral, error) {
	for _, r := range f.referrals {
		if r.ReferredUserID == referredUserID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReferrals) FindByReferrerID(referrerID uint) ([]model.Referral, error) {
	var out []model.Referral
	for _, r := range f.referrals {
		if r.ReferrerID == referrerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReferrals) RecordPayout(referral *model.Referral, amount, maxTotal int, description string) error {
	if referral.MedalsEarned+amount > maxTotal {
		return nil
	}
	if err := f.ledger.Append(&model.MedalTransaction{
		UserID:      referral.ReferrerID,
		Amount:      amount,
		Source:      model.SourceReferral,
		SourceID:    &referral.ID,
		Description: description,
	}); err != nil {
		return err
	}
	referral.MedalsEarned += amount
	return nil
}

type fakeRuns struct {
	runs   []model.RunEvent
	nextID uint
}

func (f *fakeRuns) Create(run *model.RunEvent) (bool, error) {
	if run.StravaActivityID != nil {
		for _, r := range f.runs {
			if r.StravaActivityID != nil && *r.StravaActivityID == *run.StravaActivityID {
				return false, nil
			}
		}
	}
	f.nextID++
	run.ID = f.nextID
	f.runs = append(f.runs, *run)
	return true, nil
}

func (f *fakeRuns) ListByUser(userID uint, page, limit int) ([]model.RunEvent, int64, error) {
	var out []model.RunEvent
	for _, r := range f.runs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}
