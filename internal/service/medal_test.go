package service

import (
	"errors"
	"math/rand"
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"
	"testing"
)

func newMedalServiceForTest(ledger *fakeLedger, catalog *fakeCatalog, inventory *fakeInventory) *MedalService {
	if catalog == nil {
		catalog = &fakeCatalog{}
	}
	if inventory == nil {
		inventory = &fakeInventory{}
	}
	return NewMedalService(ledger, catalog, inventory)
}

func TestAwardAndBalance(t *testing.T) {
	ledger := newFakeLedger()
	ledger.alive[1] = true
	svc := newMedalServiceForTest(ledger, nil, nil)

	if err := svc.Award(1, 5, model.SourceCheckIn, nil, "签到"); err != nil {
		t.Fatalf("Award() error: %v", err)
	}
	if err := svc.Award(1, 3, model.SourceItemDrop, nil, "掉落"); err != nil {
		t.Fatalf("Award() error: %v", err)
	}

	balance, err := svc.Balance(1)
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	if balance != 8 {
		t.Errorf("balance = %d, want 8", balance)
	}
}

func TestAwardRejectsNonPositiveAmount(t *testing.T) {
	ledger := newFakeLedger()
	ledger.alive[1] = true
	svc := newMedalServiceForTest(ledger, nil, nil)

	for _, amount := range []int{0, -1, -100} {
		if err := svc.Award(1, amount, model.SourceCheckIn, nil, ""); err == nil {
			t.Errorf("Award(%d) succeeded, want error", amount)
		}
	}
}

func TestSpendInsufficientBalance(t *testing.T) {
	ledger := newFakeLedger()
	ledger.alive[1] = true
	svc := newMedalServiceForTest(ledger, nil, nil)

	if err := svc.Award(1, 5, model.SourceCheckIn, nil, ""); err != nil {
		t.Fatal(err)
	}

	err := svc.Spend(1, 6, nil, "")
	if !errors.Is(err, util.ErrInsufficientBalance) {
		t.Fatalf("Spend() error = %v, want ErrInsufficientBalance", err)
	}

	// 失败的扣减不留痕迹
	balance, _ := svc.Balance(1)
	if balance != 5 {
		t.Errorf("balance after rejected spend = %d, want 5", balance)
	}
	if len(ledger.txs) != 1 {
		t.Errorf("ledger has %d transactions, want 1", len(ledger.txs))
	}
}

func TestAwardWithoutCharacter(t *testing.T) {
	ledger := newFakeLedger()
	svc := newMedalServiceForTest(ledger, nil, nil)

	err := svc.Award(42, 5, model.SourceCheckIn, nil, "")
	if !errors.Is(err, util.ErrNoActiveCharacter) {
		t.Fatalf("Award() error = %v, want ErrNoActiveCharacter", err)
	}
}

// 随机入账/扣减若干轮后，余额必须始终等于流水之和且不为负
func TestLedgerBalanceInvariant(t *testing.T) {
	ledger := newFakeLedger()
	ledger.alive[1] = true
	svc := newMedalServiceForTest(ledger, nil, nil)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 500; i++ {
		amount := rng.Intn(10) + 1
		if rng.Intn(2) == 0 {
			if err := svc.Award(1, amount, model.SourceItemDrop, nil, ""); err != nil {
				t.Fatalf("Award() error: %v", err)
			}
		} else {
			err := svc.Spend(1, amount, nil, "")
			if err != nil && !errors.Is(err, util.ErrInsufficientBalance) {
				t.Fatalf("Spend() error: %v", err)
			}
		}

		balance, err := svc.Balance(1)
		if err != nil {
			t.Fatal(err)
		}
		if balance < 0 {
			t.Fatalf("balance went negative: %d", balance)
		}
		if sum := ledger.sumFor(1); balance != sum {
			t.Fatalf("balance %d != transaction sum %d", balance, sum)
		}
	}
}

func TestPurchase(t *testing.T) {
	ledger := newFakeLedger()
	ledger.alive[1] = true

	cheap := 3
	item := model.CatalogItem{Name: "荧光鞋带", Rarity: model.RarityCommon, Price: &cheap}
	item.ID = 10
	free := model.CatalogItem{Name: "星辉翅膀", Rarity: model.RarityLegendary}
	free.ID = 11

	catalog := &fakeCatalog{items: []model.CatalogItem{item, free}}
	inventory := &fakeInventory{}
	svc := newMedalServiceForTest(ledger, catalog, inventory)

	if err := svc.Award(1, 5, model.SourceCheckIn, nil, ""); err != nil {
		t.Fatal(err)
	}

	entry, err := svc.Purchase(1, 10)
	if err != nil {
		t.Fatalf("Purchase() error: %v", err)
	}
	if entry.ItemID != 10 {
		t.Errorf("entry.ItemID = %d, want 10", entry.ItemID)
	}

	balance, _ := svc.Balance(1)
	if balance != 2 {
		t.Errorf("balance after purchase = %d, want 2", balance)
	}

	// 无价格的物品不可购买
	if _, err := svc.Purchase(1, 11); !errors.Is(err, util.ErrItemNotPurchasable) {
		t.Errorf("Purchase(free item) error = %v, want ErrItemNotPurchasable", err)
	}

	// 不存在的物品
	if _, err := svc.Purchase(1, 999); !errors.Is(err, util.ErrItemNotFound) {
		t.Errorf("Purchase(missing item) error = %v, want ErrItemNotFound", err)
	}

	// 余额不足
	if _, err := svc.Purchase(1, 10); !errors.Is(err, util.ErrInsufficientBalance) {
		t.Errorf("Purchase with 2 medals error = %v, want ErrInsufficientBalance", err)
	}
}

func TestPurchaseRefundsOnInventoryFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.alive[1] = true

	price := 4
	item := model.CatalogItem{Name: "越野背包", Rarity: model.RarityRare, Price: &price}
	item.ID = 20

	catalog := &fakeCatalog{items: []model.CatalogItem{item}}
	inventory := &fakeInventory{createErr: errors.New("disk full")}
	svc := newMedalServiceForTest(ledger, catalog, inventory)

	if err := svc.Award(1, 10, model.SourceCheckIn, nil, ""); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Purchase(1, 20); err == nil {
		t.Fatal("Purchase() succeeded despite inventory failure")
	}

	// 扣款被补偿回滚
	balance, _ := svc.Balance(1)
	if balance != 10 {
		t.Errorf("balance after failed purchase = %d, want 10", balance)
	}
}
