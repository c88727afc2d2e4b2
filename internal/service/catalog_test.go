package service

import (
	"runpal_backend/internal/model"
	"testing"
)

func TestPickItemUniform(t *testing.T) {
	a := model.CatalogItem{Name: "A", Rarity: model.RarityRare}
	a.ID = 1
	b := model.CatalogItem{Name: "B", Rarity: model.RarityRare}
	b.ID = 2
	catalog := &fakeCatalog{items: []model.CatalogItem{a, b}}

	svc := NewCatalogService(catalog, &fakeRand{ints: []int{1}})
	item, err := svc.PickItem(model.RarityRare)
	if err != nil {
		t.Fatal(err)
	}
	if item == nil || item.ID != 2 {
		t.Errorf("PickItem() = %v, want item 2", item)
	}
}

func TestPickItemEmptyPool(t *testing.T) {
	svc := NewCatalogService(&fakeCatalog{}, &fakeRand{})

	item, err := svc.PickItem(model.RarityEpic)
	if err != nil {
		t.Fatalf("PickItem() error = %v, want nil for empty pool", err)
	}
	if item != nil {
		t.Errorf("PickItem() = %v, want nil", item)
	}
}

func TestPickItemExcludesSpecialRewards(t *testing.T) {
	normal := model.CatalogItem{Name: "常规", Rarity: model.RarityMythic}
	normal.ID = 1
	special := specialItem(2, model.ConditionHot)
	catalog := &fakeCatalog{items: []model.CatalogItem{normal, special}}

	svc := NewCatalogService(catalog, &fakeRand{ints: []int{0, 1, 2, 3}})
	for i := 0; i < 4; i++ {
		item, err := svc.PickItem(model.RarityMythic)
		if err != nil {
			t.Fatal(err)
		}
		if item == nil || item.IsSpecialReward {
			t.Fatalf("PickItem() returned %v, special rewards must not drop", item)
		}
	}
}
