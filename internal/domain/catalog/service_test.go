package catalog

import (
	"context"
	"testing"

	"github.com/opd/console/internal/domain/orders"
)

func seedRepo(t *testing.T) *MemRepo {
	t.Helper()
	repo := NewMemRepo()
	entries := []*Entry{
		{Name: "阿莫西林胶囊", Category: orders.CategoryPrescription, Spec: "0.25g*24粒", UnitPrice: 12.80, PackSize: 24, Pinyin: "amxlJN"},
		{Name: "布洛芬缓释胶囊", Category: orders.CategoryPrescription, Spec: "0.3g*20粒", UnitPrice: 15.60, PackSize: 20, Pinyin: "blfHSJN"},
		{Name: "头孢克肟分散片", Category: orders.CategoryPrescription, Spec: "50mg*12片", UnitPrice: 28.40, PackSize: 12, Pinyin: "tbkwFSP"},
		{Name: "血常规", Category: orders.CategoryLabTest, UnitPrice: 25.00, Pinyin: "xcg"},
		{Name: "尿常规", Category: orders.CategoryLabTest, UnitPrice: 20.00, Pinyin: "ncg"},
	}
	for _, e := range entries {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestMemRepo_SearchEmptyQueryReturnsCategoryInOrder(t *testing.T) {
	repo := seedRepo(t)

	items, total, err := repo.Search(context.Background(), orders.CategoryPrescription, "", 20, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 prescriptions, got total=%d len=%d", total, len(items))
	}
	if items[0].Name != "阿莫西林胶囊" || items[2].Name != "头孢克肟分散片" {
		t.Errorf("catalog order not preserved: %s .. %s", items[0].Name, items[2].Name)
	}
}

func TestMemRepo_SearchWithoutCategorySpansCatalog(t *testing.T) {
	repo := seedRepo(t)

	items, total, err := repo.Search(context.Background(), "", "", 20, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 5 || len(items) != 5 {
		t.Fatalf("expected the full catalog, got total=%d len=%d", total, len(items))
	}
	if items[0].Name != "阿莫西林胶囊" || items[4].Name != "尿常规" {
		t.Errorf("catalog order not preserved: %s .. %s", items[0].Name, items[4].Name)
	}

	// A query without a category matches across categories too.
	_, total, _ = repo.Search(context.Background(), "", "常规", 20, 0)
	if total != 2 {
		t.Errorf("expected 2 matches across categories, got %d", total)
	}
}

func TestMemRepo_SearchByName(t *testing.T) {
	repo := seedRepo(t)

	items, total, _ := repo.Search(context.Background(), orders.CategoryLabTest, "血", 20, 0)
	if total != 1 || items[0].Name != "血常规" {
		t.Errorf("expected 血常规, got total=%d items=%v", total, items)
	}
}

func TestMemRepo_SearchByPinyinInitialsIsCaseInsensitive(t *testing.T) {
	repo := seedRepo(t)

	items, total, _ := repo.Search(context.Background(), orders.CategoryPrescription, "BLF", 20, 0)
	if total != 1 || items[0].Name != "布洛芬缓释胶囊" {
		t.Errorf("expected 布洛芬缓释胶囊, got total=%d", total)
	}
}

func TestMemRepo_SearchScopedToCategory(t *testing.T) {
	repo := seedRepo(t)

	_, total, _ := repo.Search(context.Background(), orders.CategoryLabTest, "阿莫西林", 20, 0)
	if total != 0 {
		t.Errorf("expected no matches outside the category, got %d", total)
	}
}

func TestMemRepo_SearchPagination(t *testing.T) {
	repo := seedRepo(t)

	items, total, _ := repo.Search(context.Background(), orders.CategoryPrescription, "", 2, 2)
	if total != 3 || len(items) != 1 {
		t.Errorf("expected last page of 1, got total=%d len=%d", total, len(items))
	}
	items, _, _ = repo.Search(context.Background(), orders.CategoryPrescription, "", 2, 10)
	if len(items) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(items))
	}
}

func TestService_LookupCopiesReferenceFields(t *testing.T) {
	svc := NewService(seedRepo(t))

	ref, err := svc.Lookup(context.Background(), orders.CategoryPrescription, "阿莫西林胶囊")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ref.UnitPrice != 12.80 || ref.PackSize != 24 || ref.Spec != "0.25g*24粒" {
		t.Errorf("unexpected reference %+v", ref)
	}

	if _, err := svc.Lookup(context.Background(), orders.CategoryPrescription, "不存在的药"); err == nil {
		t.Error("expected miss for unknown name")
	}
}

func TestService_Formulas(t *testing.T) {
	svc := NewService(seedRepo(t))
	svc.LoadFormulas([]Formula{
		{Name: "四君子汤", Herbs: []orders.FormulaHerb{{Name: "人参", DosageGrams: 9}, {Name: "白术", DosageGrams: 9}}},
		{Name: "四物汤", Herbs: []orders.FormulaHerb{{Name: "当归", DosageGrams: 10}}},
	})

	herbs, ok := svc.Formula("四君子汤")
	if !ok || len(herbs) != 2 {
		t.Fatalf("expected 2 herbs, ok=%v len=%d", ok, len(herbs))
	}
	if _, ok := svc.Formula("六味地黄丸"); ok {
		t.Error("expected unknown formula to miss")
	}

	all := svc.Formulas()
	if len(all) != 2 || all[0].Name != "四君子汤" {
		t.Errorf("expected load order preserved, got %v", all)
	}
}
