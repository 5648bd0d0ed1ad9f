package seed

import (
	"testing"

	"github.com/opd/console/internal/domain/orders"
)

func TestPinyinInitials(t *testing.T) {
	cases := map[string]string{
		"阿莫西林胶囊": "amxljn",
		"张伟":     "zw",
		"血常规":    "xcg",
	}
	for in, want := range cases {
		if got := PinyinInitials(in); got != want {
			t.Errorf("PinyinInitials(%q) = %q, want %q", in, got, want)
		}
	}
	if got := PinyinInitials("ABC"); got != "" {
		t.Errorf("unknown characters should contribute nothing, got %q", got)
	}
}

func TestCatalogEntries_CoverEveryCategory(t *testing.T) {
	byCategory := make(map[orders.Category]int)
	for _, e := range CatalogEntries() {
		byCategory[e.Category]++
		if e.Name == "" || e.UnitPrice < 0 {
			t.Errorf("invalid entry %+v", e)
		}
		if e.Pinyin == "" {
			t.Errorf("entry %s has no pinyin initials", e.Name)
		}
	}
	for _, cat := range orders.AllCategories() {
		if byCategory[cat] == 0 {
			t.Errorf("no seed entries for category %s", cat)
		}
	}
}

func TestCatalogEntries_DrugPackSizes(t *testing.T) {
	packs := map[string]int{
		"布洛芬缓释胶囊": 24,
		"头孢克肟分散片": 6,
		"蒙脱石散":    10,
	}
	for _, e := range CatalogEntries() {
		if want, ok := packs[e.Name]; ok && e.PackSize != want {
			t.Errorf("%s pack size = %d, want %d", e.Name, e.PackSize, want)
		}
	}
}

func TestPatients(t *testing.T) {
	patients := Patients()
	if len(patients) != 6 {
		t.Fatalf("expected 6 patients, got %d", len(patients))
	}
	if patients[0].Name != "陈明辉" || patients[0].Pinyin != "cmh" {
		t.Errorf("unexpected first patient %+v", patients[0])
	}
}

func TestFormulas(t *testing.T) {
	formulas := Formulas()
	if len(formulas) != 2 {
		t.Fatalf("expected 2 formulas, got %d", len(formulas))
	}
	if formulas[0].Name != "四君子汤" || len(formulas[0].Herbs) != 4 {
		t.Errorf("unexpected formula %+v", formulas[0])
	}
	// Every formula herb is orderable from the catalog.
	herbs := make(map[string]bool)
	for _, e := range CatalogEntries() {
		if e.Category == orders.CategoryHerbal {
			herbs[e.Name] = true
		}
	}
	for _, f := range Formulas() {
		for _, h := range f.Herbs {
			if !herbs[h.Name] {
				t.Errorf("formula %s herb %s missing from catalog", f.Name, h.Name)
			}
		}
	}
}
