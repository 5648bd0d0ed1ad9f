// Package seed provides the static demo dataset the console starts
// with: the orderable catalog, the day's patient registry, and the
// herbal formula templates.
package seed

import (
	"strings"

	"github.com/opd/console/internal/domain/catalog"
	"github.com/opd/console/internal/domain/orders"
	"github.com/opd/console/internal/domain/visit"
)

// pinyinInitials maps the characters appearing in the seed data to
// their pinyin initials for keyboard search.
var pinyinInitials = map[rune]string{
	'布': "b", '洛': "l", '芬': "f", '缓': "h", '释': "s", '胶': "j", '囊': "n",
	'片': "p", '对': "d", '乙': "y", '酰': "x", '氨': "a", '基': "j", '酚': "f",
	'阿': "a", '莫': "m", '西': "x", '林': "l", '头': "t", '孢': "b", '克': "k",
	'肟': "w", '分': "f", '散': "s", '氯': "l", '雷': "l", '他': "t", '定': "d",
	'复': "f", '方': "f", '烷': "w", '苯': "b", '磺': "h", '酸': "s", '地': "d",
	'平': "p", '奥': "a", '美': "m", '拉': "l", '唑': "z", '肠': "c", '溶': "r",
	'蒙': "m", '脱': "t", '石': "s", '王': "w", '建': "j", '国': "g", '李': "l",
	'玲': "l", '张': "z", '伟': "w", '赵': "z", '晓': "x", '燕': "y", '刘': "l",
	'德': "d", '华': "h", '陈': "c", '明': "m", '辉': "h", '周': "z", '小': "x",
	'红': "h", '吴': "w", '强': "q", '孙': "s", '丽': "l",
	'血': "x", '常': "c", '规': "g", '尿': "n", '肝': "g", '功': "g", '能': "n",
	'肾': "s", '超': "c", '胸': "x", '部': "b", '腹': "f", '彩': "c", '心': "x",
	'电': "d", '图': "t", '静': "j", '脉': "m", '输': "s", '液': "y", '肌': "j",
	'注': "z", '射': "s", '雾': "w", '化': "h", '吸': "x", '入': "r", '针': "z",
	'灸': "j", '推': "t", '拿': "n", '一': "y", '次': "c", '性': "x", '器': "q",
	'生': "s", '理': "l", '盐': "y", '水': "s", '棉': "m", '签': "q", '纱': "s",
	'黄': "h", '芪': "q", '党': "d", '参': "c", '白': "b", '术': "s",
	'茯': "f", '苓': "l", '甘': "g", '草': "c", '当': "d", '归': "g", '川': "c",
	'芎': "x", '芍': "s", '熟': "s",
}

// PinyinInitials returns the pinyin initial of every character the map
// knows; unknown characters contribute nothing.
func PinyinInitials(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(pinyinInitials[r])
	}
	return b.String()
}

func entry(name string, cat orders.Category, spec string, price float64, packSize, stock int) *catalog.Entry {
	return &catalog.Entry{
		Name:      name,
		Category:  cat,
		Spec:      spec,
		UnitPrice: price,
		PackSize:  packSize,
		Stock:     stock,
		Pinyin:    PinyinInitials(name),
	}
}

// CatalogEntries returns the full orderable catalog in display order.
func CatalogEntries() []*catalog.Entry {
	return []*catalog.Entry{
		// Western drugs.
		entry("布洛芬缓释胶囊", orders.CategoryPrescription, "0.3g×24粒/盒", 15.60, 24, 500),
		entry("复方氨酚烷胺胶囊", orders.CategoryPrescription, "12粒/板", 8.40, 12, 320),
		entry("阿莫西林胶囊", orders.CategoryPrescription, "0.25g×24粒/盒", 12.80, 24, 280),
		entry("头孢克肟分散片", orders.CategoryPrescription, "0.1g×6片/板", 28.00, 6, 150),
		entry("苯磺酸氨氯地平片", orders.CategoryPrescription, "5mg×14片/盒", 32.50, 14, 200),
		entry("奥美拉唑肠溶胶囊", orders.CategoryPrescription, "20mg×14粒/盒", 25.80, 14, 180),
		entry("氯雷他定片", orders.CategoryPrescription, "10mg×6片/盒", 18.50, 6, 420),
		entry("蒙脱石散", orders.CategoryPrescription, "3g×10袋/盒", 22.00, 10, 350),

		// Lab tests.
		entry("血常规", orders.CategoryLabTest, "", 25.00, 0, 0),
		entry("尿常规", orders.CategoryLabTest, "", 20.00, 0, 0),
		entry("肝功能", orders.CategoryLabTest, "", 60.00, 0, 0),
		entry("肾功能", orders.CategoryLabTest, "", 55.00, 0, 0),

		// Examinations.
		entry("胸部CT", orders.CategoryExam, "", 280.00, 0, 0),
		entry("腹部彩超", orders.CategoryExam, "", 150.00, 0, 0),
		entry("心电图", orders.CategoryExam, "", 35.00, 0, 0),

		// Treatments.
		entry("静脉输液", orders.CategoryTreatment, "", 30.00, 0, 0),
		entry("肌肉注射", orders.CategoryTreatment, "", 12.00, 0, 0),
		entry("雾化吸入", orders.CategoryTreatment, "", 25.00, 0, 0),
		entry("针灸", orders.CategoryTreatment, "", 80.00, 0, 0),
		entry("推拿", orders.CategoryTreatment, "", 60.00, 0, 0),

		// Herbs.
		entry("黄芪", orders.CategoryHerbal, "", 0.80, 0, 0),
		entry("党参", orders.CategoryHerbal, "", 1.20, 0, 0),
		entry("白术", orders.CategoryHerbal, "", 1.00, 0, 0),
		entry("茯苓", orders.CategoryHerbal, "", 0.90, 0, 0),
		entry("甘草", orders.CategoryHerbal, "", 0.50, 0, 0),
		entry("当归", orders.CategoryHerbal, "", 1.50, 0, 0),
		entry("川芎", orders.CategoryHerbal, "", 1.10, 0, 0),
		entry("白芍", orders.CategoryHerbal, "", 1.00, 0, 0),
		entry("熟地", orders.CategoryHerbal, "", 1.30, 0, 0),

		// Consumables.
		entry("一次性输液器", orders.CategoryMaterial, "", 3.50, 0, 800),
		entry("生理盐水", orders.CategoryMaterial, "250ml/瓶", 4.20, 0, 600),
		entry("棉签", orders.CategoryMaterial, "100支/包", 2.00, 0, 1000),
		entry("纱布", orders.CategoryMaterial, "", 5.00, 0, 500),
	}
}

// Patients returns the day's registered visits in queue order.
func Patients() []*visit.Patient {
	patients := []*visit.Patient{
		{Name: "陈明辉", Gender: "男", Age: 38, Phone: "13800138000"},
		{Name: "王建国", Gender: "男", Age: 45, Phone: "13900139001"},
		{Name: "李美玲", Gender: "女", Age: 32, Phone: "13700137002"},
		{Name: "张伟", Gender: "男", Age: 28, Phone: "13600136003"},
		{Name: "赵晓燕", Gender: "女", Age: 55, Phone: "13500135004"},
		{Name: "刘德华", Gender: "男", Age: 62, Phone: "13400134005"},
	}
	for _, p := range patients {
		p.Pinyin = PinyinInitials(p.Name)
	}
	return patients
}

// Formulas returns the herbal prescription templates.
func Formulas() []catalog.Formula {
	return []catalog.Formula{
		{
			Name: "四君子汤",
			Herbs: []orders.FormulaHerb{
				{Name: "党参", DosageGrams: 10},
				{Name: "白术", DosageGrams: 10},
				{Name: "茯苓", DosageGrams: 10},
				{Name: "甘草", DosageGrams: 6},
			},
		},
		{
			Name: "四物汤",
			Herbs: []orders.FormulaHerb{
				{Name: "当归", DosageGrams: 10},
				{Name: "川芎", DosageGrams: 8},
				{Name: "白芍", DosageGrams: 10},
				{Name: "熟地", DosageGrams: 12},
			},
		},
	}
}
