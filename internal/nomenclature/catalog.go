package nomenclature

// Catalog holds the fixed option sets offered in the interactive menus.
type Catalog struct {
	ProductTypes   []string `yaml:"product_types"`
	ColorRequired  []string `yaml:"color_required"`
	CollarRequired []string `yaml:"collar_required"`
	Colors         []string `yaml:"colors"`
	Collars        []string `yaml:"collars"`
	Sizes          []string `yaml:"sizes"`
	UnitsPerPack   []string `yaml:"units_per_pack"`
}

// DefaultCatalog returns the option sets matching the nomenclature workbook.
func DefaultCatalog() Catalog {
	return Catalog{
		ProductTypes: []string{
			"стер лат 1-хлор", "стер лат", "стер лат 2-хлор", "стер нитрил",
			"хир", "хир 1-хлор", "хир с полимерным", "хир 2-хлор", "хир изопрен",
			"хир нитрил", "ультра", "гинекология", "двойная пара", "микрохирургия",
			"ортопедия", "латекс диаг гладкие", "латекс диаг", "латекс 2-хлор",
			"латекс с полимерным", "латекс удлиненный", "латекс анатомической",
			"латекс hr", "латекс 1-хлор", "нитрил диаг", "нитрил диаг hr короткий",
			"нитрил диаг hr удлиненный",
		},
		ColorRequired: []string{
			"латекс 1-хлор", "латекс 2-хлор", "латекс HR", "латекс анатомической",
			"латекс диаг", "латекс диаг гладкие", "латекс с полимерным",
			"латекс удлиненный", "нитрил диаг", "нитрил диаг HR короткий",
			"нитрил диаг HR удлиненный", "стер лат 1-хлор", "стер лат 2-хлор",
		},
		CollarRequired: []string{"гинекология", "микрохирургия", "ортопедия"},
		Colors:         []string{"белый", "зеленый", "натуральный", "розовый", "синий", "фиолетовый", "черный"},
		Collars:        []string{"с венчиком", "без венчика"},
		Sizes: []string{
			"XS", "S", "M", "L", "XL", "5,0", "5,5", "6,0", "6,5",
			"7,0", "7,5", "8,0", "8,5", "9,0", "9,5", "10,0",
		},
		UnitsPerPack: []string{
			"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "20", "25", "30", "40",
			"50", "60", "70", "80", "90", "100", "110", "120", "125", "250", "500",
		},
	}
}

// Merge returns c with every empty list taken from fallback.
func (c Catalog) Merge(fallback Catalog) Catalog {
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	return Catalog{
		ProductTypes:   pick(c.ProductTypes, fallback.ProductTypes),
		ColorRequired:  pick(c.ColorRequired, fallback.ColorRequired),
		CollarRequired: pick(c.CollarRequired, fallback.CollarRequired),
		Colors:         pick(c.Colors, fallback.Colors),
		Collars:        pick(c.Collars, fallback.Collars),
		Sizes:          pick(c.Sizes, fallback.Sizes),
		UnitsPerPack:   pick(c.UnitsPerPack, fallback.UnitsPerPack),
	}
}

// NeedsColor reports whether the product type must be narrowed by color.
func (c Catalog) NeedsColor(productType string) bool {
	return containsFold(c.ColorRequired, productType)
}

// NeedsCollar reports whether the product type must be narrowed by collar.
func (c Catalog) NeedsCollar(productType string) bool {
	return containsFold(c.CollarRequired, productType)
}

func containsFold(list []string, s string) bool {
	s = fold(s)
	for _, v := range list {
		if fold(v) == s {
			return true
		}
	}
	return false
}
