package entity

// Максимальная оценка категории на радарной диаграмме.
const MaxCategoryScore = 5.0

// Идентификаторы категорий радарной диаграммы.
const (
	CategorySkinQuality  = "skin_quality"
	CategoryWrinkles     = "wrinkles"
	CategorySpots        = "spots"
	CategoryFirmness     = "firmness"
	CategoryPores        = "pores"
	CategoryToneEvenness = "tone_evenness"
)

// CategoryOrder фиксированный порядок осей радарной диаграммы.
var CategoryOrder = []string{
	CategorySkinQuality,
	CategoryWrinkles,
	CategorySpots,
	CategoryFirmness,
	CategoryPores,
	CategoryToneEvenness,
}

// CategoryScore оценка одной категории в диапазоне [0,5].
type CategoryScore struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
}
