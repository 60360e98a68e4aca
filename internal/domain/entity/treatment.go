package entity

// priorityBase даёт отображаемую оценку 6 − ранг. Для рангов ≥ 6 оценка
// становится нулевой или отрицательной; это поведение сохраняется.
const priorityBase = 6

// TreatmentEntry процедура из раздела рекомендаций отчёта.
type TreatmentEntry struct {
	Name         string `json:"name"`
	PriorityRank int    `json:"priority_rank"` // 1 = наивысший приоритет
}

// Score возвращает оценку приоритета для диаграммы.
func (e TreatmentEntry) Score() int {
	return priorityBase - e.PriorityRank
}
