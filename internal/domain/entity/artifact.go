package entity

// ArtifactKind тип построенной диаграммы.
type ArtifactKind string

const (
	ArtifactHeatmap  ArtifactKind = "heatmap"
	ArtifactRadar    ArtifactKind = "radar"
	ArtifactPriority ArtifactKind = "priority"
)

// Artifact PNG-файл, построенный для одного запроса.
type Artifact struct {
	Kind ArtifactKind
	Path string
}

// ArtifactSet результаты трёх построений; каждое поле может быть nil.
type ArtifactSet struct {
	Heatmap  *Artifact
	Radar    *Artifact
	Priority *Artifact
}

// Get возвращает артефакт по типу.
func (s ArtifactSet) Get(kind ArtifactKind) *Artifact {
	switch kind {
	case ArtifactHeatmap:
		return s.Heatmap
	case ArtifactRadar:
		return s.Radar
	case ArtifactPriority:
		return s.Priority
	}
	return nil
}

// Available возвращает построенные артефакты в порядке heatmap, radar, priority.
func (s ArtifactSet) Available() []*Artifact {
	out := make([]*Artifact, 0, 3)
	for _, a := range []*Artifact{s.Heatmap, s.Radar, s.Priority} {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
