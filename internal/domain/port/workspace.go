package port

// Workspace каталог с файлами одного запроса
type Workspace interface {
	ID() string
	Dir() string
	// Path возвращает путь к файлу внутри каталога запроса
	Path(name string) string
	// Cleanup удаляет каталог запроса
	Cleanup() error
}

// WorkspaceFactory создаёт каталоги запросов с уникальными именами
type WorkspaceFactory interface {
	New() (Workspace, error)
}

// AssessmentCache хранит ответы моделей по имени модели и содержимому фото
type AssessmentCache interface {
	Get(model string, photo []byte) (assessment, report string, ok bool)
	Put(model string, photo []byte, assessment, report string)
}
