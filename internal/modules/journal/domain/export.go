package domain

// ExportReport describes one markdown export run.
type ExportReport struct {
	Dir       string
	IndexPath string
	NotePaths []string
}
