package model

// ExamMetadata summarises the papers available for one exam type.
type ExamMetadata struct {
	ExamType    string   `json:"examType"`
	Name        string   `json:"name"`
	Years       []string `json:"years"`
	TotalPapers int      `json:"totalPapers"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	LatestYear  string   `json:"latestYear"`
}
