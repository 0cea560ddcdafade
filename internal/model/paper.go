package model

import (
	"strings"
	"time"
)

// Paper is the metadata record of an uploaded exam paper.
// The file bytes live in the blob store; PaperURL and SolutionURL are the only link to them.
type Paper struct {
	ID           string     `json:"id" bson:"id"`
	PartitionKey string     `json:"partitionKey,omitempty" bson:"partitionKey"`
	ExamType     string     `json:"examType" bson:"examType"`
	Year         string     `json:"year" bson:"year"`
	PaperType    string     `json:"paperType" bson:"paperType"`
	PaperURL     string     `json:"paperUrl" bson:"paperUrl"`
	SolutionURL  string     `json:"solutionUrl,omitempty" bson:"solutionUrl,omitempty"`
	HasDownload  bool       `json:"hasDownload" bson:"hasDownload"`
	HasSolution  bool       `json:"hasSolution" bson:"hasSolution"`
	UploadDate   time.Time  `json:"uploadDate" bson:"uploadDate"`
	Views        int64      `json:"views" bson:"views"`
	Downloads    int64      `json:"downloads" bson:"downloads"`
	LastViewed   *time.Time `json:"lastViewed,omitempty" bson:"lastViewed,omitempty"`
	Subjects     []string   `json:"subjects,omitempty" bson:"subjects,omitempty"`
}

// Normalize keeps HasSolution in sync with SolutionURL and defaults the partition key to the id.
func (p *Paper) Normalize() {
	p.HasSolution = p.SolutionURL != ""
	if p.PartitionKey == "" {
		p.PartitionKey = p.ID
	}
}

// Title is the display title used by the viewer, e.g. "NEET 2023 - Phase 1".
func (p *Paper) Title() string {
	return strings.ToUpper(p.ExamType) + " " + p.Year + " - " + p.PaperType
}

