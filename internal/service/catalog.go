package service

import (
	"sort"
	"strconv"
	"strings"

	"paperapi/internal/model"
)

const defaultLatestYear = "2023"

type examInfo struct {
	name        string
	description string
	color       string
}

var examCatalog = map[string]examInfo{
	"iit": {
		name:        "IIT-JEE",
		description: "The Joint Entrance Examination (JEE) is an engineering entrance assessment conducted for admission to various engineering colleges in India.",
		color:       "bg-blue-600",
	},
	"neet": {
		name:        "NEET",
		description: "The National Eligibility cum Entrance Test (NEET) is the entrance examination for medical and dental colleges across India.",
		color:       "bg-green-600",
	},
	"gate": {
		name:        "GATE",
		description: "The Graduate Aptitude Test in Engineering (GATE) is an examination for admission to postgraduate programs in engineering and science.",
		color:       "bg-purple-600",
	},
	"cat": {
		name:        "CAT",
		description: "The Common Admission Test (CAT) is a computer-based test for admission into postgraduate management programs.",
		color:       "bg-yellow-600",
	},
	"upsc": {
		name:        "UPSC",
		description: "Union Public Service Commission conducts various examinations for recruitment to civil services of the Government of India.",
		color:       "bg-red-600",
	},
}

// examPriority orders known exam types first; the rest follow alphabetically.
var examPriority = []string{"iit", "neet", "gate", "cat", "upsc"}

func lookupExam(examType string) examInfo {
	if info, ok := examCatalog[examType]; ok {
		return info
	}
	upper := strings.ToUpper(examType)
	return examInfo{
		name:        upper,
		description: upper + " examination papers and solutions.",
		color:       "bg-gray-600",
	}
}

func priority(examType string) int {
	for i, t := range examPriority {
		if t == examType {
			return i
		}
	}
	return -1
}

// yearNum treats non-numeric years as 0.
func yearNum(year string) int {
	n, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0
	}
	return n
}

func buildMetadata(papers []model.Paper) []model.ExamMetadata {
	groups := make(map[string][]model.Paper)
	for _, p := range papers {
		groups[p.ExamType] = append(groups[p.ExamType], p)
	}

	out := make([]model.ExamMetadata, 0, len(groups))
	for examType, group := range groups {
		seen := make(map[string]struct{})
		years := make([]string, 0)
		for _, p := range group {
			if _, ok := seen[p.Year]; ok {
				continue
			}
			seen[p.Year] = struct{}{}
			years = append(years, p.Year)
		}
		sort.SliceStable(years, func(i, j int) bool { return yearNum(years[i]) > yearNum(years[j]) })

		latest := defaultLatestYear
		if len(years) > 0 {
			latest = years[0]
		}
		info := lookupExam(examType)
		out = append(out, model.ExamMetadata{
			ExamType:    examType,
			Name:        info.name,
			Years:       years,
			TotalPapers: len(group),
			Description: info.description,
			Color:       info.color,
			LatestYear:  latest,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := priority(out[i].ExamType), priority(out[j].ExamType)
		switch {
		case a == -1 && b == -1:
			return out[i].ExamType < out[j].ExamType
		case a == -1:
			return false
		case b == -1:
			return true
		}
		return a < b
	})
	return out
}

// latestPapers keeps the most recent year and one paper per exam type from it,
// in newest-upload order.
func latestPapers(papers []model.Paper, limit int) []model.Paper {
	sorted := append([]model.Paper(nil), papers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := yearNum(sorted[i].Year), yearNum(sorted[j].Year)
		if yi != yj {
			return yi > yj
		}
		return sorted[i].UploadDate.After(sorted[j].UploadDate)
	})

	out := make([]model.Paper, 0)
	if len(sorted) == 0 {
		return out
	}
	year := sorted[0].Year
	seen := make(map[string]struct{})
	for _, p := range sorted {
		if len(out) >= limit {
			break
		}
		if p.Year != year {
			continue
		}
		if _, ok := seen[p.ExamType]; ok {
			continue
		}
		seen[p.ExamType] = struct{}{}
		out = append(out, p)
	}
	return out
}
