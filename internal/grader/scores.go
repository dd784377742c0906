// Package grader combines the four metric bundles into domain sub-scores,
// a weighted composite score and a letter grade.
package grader

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-grader/internal/domain"
)

// domainWeights are the fixed composite weights. They sum to exactly 1.0.
var domainWeights = map[string]float64{
	"activity":      0.35,
	"popularity":    0.20,
	"code_quality":  0.30,
	"collaboration": 0.15,
}

// ActivityScore maps an activity bundle to a 0-100 sub-score. A user with
// no retrieved commits scores 0.
func ActivityScore(m domain.ActivityMetrics) float64 {
	if m.TotalCommits == 0 {
		return 0
	}
	commitScore := math.Min(100, float64(m.TotalCommits)/10)
	recentScore := math.Min(100, float64(m.RecentActivityScore)*3.33)
	activeDayScore := math.Min(100, float64(m.ActiveDays)*1.11)
	score := commitScore*0.25 + m.ConsistencyScore*0.35 + recentScore*0.25 + activeDayScore*0.15
	return clamp(score, 0, 100)
}

// PopularityScore maps a popularity bundle to a 0-100 sub-score. A user
// with neither stars nor followers scores 0.
func PopularityScore(m domain.PopularityMetrics) float64 {
	if m.Stars == 0 && m.Followers == 0 {
		return 0
	}
	starScore := math.Min(100, m.AvgStars*5)
	followerScore := math.Min(100, float64(m.Followers)*0.5)
	watcherScore := math.Min(100, m.AvgWatchers*10)
	return clamp(starScore*0.5+followerScore*0.3+watcherScore*0.2, 0, 100)
}

// CodeQualityScore maps a code quality bundle to a 0-100 sub-score. A user
// with no scored commit messages scores 0.
func CodeQualityScore(m domain.CodeQualityMetrics) float64 {
	if m.CommitMessageQualityScore == 0 {
		return 0
	}
	languageScore := math.Min(100, float64(m.LanguageDiversityScore)*15)
	score := m.CommitMessageQualityScore*0.5 + languageScore*0.3 + changeSizeScore(m)*0.2
	return clamp(score, 0, 100)
}

// changeSizeScore rewards moderate average change sizes: very small and very
// large average diffs both indicate lower-signal commit habits.
func changeSizeScore(m domain.CodeQualityMetrics) float64 {
	avg := m.AvgAdditionsPerCommit + m.AvgDeletionsPerCommit
	switch {
	case avg >= 10 && avg <= 200:
		return 100
	case avg >= 5 && avg <= 500:
		return 75
	case avg > 0:
		return 50
	}
	return 0
}

// CollaborationScore maps a collaboration bundle to a 0-100 sub-score. A
// user with neither PRs nor issues scores 0.
func CollaborationScore(m domain.CollaborationMetrics) float64 {
	if m.TotalPRs == 0 && m.TotalIssues == 0 {
		return 0
	}
	prVolume := math.Min(100, float64(m.TotalPRs)*5)
	issueVolume := math.Min(100, float64(m.TotalIssues)*5)
	score := m.PRMergeRate*100*0.3 + m.IssueCloseRate*100*0.3 + prVolume*0.2 + issueVolume*0.2
	return clamp(score, 0, 100)
}

// LetterGrade maps a composite score to its letter grade.
func LetterGrade(total float64) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 85:
		return "A"
	case total >= 80:
		return "A-"
	case total >= 75:
		return "B+"
	case total >= 70:
		return "B"
	case total >= 65:
		return "B-"
	case total >= 60:
		return "C+"
	case total >= 55:
		return "C"
	case total >= 50:
		return "C-"
	case total >= 40:
		return "D"
	default:
		return "F"
	}
}

// Compose applies the four score transformers and the fixed domain weights,
// producing the final GradeResult. It is a pure function of its inputs.
func Compose(activity domain.ActivityMetrics, popularity domain.PopularityMetrics, codeQuality domain.CodeQualityMetrics, collaboration domain.CollaborationMetrics) domain.GradeResult {
	breakdown := map[string]float64{
		"activity":      roundTo(ActivityScore(activity), 2),
		"popularity":    roundTo(PopularityScore(popularity), 2),
		"code_quality":  roundTo(CodeQualityScore(codeQuality), 2),
		"collaboration": roundTo(CollaborationScore(collaboration), 2),
	}
	total := 0.0
	for name, score := range breakdown {
		total += score * domainWeights[name]
	}
	total = roundTo(total, 2)
	return domain.GradeResult{
		TotalScore: total,
		Grade:      LetterGrade(total),
		Breakdown:  breakdown,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return 0
	}
	return r
}
