package extractor

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-grader/internal/domain"
	"github.com/naka-gawa/github-grader/internal/gateway"
)

var actionVerbs = map[string]bool{
	"add": true, "fix": true, "update": true, "remove": true,
	"refactor": true, "implement": true, "create": true, "delete": true,
	"modify": true, "improve": true, "optimize": true,
}

var lazyMessages = map[string]bool{
	"wip": true, "test": true, "asdf": true, "update": true,
	"fix": true, "changes": true, "stuff": true,
}

var conventionalCommit = regexp.MustCompile(`(?i)^(feat|fix|docs|style|refactor|test|chore)(\(.+\))?: .+`)

// modernLanguages is the allow-list for the modern byte-share ratio.
var modernLanguages = map[string]bool{
	"Python": true, "JavaScript": true, "TypeScript": true, "Rust": true,
	"Go": true, "Kotlin": true, "Swift": true, "Dart": true,
	"Julia": true, "React": true, "Vue": true, "Svelte": true,
}

// CodeQualityExtractor derives language and commit-hygiene metrics for one user.
type CodeQualityExtractor struct {
	fetcher     gateway.Fetcher
	logger      *log.Logger
	commitPages int
}

// NewCodeQualityExtractor creates a CodeQualityExtractor. commitPages caps
// how many commit pages are sampled per repository.
func NewCodeQualityExtractor(fetcher gateway.Fetcher, logger *log.Logger, commitPages int) *CodeQualityExtractor {
	return &CodeQualityExtractor{fetcher: fetcher, logger: logger, commitPages: commitPages}
}

func defaultCodeQuality() domain.CodeQualityMetrics {
	return domain.CodeQualityMetrics{PrimaryLanguages: map[string]int64{}}
}

// Extract returns the code quality metrics for user. Any fetch failure
// degrades to the zero bundle; per-repository failures only skip that
// repository's contribution.
func (e *CodeQualityExtractor) Extract(ctx context.Context, user string) domain.CodeQualityMetrics {
	repos, err := e.fetcher.FetchRepos(ctx, user)
	if err != nil {
		e.logger.Printf("code quality: falling back to defaults for %s: %v", user, err)
		return defaultCodeQuality()
	}
	repos = qualifying(repos)

	languages := make(map[string]int64)
	var messages []string
	var additions, deletions, withStats int

	for _, r := range repos {
		repoLangs, err := e.fetcher.FetchLanguages(ctx, user, r.Name)
		if err != nil {
			e.logger.Printf("code quality: no languages for %s/%s: %v", user, r.Name, err)
		}
		for lang, bytes := range repoLangs {
			languages[lang] += bytes
		}

		commits, err := e.fetcher.FetchCommits(ctx, user, r.Name, e.commitPages)
		if err != nil {
			e.logger.Printf("code quality: skipping commits for %s/%s: %v", user, r.Name, err)
			continue
		}
		for _, c := range commits {
			if c.Message != "" {
				messages = append(messages, c.Message)
			}
			if c.Additions > 0 || c.Deletions > 0 {
				additions += c.Additions
				deletions += c.Deletions
				withStats++
			}
		}
	}

	m := domain.CodeQualityMetrics{
		PrimaryLanguages:          languages,
		CommitMessageQualityScore: messageQuality(messages),
		LanguageDiversityScore:    len(languages),
	}
	if withStats > 0 {
		m.AvgAdditionsPerCommit = roundTo(float64(additions)/float64(withStats), 2)
		m.AvgDeletionsPerCommit = roundTo(float64(deletions)/float64(withStats), 2)
	}
	return m
}

// messageQuality averages the per-message score over all collected messages.
func messageQuality(messages []string) float64 {
	if len(messages) == 0 {
		return 0
	}
	scores := make([]float64, len(messages))
	for i, msg := range messages {
		scores[i] = ScoreCommitMessage(msg)
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		return 0
	}
	return roundTo(mean, 2)
}

// ScoreCommitMessage scores a single commit message on a 0-100 scale.
// Longer, capitalized, verb-led, multi-word and conventional-commit-shaped
// messages score higher; messages on the lazy list are penalized.
func ScoreCommitMessage(message string) float64 {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0
	}

	score := 0.0
	switch {
	case len(message) >= 50:
		score += 25
	case len(message) >= 20:
		score += 15
	case len(message) >= 10:
		score += 10
	default:
		score += 5
	}

	if unicode.IsUpper([]rune(message)[0]) {
		score += 15
	}

	words := strings.Fields(message)
	if actionVerbs[strings.ToLower(words[0])] {
		score += 20
	}

	if lazyMessages[strings.ToLower(message)] {
		score -= 10
	} else if len(words) >= 3 {
		score += 15
	}

	if conventionalCommit.MatchString(message) {
		score += 20
	}

	return clamp(score, 0, 100)
}

// LanguageIndicators summarizes a merged language byte distribution.
type LanguageIndicators struct {
	DominantLanguage string  `json:"dominant_language"`
	LanguageBalance  float64 `json:"language_balance"`
	ModernRatio      float64 `json:"modern_languages_ratio"`
	TotalLanguages   int     `json:"total_languages"`
}

// AnalyzeLanguages derives quality indicators from a language byte
// distribution. LanguageBalance is normalized Shannon entropy over the
// byte shares: 0 for a single language, 1 for a perfectly even split.
func AnalyzeLanguages(languages map[string]int64) LanguageIndicators {
	if len(languages) == 0 {
		return LanguageIndicators{}
	}

	var total, dominantBytes, modern int64
	dominant := ""
	for lang, bytes := range languages {
		total += bytes
		if bytes > dominantBytes || (bytes == dominantBytes && lang < dominant) {
			dominant, dominantBytes = lang, bytes
		}
		if modernLanguages[lang] {
			modern += bytes
		}
	}

	ind := LanguageIndicators{
		DominantLanguage: dominant,
		TotalLanguages:   len(languages),
	}
	if total == 0 {
		return ind
	}
	ind.ModernRatio = roundTo(float64(modern)/float64(total), 3)

	if len(languages) > 1 {
		shares := make([]float64, 0, len(languages))
		for _, bytes := range languages {
			shares = append(shares, float64(bytes)/float64(total))
		}
		// stats.Entropy returns nats; dividing by ln(n) normalizes to [0,1].
		h, err := stats.Entropy(shares)
		if err == nil {
			ind.LanguageBalance = roundTo(h/math.Log(float64(len(languages))), 3)
		}
	}
	return ind
}

// OverallQualityScore combines a code quality bundle into a single 0-100
// helper score: message hygiene at 40%, capped language diversity, a change
// size band bonus, and the modern language ratio.
func OverallQualityScore(m domain.CodeQualityMetrics) float64 {
	score := m.CommitMessageQualityScore * 0.4
	score += math.Min(20, float64(m.LanguageDiversityScore)*4)

	avgChanges := m.AvgAdditionsPerCommit + m.AvgDeletionsPerCommit
	switch {
	case avgChanges >= 10 && avgChanges <= 200:
		score += 20
	case avgChanges >= 5 && avgChanges <= 500:
		score += 15
	case avgChanges > 0:
		score += 10
	}

	score += AnalyzeLanguages(m.PrimaryLanguages).ModernRatio * 20
	return roundTo(clamp(score, 0, 100), 2)
}
