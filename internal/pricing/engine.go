package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/weggo/api-go/internal/catalog"
	"github.com/example/weggo/api-go/internal/model"
)

// ProgressUpdate is one stage event emitted while an analysis advances.
type ProgressUpdate struct {
	StepID   string
	Status   model.StepStatus
	Progress int
	Message  string
}

// Heuristic base prices per category, used when the catalog has no
// comparable evidence. Unknown categories fall back to 1000.
var basePrices = map[string]int{
	"electronics": 15000,
	"furniture":   8000,
	"vehicles":    350000,
	"fashion":     500,
	"home":        3000,
	"sports":      2000,
	"books":       150,
	"toys":        300,
	"music":       5000,
	"gaming":      8000,
}

// Condition multipliers; unknown conditions fall back to 0.7. Both the
// hyphen and space spellings of "like new" are accepted.
var conditionMultipliers = map[string]float64{
	"new":      1.0,
	"like-new": 0.85,
	"like new": 0.85,
	"good":     0.7,
	"fair":     0.5,
	"poor":     0.3,
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {}, "with": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "from": {},
	"used": {}, "brand": {}, "new": {}, "sale": {}, "excellent": {},
	"good": {}, "like": {}, "condition": {},
}

const (
	maxKeywords   = 6
	maxSources    = 5
	defaultLimit  = 10
	fallbackBase  = 1000
	fallbackMulti = 0.7
)

// Engine turns an item description into a price estimate using the catalog
// as market evidence. It never mutates job state; it only reports progress
// through the callback.
type Engine struct {
	catalog catalog.Searcher
	limit   int
	log     *logrus.Logger
}

func NewEngine(cat catalog.Searcher, limit int, log *logrus.Logger) *Engine {
	if limit <= 0 {
		limit = defaultLimit
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{catalog: cat, limit: limit, log: log}
}

// Analyze runs the four pricing stages in order and returns the estimate.
// onProgress may be nil; the engine never waits on its effects.
func (e *Engine) Analyze(ctx context.Context, input model.EstimateInput, onProgress func(ProgressUpdate)) (model.PricingResult, error) {
	emit := func(u ProgressUpdate) {
		if onProgress != nil {
			onProgress(u)
		}
	}

	emit(ProgressUpdate{StepID: "prepare", Status: model.StepRunning, Progress: 10, Message: "Preparing input"})

	basePrice, ok := basePrices[strings.ToLower(input.Category)]
	if !ok {
		basePrice = fallbackBase
	}
	multiplier, ok := conditionMultipliers[strings.ToLower(input.Condition)]
	if !ok {
		multiplier = fallbackMulti
	}
	suggestedPrice := round(float64(basePrice) * multiplier)

	keywords := ExtractKeywords(input.Title, input.Description)
	emit(ProgressUpdate{StepID: "match", Status: model.StepRunning, Progress: 35, Message: "Finding similar listings"})

	similar, err := e.catalog.SearchActive(ctx, catalog.Query{Category: input.Category, Keywords: keywords}, e.limit)
	if err != nil {
		if input.Category == "" {
			return model.PricingResult{}, fmt.Errorf("search comparables: %w", err)
		}
		// Sparse or unreachable keyword data is expected; the category-only
		// retry below is the last resort before failing.
		e.log.WithError(err).Warn("keyword search failed, retrying by category")
		similar = nil
	}
	if len(similar) == 0 && input.Category != "" {
		similar, err = e.catalog.SearchActive(ctx, catalog.Query{Category: input.Category}, e.limit)
		if err != nil {
			return model.PricingResult{}, fmt.Errorf("search comparables: %w", err)
		}
	}

	emit(ProgressUpdate{StepID: "compute", Status: model.StepRunning, Progress: 70, Message: "Calculating market price"})

	sum, count := 0, 0
	for _, item := range similar {
		if item.Price > 0 {
			sum += item.Price
			count++
		}
	}
	averageMarketPrice := suggestedPrice
	if count > 0 {
		averageMarketPrice = round(float64(sum) / float64(count))
	}

	sources := make([]model.PricingSource, 0, maxSources)
	for _, item := range similar {
		if len(sources) == maxSources {
			break
		}
		sources = append(sources, model.PricingSource{
			Platform: e.catalog.Platform(),
			Price:    item.Price,
			Title:    item.Title,
			URL:      "/listings/" + item.ID,
		})
	}

	confidence := 55 + len(similar)*5
	if confidence > 95 {
		confidence = 95
	}

	emit(ProgressUpdate{StepID: "finalize", Status: model.StepDone, Progress: 100, Message: "Finalizing suggestion"})

	return model.PricingResult{
		Price:      averageMarketPrice,
		Confidence: confidence,
		Reason: fmt.Sprintf(
			"Based on %d similar listings in the Weggo marketplace, your item's condition, and current market demand.",
			len(similar)),
		// No trend signal exists in the catalog yet; reported as stable
		// until one does.
		MarketTrend: "stable",
		Sources:     sources,
		PriceRange: model.PriceRange{
			Min: round(float64(averageMarketPrice) * 0.85),
			Max: round(float64(averageMarketPrice) * 1.15),
		},
	}, nil
}

// ExtractKeywords normalizes title+description into at most six search
// terms: lowercase, alphanumeric only, longer than two characters, no stop
// words, deduplicated in first-seen order.
func ExtractKeywords(title, description string) []string {
	raw := strings.ToLower(title + " " + description)
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, raw)

	seen := make(map[string]struct{})
	keywords := make([]string, 0, maxKeywords)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func round(v float64) int { return int(math.Round(v)) }
