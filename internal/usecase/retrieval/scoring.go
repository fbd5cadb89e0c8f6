package retrieval

import (
	"strings"

	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
)

// Attribute score points.
const (
	skinTypePoints        = 25
	concernPoints         = 20
	maxConcernPoints      = 60
	preferencePoints      = 10
	sensitivityPenalty    = -30
	budgetPoints          = 15
	topRatingPoints       = 10
	goodRatingPoints      = 5
	inStockPoints         = 5
	topRatingThreshold    = 4.8
	goodRatingThreshold   = 4.5
	universalSkinType     = "all"
	fragranceSensitivity  = "fragrance"
	alcoholSensitivity    = "alcohol"
	similarityScoreFactor = 100
	similarityWeight      = 0.6
	attributeWeight       = 0.4
)

var preferenceLabels = map[string]string{
	"crueltyFree":   "Cruelty-free",
	"vegan":         "Vegan",
	"fragranceFree": "Fragrance-free",
	"alcoholFree":   "Alcohol-free",
}

// attributeScore rates how well product metadata fits the survey and explains why.
// Reasons follow rule order: skin type, concerns, preferences, warnings.
func attributeScore(s *survey.Survey, m *domdoc.Metadata) (int, []string) {
	score := 0
	var reasons []string

	if st := strings.TrimSpace(s.SkinType); st != "" && suitsSkinType(m.SkinTypes, st) {
		score += skinTypePoints
		reasons = append(reasons, "Suitable for "+st+" skin")
	}

	if matched := matchConcerns(s.Concerns, m.Concerns); len(matched) > 0 {
		score += min(concernPoints*len(matched), maxConcernPoints)
		reasons = append(reasons, "Addresses: "+strings.Join(matched, ", "))
	}

	wanted := product.Preferences{
		CrueltyFree:   s.Preferences.CrueltyFree,
		Vegan:         s.Preferences.Vegan,
		FragranceFree: s.Preferences.FragranceFree,
		AlcoholFree:   s.Preferences.AlcoholFree,
	}.Flags()
	has := m.Preferences.Flags()
	for i := range wanted {
		if wanted[i].Enabled && has[i].Enabled {
			score += preferencePoints
			reasons = append(reasons, preferenceLabels[wanted[i].Name])
		}
	}

	for _, sens := range s.Sensitivities {
		sens = strings.TrimSpace(sens)
		if sens == "" || !violates(sens, m) {
			continue
		}
		score += sensitivityPenalty
		reasons = append(reasons, "Warning: May contain "+sens)
	}

	if s.Preferences.BudgetRange.Contains(m.Price) {
		score += budgetPoints
	}

	switch {
	case m.Rating >= topRatingThreshold:
		score += topRatingPoints
	case m.Rating >= goodRatingThreshold:
		score += goodRatingPoints
	}

	if m.InStock {
		score += inStockPoints
	}
	return score, reasons
}

// finalScore blends similarity (scaled to 0..100) with the attribute score.
func finalScore(similarity float64, attr int) (simScore, final float64) {
	simScore = similarity * similarityScoreFactor
	return simScore, simScore*similarityWeight + float64(attr)*attributeWeight
}

func suitsSkinType(productTypes []string, skinType string) bool {
	for _, t := range productTypes {
		if strings.EqualFold(t, skinType) || strings.EqualFold(t, universalSkinType) {
			return true
		}
	}
	return false
}

// matchConcerns returns survey concerns that overlap a product concern by
// case-insensitive substring in either direction.
func matchConcerns(wanted, offered []string) []string {
	var matched []string
	for _, w := range wanted {
		lw := strings.ToLower(strings.TrimSpace(w))
		if lw == "" {
			continue
		}
		for _, o := range offered {
			lo := strings.ToLower(strings.TrimSpace(o))
			if lo == "" {
				continue
			}
			if strings.Contains(lo, lw) || strings.Contains(lw, lo) {
				matched = append(matched, w)
				break
			}
		}
	}
	return matched
}

func violates(sensitivity string, m *domdoc.Metadata) bool {
	ls := strings.ToLower(sensitivity)
	switch ls {
	case fragranceSensitivity:
		return !m.Preferences.FragranceFree
	case alcoholSensitivity:
		return !m.Preferences.AlcoholFree
	}
	return containsFold(m.KeyIngredients, ls) || containsFold(m.ActiveIngredients, ls)
}

func containsFold(ingredients []string, needle string) bool {
	for _, ing := range ingredients {
		if strings.Contains(strings.ToLower(ing), needle) {
			return true
		}
	}
	return false
}
