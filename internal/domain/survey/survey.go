// Package survey describes the user skin profile used as the primary retrieval query.
package survey

// BudgetRange is a named price bracket.
type BudgetRange string

// Budget brackets. Bounds overlap: a $28 product is both budget and mid.
const (
	BudgetLow     BudgetRange = "budget"
	BudgetMid     BudgetRange = "mid"
	BudgetPremium BudgetRange = "premium"
)

// Contains reports whether price falls inside the bracket.
// budget=[0,30], mid=[25,50], premium=[45,inf). Unknown brackets match nothing.
func (b BudgetRange) Contains(price float64) bool {
	switch b {
	case BudgetLow:
		return price >= 0 && price <= 30
	case BudgetMid:
		return price >= 25 && price <= 50
	case BudgetPremium:
		return price >= 45
	default:
		return false
	}
}

// Preferences are the traits a user asks for.
type Preferences struct {
	CrueltyFree   bool        `json:"crueltyFree" yaml:"crueltyFree"`
	Vegan         bool        `json:"vegan" yaml:"vegan"`
	FragranceFree bool        `json:"fragranceFree" yaml:"fragranceFree"`
	AlcoholFree   bool        `json:"alcoholFree" yaml:"alcoholFree"`
	BudgetRange   BudgetRange `json:"budgetRange,omitempty" yaml:"budgetRange"`
}

// Survey is the query profile. Every field is optional.
type Survey struct {
	SkinType      string      `json:"skinType,omitempty" yaml:"skinType"`
	Concerns      []string    `json:"concerns,omitempty" yaml:"concerns"`
	Sensitivities []string    `json:"sensitivities,omitempty" yaml:"sensitivities"`
	Goals         []string    `json:"goals,omitempty" yaml:"goals"`
	Preferences   Preferences `json:"preferences" yaml:"preferences"`
}
