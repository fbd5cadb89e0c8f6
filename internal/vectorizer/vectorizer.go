// Package vectorizer maps product and survey text onto fixed-dimension vectors
// without any model: a weighted domain vocabulary plus a hashed fallback.
package vectorizer

import (
	"hash/fnv"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
)

// oovWeight is the per-occurrence weight of out-of-vocabulary terms.
const oovWeight = 0.5

// Field repetition weights for structured product text.
const (
	categoryRepeat   = 2
	skinTypeRepeat   = 2
	concernRepeat    = 3
	ingredientRepeat = 3
	preferenceRepeat = 1
)

// Field repetition weights for survey text.
const (
	surveySkinTypeRepeat   = 3
	surveyConcernRepeat    = 4
	surveyGoalRepeat       = 2
	surveyPreferenceRepeat = 2
)

// Fields is the structured product input for EmbedStructured.
type Fields struct {
	Name           string
	Description    string
	Category       string
	SkinTypes      []string
	Concerns       []string
	KeyIngredients []string
	Preferences    product.Preferences
}

// FieldsFromProduct extracts the embedding fields of a catalog item.
func FieldsFromProduct(p *product.Product) Fields {
	return Fields{
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		SkinTypes:      p.SkinTypes,
		Concerns:       p.Concerns,
		KeyIngredients: p.KeyIngredients,
		Preferences:    p.Preferences,
	}
}

// Vectorizer is a deterministic, stateless text embedder. Safe for concurrent use.
type Vectorizer struct {
	dim   int
	slots slotTable
}

// New creates a Vectorizer producing vector.Dim-dimensional vectors.
func New() *Vectorizer {
	return &Vectorizer{dim: vector.Dim, slots: buildSlotTable(vector.Dim)}
}

// Dim returns the output dimension.
func (v *Vectorizer) Dim() int { return v.dim }

// Embed maps free text to a unit vector, or the zero vector when the text carries no terms.
func (v *Vectorizer) Embed(text string) vector.Vector {
	out := make(vector.Vector, v.dim)
	freq, order := termFrequencies(tokenize(text))

	for _, t := range order {
		tf := float32(freq[t])
		if s, ok := v.slots[t]; ok {
			out[s.index] += tf * s.weight
			continue
		}
		out[hashSlot(t, v.dim)] += tf * oovWeight
	}
	return out.Normalize()
}

// EmbedStructured embeds product fields with per-field repetition weights.
func (v *Vectorizer) EmbedStructured(f Fields) vector.Vector {
	parts := make([]string, 0, 8+len(f.SkinTypes)+len(f.Concerns)+len(f.KeyIngredients))
	parts = append(parts, repeat(f.Category, categoryRepeat))
	for _, s := range f.SkinTypes {
		parts = append(parts, repeat(s, skinTypeRepeat))
	}
	for _, c := range f.Concerns {
		parts = append(parts, repeat(c, concernRepeat))
	}
	for _, i := range f.KeyIngredients {
		parts = append(parts, repeat(i, ingredientRepeat))
	}
	for _, flag := range f.Preferences.Flags() {
		if flag.Enabled {
			parts = append(parts, repeat(decamel(flag.Name), preferenceRepeat))
		}
	}
	parts = append(parts, f.Name, f.Description)
	return v.Embed(join(parts))
}

// EmbedSurvey embeds a user profile. Sensitivities become "avoid X" and "no X"
// phrases so they pull the vector toward avoidance terms instead of the ingredient.
func (v *Vectorizer) EmbedSurvey(s *survey.Survey) vector.Vector {
	parts := make([]string, 0, 8+len(s.Concerns)+len(s.Goals)+2*len(s.Sensitivities))
	parts = append(parts, repeat(s.SkinType, surveySkinTypeRepeat))
	for _, c := range s.Concerns {
		parts = append(parts, repeat(c, surveyConcernRepeat))
	}
	for _, g := range s.Goals {
		parts = append(parts, repeat(g, surveyGoalRepeat))
	}
	for _, sens := range s.Sensitivities {
		sens = strings.TrimSpace(sens)
		if sens == "" {
			continue
		}
		parts = append(parts, "avoid "+sens, "no "+sens)
	}
	prefs := product.Preferences{
		CrueltyFree:   s.Preferences.CrueltyFree,
		Vegan:         s.Preferences.Vegan,
		FragranceFree: s.Preferences.FragranceFree,
		AlcoholFree:   s.Preferences.AlcoholFree,
	}
	for _, flag := range prefs.Flags() {
		if flag.Enabled {
			parts = append(parts, repeat(decamel(flag.Name), surveyPreferenceRepeat))
		}
	}
	return v.Embed(join(parts))
}

// EmbedQuery embeds a free-text search query.
func (v *Vectorizer) EmbedQuery(query string) vector.Vector {
	return v.Embed(query)
}

func hashSlot(t string, dim int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(t))
	return int(h.Sum32() % uint32(dim)) //nolint:gosec // dim is a small positive constant
}

func join(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}
