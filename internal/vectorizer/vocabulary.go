package vectorizer

// term is one domain vocabulary entry. Slot order follows declaration order.
type term struct {
	text   string
	weight float32
}

// vocabulary is the fixed domain lexicon. Each entry owns one vector slot, so the
// list must never exceed vector.Dim entries. Appending is safe; reordering or
// removing entries invalidates persisted snapshots.
var vocabulary = []term{
	// skin types
	{"oily", 1.8},
	{"dry", 1.8},
	{"combination", 1.6},
	{"normal", 1.4},
	{"sensitive", 2.0},
	{"mature", 1.5},
	{"all", 1.2},

	// concerns
	{"acne", 1.9},
	{"breakouts", 1.8},
	{"blackheads", 1.7},
	{"pores", 1.6},
	{"wrinkles", 1.8},
	{"fine lines", 1.8},
	{"aging", 1.7},
	{"anti-aging", 1.8},
	{"dark spots", 1.8},
	{"hyperpigmentation", 1.9},
	{"dullness", 1.6},
	{"redness", 1.8},
	{"rosacea", 1.9},
	{"dehydration", 1.7},
	{"dryness", 1.7},
	{"oiliness", 1.7},
	{"uneven texture", 1.6},
	{"texture", 1.5},
	{"eczema", 1.9},
	{"sun damage", 1.7},
	{"irritation", 1.7},
	{"dark circles", 1.6},
	{"puffiness", 1.5},

	// key actives
	{"retinol", 2.0},
	{"retinoid", 1.9},
	{"niacinamide", 2.0},
	{"hyaluronic acid", 1.9},
	{"hyaluronic", 1.7},
	{"salicylic acid", 1.9},
	{"salicylic", 1.7},
	{"glycolic acid", 1.8},
	{"glycolic", 1.6},
	{"lactic acid", 1.8},
	{"azelaic acid", 1.8},
	{"benzoyl peroxide", 1.9},
	{"vitamin", 1.6},
	{"vitamin-c", 1.9},
	{"ascorbic acid", 1.8},
	{"ceramides", 1.9},
	{"ceramide", 1.8},
	{"peptides", 1.8},
	{"squalane", 1.6},
	{"centella", 1.7},
	{"cica", 1.6},
	{"aloe", 1.4},
	{"zinc", 1.6},
	{"zinc oxide", 1.7},
	{"spf", 1.8},
	{"bakuchiol", 1.8},
	{"tea tree", 1.6},
	{"aha", 1.6},
	{"bha", 1.7},
	{"antioxidants", 1.5},
	{"glycerin", 1.3},
	{"shea butter", 1.4},

	// product categories
	{"cleanser", 1.7},
	{"serum", 1.7},
	{"moisturizer", 1.7},
	{"sunscreen", 1.8},
	{"toner", 1.6},
	{"exfoliant", 1.6},
	{"mask", 1.5},
	{"eye cream", 1.6},
	{"treatment", 1.5},
	{"oil", 1.4},
	{"essence", 1.4},
	{"balm", 1.4},

	// preferences and sensitivities
	{"cruelty free", 1.5},
	{"vegan", 1.5},
	{"fragrance free", 1.7},
	{"alcohol free", 1.6},
	{"fragrance", 1.6},
	{"alcohol", 1.5},
	{"avoid", 1.3},
	{"gentle", 1.5},
	{"non-comedogenic", 1.7},
	{"hydrating", 1.6},
	{"brightening", 1.6},
	{"soothing", 1.6},
	{"lightweight", 1.3},
}

// slotTable maps a vocabulary term to its slot index and weight.
type slotTable map[string]slot

type slot struct {
	index  int
	weight float32
}

func buildSlotTable(dim int) slotTable {
	t := make(slotTable, len(vocabulary))
	for i, v := range vocabulary {
		if i >= dim {
			break
		}
		t[v.text] = slot{index: i, weight: v.weight}
	}
	return t
}
