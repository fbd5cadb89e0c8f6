package format

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/ranking"
)

// EmptyChatMessage is returned when a retrieval finds nothing.
const EmptyChatMessage = "I couldn't find products matching your criteria. " +
	"Try adjusting your preferences or browsing our full catalog."

// chatLabels head the first three recommendations.
var chatLabels = []string{"Best Match", "Alternative Option", "Budget-Friendly Option"}

const (
	chatMaxProducts = 3
	chatMaxReasons  = 3
)

// Chat renders the top recommendations as conversational text.
func Chat(resp *ranking.Response) string {
	if len(resp.Products) == 0 {
		return EmptyChatMessage
	}

	var b strings.Builder
	b.WriteString("Here are my top recommendations for you:\n")
	for i := range resp.Products {
		if i == chatMaxProducts {
			break
		}
		r := &resp.Products[i]
		m := &r.Metadata

		fmt.Fprintf(&b, "\n**%s**: %s\n", chatLabels[i], strings.TrimSpace(m.Brand+" "+m.Name))
		fmt.Fprintf(&b, "Price: $%.2f | Rating: %.1f/5\n", m.Price, m.Rating)
		if reasons := r.MatchReasons; len(reasons) > 0 {
			if len(reasons) > chatMaxReasons {
				reasons = reasons[:chatMaxReasons]
			}
			fmt.Fprintf(&b, "Why: %s\n", strings.Join(reasons, "; "))
		}
		if m.ProductURL != "" {
			fmt.Fprintf(&b, "View: %s\n", m.ProductURL)
		}
	}
	return b.String()
}
