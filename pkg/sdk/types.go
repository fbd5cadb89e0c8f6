package prodex

import (
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/ranking"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
	"github.com/kailas-cloud/prodex/internal/format"
)

// Catalog and query types.
type (
	Product     = product.Product
	Preferences = product.Preferences
	Survey      = survey.Survey
	Options     = ranking.Options
	Response    = ranking.Response
	Result      = ranking.Result
)

// Source filter values for Options.SourceFilter.
const (
	SourceAll             = ranking.SourceAll
	SourceMarketplaceOnly = ranking.SourceMarketplaceOnly
	SourceDiscoveryOnly   = ranking.SourceDiscoveryOnly
)

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	RunID    string
	Trigger  string // initial, drift, manual, none
	Count    int
	Skipped  int
	Duration time.Duration
}

// Chat renders a response as a short conversational recommendation.
func Chat(resp *Response) string {
	return format.Chat(resp)
}

// JSON returns the API projection of a response, ready for encoding/json.
func JSON(resp *Response) format.Response {
	return format.JSON(resp)
}
