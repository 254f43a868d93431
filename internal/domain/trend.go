package domain

import (
	"fmt"
	"strings"
	"time"
)

// Request is the immutable set of filters for one trend lookup.
// Two requests with identical field values are the same request for caching.
type Request struct {
	Country         string `json:"country"`
	Category        string `json:"category"`
	TimeRange       string `json:"timeRange"`
	ListSize        int    `json:"listSize,omitempty"`
	BusinessContext string `json:"businessDescription,omitempty"`
}

// Personalized reports whether the request carries business context,
// which switches the response to the personalized schema.
func (r Request) Personalized() bool {
	return strings.TrimSpace(r.BusinessContext) != ""
}

// BreakoutKeyword is a specific search term cited as evidence for a trend.
type BreakoutKeyword struct {
	Keyword       string  `json:"keyword"`
	GrowthPercent float64 `json:"growth"`
}

// ProductTrend is one ranked entry of a result.
type ProductTrend struct {
	Rank             int               `json:"rank"`
	ProductName      string            `json:"productName"`
	TrendScore       float64           `json:"trendScore"`
	BreakoutKeywords []BreakoutKeyword `json:"breakoutKeywords"`
	Suppliers        []string          `json:"suppliers"`
	RelatedProducts  []string          `json:"relatedProducts"`
}

// StrategicInsights is only present in personalized results.
type StrategicInsights struct {
	ExecutiveSummary    string   `json:"executiveSummary"`
	MarketInsight       string   `json:"marketInsight"`
	OpportunityGaps     []string `json:"opportunityGaps"`
	ActionableNextSteps []string `json:"actionableNextSteps"`
}

// WebSource is a grounding citation returned alongside the model output.
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Result is the validated view model for one request.
// Insights is non-nil iff the request was personalized.
type Result struct {
	Products []ProductTrend     `json:"products"`
	Sources  []WebSource        `json:"sources"`
	Insights *StrategicInsights `json:"insights,omitempty"`
}

// UsageRecord is the persisted quota counter for one client.
type UsageRecord struct {
	Count       int
	WindowStart time.Time
}

// Caller identifies who is asking. ClientID scopes the persistent usage
// counters, SessionID scopes the response cache.
type Caller struct {
	ClientID  string
	SessionID string
}

// SchemaVariant selects which response shape the model is asked for and
// which shape the extractor accepts.
type SchemaVariant int

const (
	// VariantGeneric is a plain product list.
	VariantGeneric SchemaVariant = iota
	// VariantPersonalized is a product list plus strategic insights.
	VariantPersonalized
)

// VariantFor picks the schema variant for a request.
func VariantFor(r Request) SchemaVariant {
	if r.Personalized() {
		return VariantPersonalized
	}
	return VariantGeneric
}

// String implements fmt.Stringer.
func (v SchemaVariant) String() string {
	switch v {
	case VariantGeneric:
		return "generic"
	case VariantPersonalized:
		return "personalized"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}
