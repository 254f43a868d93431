package api

import (
	"time"

	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/usage"
)

// TrendsRequest defines the payload for the trends endpoint. Unknown codes
// and list sizes pass validation and fall back to defaults; the tags only
// bound length.
type TrendsRequest struct {
	Country             string `json:"country"             validate:"omitempty,max=8"`
	Category            string `json:"category"            validate:"omitempty,max=64"`
	TimeRange           string `json:"timeRange"           validate:"omitempty,max=32"`
	ListSize            int    `json:"listSize"`
	BusinessDescription string `json:"businessDescription" validate:"max=2000"`
}

// ToDomain converts the payload into a domain.Request.
func (r TrendsRequest) ToDomain() domain.Request {
	return domain.Request{
		Country:         r.Country,
		Category:        r.Category,
		TimeRange:       r.TimeRange,
		ListSize:        r.ListSize,
		BusinessContext: r.BusinessDescription,
	}
}

// SessionResponse defines the successful response for the sessions endpoint.
type SessionResponse struct {
	// ClientID identifies the client across sessions; quota is tracked per client
	ClientID string `json:"client_id"`

	// SessionID identifies this session; cached results are kept per session
	SessionID string `json:"session_id"`

	// Token is the bearer token for the other endpoints
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`
}

// KeywordResponse is a breakout keyword with its Google Trends link.
type KeywordResponse struct {
	Keyword       string  `json:"keyword"`
	GrowthPercent float64 `json:"growth"`
	TrendsURL     string  `json:"trends_url"`
}

// ProductResponse is one ranked product in a trends response.
type ProductResponse struct {
	Rank             int               `json:"rank"`
	ProductName      string            `json:"productName"`
	TrendScore       float64           `json:"trendScore"`
	TrendsURL        string            `json:"trends_url"`
	BreakoutKeywords []KeywordResponse `json:"breakoutKeywords"`
	Suppliers        []string          `json:"suppliers"`
	RelatedProducts  []string          `json:"relatedProducts"`
}

// TrendsResponse defines the successful response for the trends endpoint.
type TrendsResponse struct {
	Products      []ProductResponse         `json:"products"`
	Sources       []domain.WebSource        `json:"sources"`
	Insights      *domain.StrategicInsights `json:"insights,omitempty"`
	Variant       string                    `json:"variant"`
	ShareFragment string                    `json:"share_fragment"`
}

// UsageResponse defines the response for the usage endpoint.
type UsageResponse struct {
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	RetryAfter string `json:"retry_after,omitempty"`
}

func newTrendsResponse(req domain.Request, result domain.Result, products []domain.ProductTrend) TrendsResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		keywords := make([]KeywordResponse, 0, len(p.BreakoutKeywords))
		for _, k := range p.BreakoutKeywords {
			keywords = append(keywords, KeywordResponse{
				Keyword:       k.Keyword,
				GrowthPercent: k.GrowthPercent,
				TrendsURL:     domain.ExploreURL(k.Keyword, req.Country),
			})
		}
		out = append(out, ProductResponse{
			Rank:             p.Rank,
			ProductName:      p.ProductName,
			TrendScore:       p.TrendScore,
			TrendsURL:        domain.ExploreURL(p.ProductName, req.Country),
			BreakoutKeywords: keywords,
			Suppliers:        nonNil(p.Suppliers),
			RelatedProducts:  nonNil(p.RelatedProducts),
		})
	}

	sources := result.Sources
	if sources == nil {
		sources = []domain.WebSource{}
	}

	return TrendsResponse{
		Products:      out,
		Sources:       sources,
		Insights:      result.Insights,
		Variant:       domain.VariantFor(req).String(),
		ShareFragment: req.Fragment(),
	}
}

func newUsageResponse(d usage.Decision, now time.Time) UsageResponse {
	resp := UsageResponse{Limit: d.Limit, Remaining: d.Remaining}
	if d.Remaining == 0 && d.RetryAfter.After(now) {
		resp.RetryAfter = d.RetryAfter.UTC().Format(time.RFC3339)
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
