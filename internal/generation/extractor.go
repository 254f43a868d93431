package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/trend-finder/internal/domain"
)

// fencePattern matches a ```json fenced block and captures its interior.
var fencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractorOptions tunes validation strictness.
type ExtractorOptions struct {
	// StrictRanking rejects results whose ranks are not exactly 1..N in
	// order. Off by default: the model is instructed to rank correctly and
	// only field presence is checked.
	StrictRanking bool
}

// Extractor parses raw model output into a domain.Result.
type Extractor struct {
	opts ExtractorOptions
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ExtractorOptions) *Extractor {
	return &Extractor{opts: opts}
}

// Extract runs the default, non-strict extraction pipeline.
func Extract(raw RawResponse, variant domain.SchemaVariant) (domain.Result, error) {
	return NewExtractor(ExtractorOptions{}).Extract(raw, variant)
}

// Extract runs the pipeline isolate → parse → validate → coerce. Each stage
// has its own failure kind; see ExtractionError.
func (e *Extractor) Extract(raw RawResponse, variant domain.SchemaVariant) (domain.Result, error) {
	if strings.TrimSpace(raw.Text) == "" {
		var cause error
		if raw.FinishReason != "" {
			cause = fmt.Errorf("finish reason %s", raw.FinishReason)
		}
		return domain.Result{}, &ExtractionError{Kind: KindEmptyResponse, Variant: variant, Err: cause}
	}

	candidate := isolateJSON(raw.Text)
	if candidate == "" {
		return domain.Result{}, &ExtractionError{Kind: KindNoJSONFound, Variant: variant}
	}

	if !json.Valid([]byte(candidate)) {
		// Decode again only to get a descriptive syntax error.
		var v any
		err := json.Unmarshal([]byte(candidate), &v)
		return domain.Result{}, &ExtractionError{Kind: KindMalformedJSON, Variant: variant, Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &top); err != nil {
		return domain.Result{}, schemaMismatch(variant, "(root)", errors.New("top-level value is not an object"))
	}

	products, err := decodeProducts(top, variant)
	if err != nil {
		return domain.Result{}, err
	}

	result := domain.Result{
		Products: products,
		Sources:  copySources(raw.Sources),
	}

	if variant == domain.VariantPersonalized {
		insights, err := decodeInsights(top, variant)
		if err != nil {
			return domain.Result{}, err
		}
		result.Insights = insights
	}

	if e.opts.StrictRanking {
		if err := domain.CheckRanking(products); err != nil {
			return domain.Result{}, schemaMismatch(variant, "rank", err)
		}
	}

	return result, nil
}

// isolateJSON returns the interior of a ```json fence if one exists and is
// non-empty, otherwise the span from the first '{' to the last '}'.
func isolateJSON(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner
		}
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last < first {
		return ""
	}
	return strings.TrimSpace(text[first : last+1])
}

func decodeProducts(top map[string]json.RawMessage, variant domain.SchemaVariant) ([]domain.ProductTrend, error) {
	rawList, ok := top["products"]
	if !ok || isNull(rawList) {
		return nil, schemaMismatch(variant, "products", errors.New("missing"))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawList, &items); err != nil {
		return nil, schemaMismatch(variant, "products", errors.New("not an array"))
	}

	products := make([]domain.ProductTrend, 0, len(items))
	for i, item := range items {
		p, err := decodeProduct(item, variant, fmt.Sprintf("products[%d]", i))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeProduct(raw json.RawMessage, variant domain.SchemaVariant, path string) (domain.ProductTrend, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.ProductTrend{}, schemaMismatch(variant, path, errors.New("not an object"))
	}

	var p domain.ProductTrend
	if err := requireField(fields, "rank", &p.Rank); err != nil {
		return p, schemaMismatch(variant, path+".rank", err)
	}
	if err := requireField(fields, "productName", &p.ProductName); err != nil {
		return p, schemaMismatch(variant, path+".productName", err)
	}
	if strings.TrimSpace(p.ProductName) == "" {
		return p, schemaMismatch(variant, path+".productName", errors.New("empty"))
	}
	if err := requireField(fields, "trendScore", &p.TrendScore); err != nil {
		return p, schemaMismatch(variant, path+".trendScore", err)
	}

	var keywords []breakoutKeyword
	if err := optionalField(fields, "breakoutKeywords", &keywords); err != nil {
		return p, schemaMismatch(variant, path+".breakoutKeywords", err)
	}
	p.BreakoutKeywords = make([]domain.BreakoutKeyword, 0, len(keywords))
	for _, k := range keywords {
		p.BreakoutKeywords = append(p.BreakoutKeywords, domain.BreakoutKeyword{
			Keyword:       k.Keyword,
			GrowthPercent: k.Growth,
		})
	}

	if err := optionalField(fields, "suppliers", &p.Suppliers); err != nil {
		return p, schemaMismatch(variant, path+".suppliers", err)
	}
	if err := optionalField(fields, "relatedProducts", &p.RelatedProducts); err != nil {
		return p, schemaMismatch(variant, path+".relatedProducts", err)
	}
	if p.Suppliers == nil {
		p.Suppliers = []string{}
	}
	if p.RelatedProducts == nil {
		p.RelatedProducts = []string{}
	}

	return p, nil
}

// breakoutKeyword is the wire shape the model is told to emit.
type breakoutKeyword struct {
	Keyword string  `json:"keyword"`
	Growth  float64 `json:"growth"`
}

func decodeInsights(top map[string]json.RawMessage, variant domain.SchemaVariant) (*domain.StrategicInsights, error) {
	raw, ok := top["insights"]
	if !ok || isNull(raw) {
		return nil, schemaMismatch(variant, "insights", errors.New("missing"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, schemaMismatch(variant, "insights", errors.New("not an object"))
	}

	var in domain.StrategicInsights
	checks := []struct {
		name string
		dst  any
	}{
		{"executiveSummary", &in.ExecutiveSummary},
		{"marketInsight", &in.MarketInsight},
		{"opportunityGaps", &in.OpportunityGaps},
		{"actionableNextSteps", &in.ActionableNextSteps},
	}
	for _, c := range checks {
		if err := requireField(fields, c.name, c.dst); err != nil {
			return nil, schemaMismatch(variant, "insights."+c.name, err)
		}
	}

	return &in, nil
}

// requireField decodes fields[name] into dst, failing if the field is
// absent, null or of the wrong type.
func requireField(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return errors.New("missing")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("wrong type: %w", err)
	}
	return nil
}

// optionalField is requireField without the presence requirement.
func optionalField(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("wrong type: %w", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func copySources(in []domain.WebSource) []domain.WebSource {
	out := make([]domain.WebSource, len(in))
	copy(out, in)
	return out
}
