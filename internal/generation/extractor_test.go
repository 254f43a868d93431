package generation

import (
	"errors"
	"testing"

	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetProduct = `{"rank":1,"productName":"Widget","trendScore":80,"breakoutKeywords":[],"suppliers":[],"relatedProducts":[]}`

const personalizedBody = `{
  "products": [` + widgetProduct + `],
  "insights": {
    "executiveSummary": "Strong demand.",
    "marketInsight": "Buyers value quality.",
    "opportunityGaps": ["gap one", "gap two"],
    "actionableNextSteps": ["step one", "step two"]
  }
}`

func requireKind(t *testing.T, err error, kind ErrorKind) *ExtractionError {
	t.Helper()
	require.Error(t, err)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, kind, ee.Kind, "error: %v", err)
	assert.ErrorIs(t, err, kind.sentinel())
	return ee
}

func TestExtractFencedEmptyProducts(t *testing.T) {
	t.Parallel()

	got, err := Extract(RawResponse{Text: "```json\n{\"products\":[]}\n```"}, domain.VariantGeneric)
	require.NoError(t, err)
	assert.Equal(t, domain.Result{
		Products: []domain.ProductTrend{},
		Sources:  []domain.WebSource{},
	}, got)
}

func TestExtractBracketMatchingInProse(t *testing.T) {
	t.Parallel()

	text := `Here is the result: {"products":[` + widgetProduct + `]} Thanks.`
	got, err := Extract(RawResponse{Text: text}, domain.VariantGeneric)
	require.NoError(t, err)

	require.Len(t, got.Products, 1)
	assert.Equal(t, domain.ProductTrend{
		Rank:             1,
		ProductName:      "Widget",
		TrendScore:       80,
		BreakoutKeywords: []domain.BreakoutKeyword{},
		Suppliers:        []string{},
		RelatedProducts:  []string{},
	}, got.Products[0])
	assert.Nil(t, got.Insights)
}

func TestExtractStageFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		variant domain.SchemaVariant
		kind    ErrorKind
		field   string
	}{
		{name: "empty", text: "", kind: KindEmptyResponse},
		{name: "whitespace only", text: "  \n\t", kind: KindEmptyResponse},
		{name: "prose only", text: "I could not find any trends.", kind: KindNoJSONFound},
		{name: "closing brace before opening", text: "} nothing {", kind: KindNoJSONFound},
		{name: "malformed inside fence", text: "```json\n{\"products\": [}\n```", kind: KindMalformedJSON},
		{name: "malformed in prose", text: `Result: {"products": [1, 2,]}`, kind: KindMalformedJSON},
		{name: "top level array in fence", text: "```json\n[1,2]\n```", kind: KindSchemaMismatch, field: "(root)"},
		{name: "missing products", text: `{"items": []}`, kind: KindSchemaMismatch, field: "products"},
		{name: "null products", text: `{"products": null}`, kind: KindSchemaMismatch, field: "products"},
		{name: "products not array", text: `{"products": {"rank": 1}}`, kind: KindSchemaMismatch, field: "products"},
		{name: "product not object", text: `{"products": ["Widget"]}`, kind: KindSchemaMismatch, field: "products[0]"},
		{
			name:  "missing rank",
			text:  `{"products": [{"productName": "A", "trendScore": 5}]}`,
			kind:  KindSchemaMismatch,
			field: "products[0].rank",
		},
		{
			name:  "string trendScore",
			text:  `{"products": [` + widgetProduct + `, {"rank": 2, "productName": "B", "trendScore": "high"}]}`,
			kind:  KindSchemaMismatch,
			field: "products[1].trendScore",
		},
		{
			name:  "blank productName",
			text:  `{"products": [{"rank": 1, "productName": "  ", "trendScore": 5}]}`,
			kind:  KindSchemaMismatch,
			field: "products[0].productName",
		},
		{
			name:  "wrong typed suppliers",
			text:  `{"products": [{"rank": 1, "productName": "A", "trendScore": 5, "suppliers": "Shopee"}]}`,
			kind:  KindSchemaMismatch,
			field: "products[0].suppliers",
		},
		{
			name:    "personalized without insights",
			text:    `{"products": []}`,
			variant: domain.VariantPersonalized,
			kind:    KindSchemaMismatch,
			field:   "insights",
		},
		{
			name:    "personalized with null insight field",
			text:    `{"products": [], "insights": {"executiveSummary": "x", "marketInsight": null, "opportunityGaps": [], "actionableNextSteps": []}}`,
			variant: domain.VariantPersonalized,
			kind:    KindSchemaMismatch,
			field:   "insights.marketInsight",
		},
		{
			name:    "personalized missing next steps",
			text:    `{"products": [], "insights": {"executiveSummary": "x", "marketInsight": "y", "opportunityGaps": []}}`,
			variant: domain.VariantPersonalized,
			kind:    KindSchemaMismatch,
			field:   "insights.actionableNextSteps",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Extract(RawResponse{Text: tc.text}, tc.variant)
			ee := requireKind(t, err, tc.kind)
			assert.Equal(t, tc.field, ee.Field)
			assert.Equal(t, tc.variant, ee.Variant)
		})
	}
}

func TestExtractPersonalizedMissingInsightsMessage(t *testing.T) {
	t.Parallel()

	_, err := Extract(RawResponse{Text: `{"products":[]}`}, domain.VariantPersonalized)
	ee := requireKind(t, err, KindSchemaMismatch)
	assert.Equal(t, domain.VariantPersonalized, ee.Variant)
	assert.Equal(t, "insights", ee.Field)
	assert.Equal(t, "schema mismatch (personalized): insights: missing", err.Error())
}

func TestExtractPersonalized(t *testing.T) {
	t.Parallel()

	sources := []domain.WebSource{{URI: "https://trends.google.com", Title: "Google Trends"}}
	got, err := Extract(RawResponse{Text: "```json\n" + personalizedBody + "\n```", Sources: sources}, domain.VariantPersonalized)
	require.NoError(t, err)

	require.NotNil(t, got.Insights)
	assert.Equal(t, "Strong demand.", got.Insights.ExecutiveSummary)
	assert.Equal(t, []string{"step one", "step two"}, got.Insights.ActionableNextSteps)
	assert.Equal(t, sources, got.Sources)

	sources[0].Title = "mutated"
	assert.Equal(t, "Google Trends", got.Sources[0].Title, "sources are copied")
}

func TestExtractGenericIgnoresInsights(t *testing.T) {
	t.Parallel()

	got, err := Extract(RawResponse{Text: personalizedBody}, domain.VariantGeneric)
	require.NoError(t, err)
	assert.Nil(t, got.Insights)
}

func TestExtractCoercesOptionalArrays(t *testing.T) {
	t.Parallel()

	text := `{"products": [{"rank": 1, "productName": "A", "trendScore": 70, "suppliers": null,
		"breakoutKeywords": [{"keyword": "a pro", "growth": 120.5}, {"keyword": "a mini", "growth": -4}]}]}`
	got, err := Extract(RawResponse{Text: text}, domain.VariantGeneric)
	require.NoError(t, err)

	p := got.Products[0]
	assert.Equal(t, []string{}, p.Suppliers)
	assert.Equal(t, []string{}, p.RelatedProducts)
	assert.Equal(t, []domain.BreakoutKeyword{
		{Keyword: "a pro", GrowthPercent: 120.5},
		{Keyword: "a mini", GrowthPercent: -4},
	}, p.BreakoutKeywords)
}

func TestExtractEmptyFenceFallsBackToBraces(t *testing.T) {
	t.Parallel()

	text := "```json\n```\nActually: {\"products\": []}"
	got, err := Extract(RawResponse{Text: text}, domain.VariantGeneric)
	require.NoError(t, err)
	assert.Empty(t, got.Products)
}

func TestExtractPrefersFenceOverSurroundingBraces(t *testing.T) {
	t.Parallel()

	text := "Note {see below}\n```json\n{\"products\": [" + widgetProduct + "]}\n```\n{trailing}"
	got, err := Extract(RawResponse{Text: text}, domain.VariantGeneric)
	require.NoError(t, err)
	assert.Len(t, got.Products, 1)
}

func TestExtractEmptyResponseCarriesFinishReason(t *testing.T) {
	t.Parallel()

	_, err := Extract(RawResponse{FinishReason: "SAFETY"}, domain.VariantGeneric)
	requireKind(t, err, KindEmptyResponse)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestExtractStrictRanking(t *testing.T) {
	t.Parallel()

	text := `{"products": [
		{"rank": 1, "productName": "A", "trendScore": 90},
		{"rank": 3, "productName": "B", "trendScore": 80}
	]}`

	_, err := Extract(RawResponse{Text: text}, domain.VariantGeneric)
	require.NoError(t, err, "lenient mode checks presence only")

	strict := NewExtractor(ExtractorOptions{StrictRanking: true})
	_, err = strict.Extract(RawResponse{Text: text}, domain.VariantGeneric)
	ee := requireKind(t, err, KindSchemaMismatch)
	assert.Equal(t, "rank", ee.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidRanking)
}

func TestExtractionErrorDoesNotMatchOtherKinds(t *testing.T) {
	t.Parallel()

	err := error(&ExtractionError{Kind: KindNoJSONFound})
	assert.ErrorIs(t, err, ErrNoJSONFound)
	assert.False(t, errors.Is(err, ErrMalformedJSON))
	assert.False(t, errors.Is(err, ErrModelUnavailable))
	assert.Equal(t, "kind(42)", ErrorKind(42).String())
}
