package generation

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/trend-finder/internal/domain"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

const (
	genericTemplate      = "generic.tmpl"
	personalizedTemplate = "personalized.tmpl"

	allCategoriesInstruction = "across all consumer product and service categories"
)

// Nominal list length when the request does not fix one.
const (
	DefaultMinProducts = 20
	DefaultMaxProducts = 30
)

// promptData is the data passed to the prompt templates.
type promptData struct {
	Country             string
	TimeRange           string
	CategoryInstruction string
	BusinessDescription string
	Count               CountRange
}

// Builder renders prompts for trend requests.
type Builder struct {
	catalog   domain.Catalog
	templates *template.Template
}

// NewBuilder parses the embedded prompt templates.
func NewBuilder(catalog domain.Catalog) (*Builder, error) {
	tmpl, err := template.New("prompts").ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt templates: %v", ErrInvalidConfig, err)
	}
	return &Builder{catalog: catalog, templates: tmpl}, nil
}

// Build renders the prompt for req and selects its schema variant.
// Codes are resolved to display names through the catalog; unknown codes
// fall back to generic wording rather than failing.
func (b *Builder) Build(req domain.Request) (Prompt, error) {
	variant := domain.VariantFor(req)
	desc := b.catalog.Describe(req)

	data := promptData{
		Country:             desc.CountryName,
		TimeRange:           desc.TimeRangeName,
		CategoryInstruction: categoryInstruction(desc),
		BusinessDescription: strings.TrimSpace(req.BusinessContext),
		Count:               expectedCount(req),
	}

	name := genericTemplate
	if variant == domain.VariantPersonalized {
		name = personalizedTemplate
	}

	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}

	return Prompt{
		Text:          strings.TrimSpace(buf.String()),
		Variant:       variant,
		ExpectedCount: data.Count,
	}, nil
}

func categoryInstruction(d domain.Description) string {
	if d.AllCategories {
		return allCategoriesInstruction
	}
	return fmt.Sprintf("in the '%s' category", d.CategoryName)
}

func expectedCount(req domain.Request) CountRange {
	if req.ListSize > 0 {
		return CountRange{Min: req.ListSize, Max: req.ListSize}
	}
	return CountRange{Min: DefaultMinProducts, Max: DefaultMaxProducts}
}
