package domain

// Option is a selectable code with its display name.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CategoryEntry is either a single option or a named group of options.
type CategoryEntry struct {
	Option
	Options []Option `json:"options,omitempty"`
}

// IsGroup reports whether the entry is a heading for nested options.
func (e CategoryEntry) IsGroup() bool {
	return len(e.Options) > 0
}

// ListSizeOption is a selectable result size. Zero means "as many as found".
type ListSizeOption struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
}

// Catalog holds the known filter enumerations.
type Catalog struct {
	Countries  []Option         `json:"countries"`
	Categories []CategoryEntry  `json:"categories"`
	TimeRanges []Option         `json:"timeRanges"`
	ListSizes  []ListSizeOption `json:"listSizes"`
}

// Default filter codes.
const (
	AllCategories    = "ALL"
	DefaultCountry   = "SG"
	DefaultTimeRange = "PAST_90_DAYS"
)

// Names used when a code cannot be resolved.
const (
	fallbackCountryName   = "the selected country"
	fallbackCategoryName  = "All Categories"
	fallbackTimeRangeName = "Past 90 Days"
)

// DefaultCatalog returns the enumerations the service ships with.
func DefaultCatalog() Catalog {
	return Catalog{
		Countries: []Option{
			{Code: "SG", Name: "Singapore"},
			{Code: "MY", Name: "Malaysia"},
			{Code: "ID", Name: "Indonesia"},
			{Code: "TH", Name: "Thailand"},
			{Code: "VN", Name: "Vietnam"},
			{Code: "PH", Name: "Philippines"},
			{Code: "BN", Name: "Brunei"},
			{Code: "KH", Name: "Cambodia"},
			{Code: "LA", Name: "Laos"},
			{Code: "MM", Name: "Myanmar"},
		},
		Categories: []CategoryEntry{
			{Option: Option{Code: AllCategories, Name: "All Categories"}},
			{
				Option: Option{Name: "Physical Products"},
				Options: []Option{
					{Code: "ELECTRONICS", Name: "Electronics"},
					{Code: "FASHION", Name: "Fashion & Apparel"},
					{Code: "HOME_KITCHEN", Name: "Home & Kitchen"},
					{Code: "HEALTH_BEAUTY", Name: "Health & Beauty"},
					{Code: "TOYS_GAMES", Name: "Toys & Games"},
					{Code: "FMCG", Name: "FMCG / CPG"},
				},
			},
			{
				Option: Option{Name: "Digital Products"},
				Options: []Option{
					{Code: "SOFTWARE_APPS", Name: "Software & Apps"},
					{Code: "ENTERTAINMENT_MEDIA", Name: "Entertainment & Media (e.g., Streaming)"},
					{Code: "EDUCATION_LEARNING", Name: "Education & Learning (e.g., Courses)"},
				},
			},
			{
				Option: Option{Name: "Services"},
				Options: []Option{
					{Code: "BUSINESS_SERVICES", Name: "Business & Consulting"},
					{Code: "MARKETING_SERVICES", Name: "Marketing & Advertising"},
					{Code: "TECH_SERVICES", Name: "Tech & IT Services"},
					{Code: "TRAVEL_TOURISM", Name: "Travel & Tourism"},
				},
			},
		},
		TimeRanges: []Option{
			{Code: "PAST_30_DAYS", Name: "Past 30 Days"},
			{Code: DefaultTimeRange, Name: "Past 90 Days"},
			{Code: "PAST_12_MONTHS", Name: "Past 12 Months"},
		},
		ListSizes: []ListSizeOption{
			{Value: 0, Name: "As many as found"},
			{Value: 10, Name: "Top 10"},
			{Value: 20, Name: "Top 20"},
			{Value: 30, Name: "Top 30"},
		},
	}
}

// CountryName resolves a country code.
func (c Catalog) CountryName(code string) (string, bool) {
	return findOption(c.Countries, code)
}

// CategoryName resolves a category code, searching inside groups.
// Group headings have no code and never match.
func (c Catalog) CategoryName(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	for _, entry := range c.Categories {
		if entry.IsGroup() {
			if name, ok := findOption(entry.Options, code); ok {
				return name, true
			}
			continue
		}
		if entry.Code == code {
			return entry.Name, true
		}
	}
	return "", false
}

// TimeRangeName resolves a time range code.
func (c Catalog) TimeRangeName(code string) (string, bool) {
	return findOption(c.TimeRanges, code)
}

// IsValidListSize reports whether n is one of the offered list sizes.
func (c Catalog) IsValidListSize(n int) bool {
	for _, s := range c.ListSizes {
		if s.Value == n {
			return true
		}
	}
	return false
}

// Normalize replaces unknown codes with defaults. It never fails: invalid
// input simply means "no filter".
func (c Catalog) Normalize(r Request) Request {
	if _, ok := c.CountryName(r.Country); !ok {
		r.Country = DefaultCountry
	}
	if _, ok := c.CategoryName(r.Category); !ok {
		r.Category = AllCategories
	}
	if _, ok := c.TimeRangeName(r.TimeRange); !ok {
		r.TimeRange = DefaultTimeRange
	}
	if !c.IsValidListSize(r.ListSize) {
		r.ListSize = 0
	}
	return r
}

// Description carries the human-readable names for a request's codes.
type Description struct {
	CountryName   string
	CategoryName  string
	TimeRangeName string
	AllCategories bool
}

// Describe resolves the display names used when prompting the model.
func (c Catalog) Describe(r Request) Description {
	d := Description{
		CountryName:   fallbackCountryName,
		CategoryName:  fallbackCategoryName,
		TimeRangeName: fallbackTimeRangeName,
	}
	if name, ok := c.CountryName(r.Country); ok {
		d.CountryName = name
	}
	if name, ok := c.CategoryName(r.Category); ok {
		d.CategoryName = name
	}
	if name, ok := c.TimeRangeName(r.TimeRange); ok {
		d.TimeRangeName = name
	}
	d.AllCategories = d.CategoryName == fallbackCategoryName
	return d
}

func findOption(options []Option, code string) (string, bool) {
	for _, o := range options {
		if o.Code == code {
			return o.Name, true
		}
	}
	return "", false
}

// IsValidCategory reports whether code names a selectable category.
func (c Catalog) IsValidCategory(code string) bool {
	_, ok := c.CategoryName(code)
	return ok
}
