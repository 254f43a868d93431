package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Share-link parameter names.
const (
	ParamCountry             = "country"
	ParamCategory            = "category"
	ParamTimeRange           = "timeRange"
	ParamListSize            = "listSize"
	ParamBusinessDescription = "businessDescription"
)

// Fragment encodes the request as URL fragment parameters so a result page
// can be shared and reopened with the same filters.
func (r Request) Fragment() string {
	v := url.Values{}
	v.Set(ParamCountry, r.Country)
	v.Set(ParamCategory, r.Category)
	if r.TimeRange != "" {
		v.Set(ParamTimeRange, r.TimeRange)
	}
	if r.ListSize > 0 {
		v.Set(ParamListSize, strconv.Itoa(r.ListSize))
	}
	if r.Personalized() {
		v.Set(ParamBusinessDescription, r.BusinessContext)
	}
	return v.Encode()
}

// RequestFromValues reads filter parameters. Values are percent-decoded by
// url.Values already; a malformed listSize is treated as absent.
func RequestFromValues(v url.Values) Request {
	r := Request{
		Country:         v.Get(ParamCountry),
		Category:        v.Get(ParamCategory),
		TimeRange:       v.Get(ParamTimeRange),
		BusinessContext: v.Get(ParamBusinessDescription),
	}
	if n, err := strconv.Atoi(v.Get(ParamListSize)); err == nil && n > 0 {
		r.ListSize = n
	}
	return r
}

// ParseFragment decodes a share fragment, with or without the leading '#'.
func ParseFragment(fragment string) (Request, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return Request{}, err
	}
	return RequestFromValues(v), nil
}
