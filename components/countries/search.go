package countries

import (
	"sort"
	"strings"
)

// Option is the value/label pair served to select inputs, carrying the
// derived flag and dial code alongside.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Code     string `json:"code,omitempty"`
	Flag     string `json:"flag,omitempty"`
	DialCode string `json:"dial_code,omitempty"`
}

// OptionFor maps a country to its select option. The option value is the
// display name, which is what the form submits.
func OptionFor(country Country) Option {
	return Option{
		Value:    country.Name,
		Label:    country.Label(),
		Code:     country.Code,
		Flag:     country.Flag,
		DialCode: country.DialCode,
	}
}

// Search filters list by a case-insensitive match on name or code. Prefix
// matches sort before inner matches; ties keep name order.
func Search(list []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(list) <= limit {
				return append([]Country{}, list...)
			}
			return append([]Country{}, list[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCountry, 0, 16)
	for _, country := range list {
		name := strings.ToLower(country.Name)
		code := strings.ToLower(country.Code)
		if !strings.Contains(name, q) && code != q {
			continue
		}
		matches = append(matches, matchedCountry{
			country:  country,
			isPrefix: strings.HasPrefix(name, q) || code == q,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].country.Name < matches[j].country.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Country, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.country)
	}
	return out
}

func SearchOptions(list []Country, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, country := range results {
		out = append(out, OptionFor(country))
	}
	return out
}

type matchedCountry struct {
	country  Country
	isPrefix bool
}
