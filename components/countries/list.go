package countries

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Country is the display-ready form of one fetched country record.
type Country struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Flag     string `json:"flag"`
	DialCode string `json:"dial_code"`
}

// Label is the text shown for the country in a select control.
func (c Country) Label() string {
	if c.Code == "" {
		return c.Name
	}
	return c.Name + " (" + c.Code + ")"
}

// Record mirrors the subset of the countries API payload the loader reads.
type Record struct {
	Flags struct {
		SVG string `json:"svg"`
	} `json:"flags"`
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
	IDD  struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes,omitempty"`
	} `json:"idd"`
}

var (
	namePolicyOnce sync.Once
	namePolicy     *bluemonday.Policy
)

// DialCode joins the dialing root with the first suffix. Countries with
// several suffixes (area codes) only keep the first one.
func DialCode(root string, suffixes []string) string {
	if len(suffixes) == 0 {
		return root
	}
	return root + suffixes[0]
}

// FromRecord converts a raw API record into a Country.
func FromRecord(rec Record) Country {
	return Country{
		Name:     sanitizeName(rec.Name.Common),
		Code:     strings.ToUpper(strings.TrimSpace(rec.CCA2)),
		Flag:     sanitizeFlagURL(rec.Flags.SVG),
		DialCode: DialCode(rec.IDD.Root, rec.IDD.Suffixes),
	}
}

// Decode reads the API payload and returns one Country per record in the
// order received. Records repeating a code already seen are skipped.
func Decode(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("countries: decode payload: %w", err)
	}

	out := make([]Country, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		country := FromRecord(rec)
		if country.Code != "" {
			if _, ok := seen[country.Code]; ok {
				continue
			}
			seen[country.Code] = struct{}{}
		}
		out = append(out, country)
	}
	return out, nil
}

// Find returns the country whose Name equals name exactly.
func Find(list []Country, name string) (Country, bool) {
	if name == "" {
		return Country{}, false
	}
	for _, country := range list {
		if country.Name == name {
			return country, true
		}
	}
	return Country{}, false
}

func sanitizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := nameSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func nameSanitizer() *bluemonday.Policy {
	namePolicyOnce.Do(func() {
		namePolicy = bluemonday.StrictPolicy()
	})
	return namePolicy
}

func sanitizeFlagURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}
	return parsed.String()
}
