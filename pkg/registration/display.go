package registration

import "github.com/goliatone/go-regform/components/countries"

// Display is the dial code and flag shown next to the phone input.
type Display struct {
	DialCode string `json:"dial_code"`
	Flag     string `json:"flag"`
}

// Empty reports whether there is nothing to show.
func (d Display) Empty() bool {
	return d.DialCode == "" && d.Flag == ""
}

// Derive looks up selected among options. Unknown selections, including the
// empty placeholder, yield an empty Display.
func Derive(options []countries.Country, selected string) Display {
	country, ok := countries.Find(options, selected)
	if !ok {
		return Display{}
	}
	return Display{DialCode: country.DialCode, Flag: country.Flag}
}
