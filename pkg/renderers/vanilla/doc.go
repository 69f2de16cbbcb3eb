// Package vanilla renders the registration form as server-side HTML.
//
// The page is a pongo2 template fed with a view built from a
// registration.Form: field values, inline messages for touched fields, the
// country options (or a loading placeholder), the dial code and flag derived
// from the selected country, and an optional submit confirmation. A small
// embedded script validates fields on blur and refreshes the dial code when
// the country changes, and polls the country list when the page was rendered
// before it loaded, using the JSON endpoints served next to the page.
package vanilla
