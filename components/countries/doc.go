// Package countries loads the public country list used by the registration
// form, derives the display-ready options (name, ISO code, flag, dial code),
// and exposes search helpers plus small net/http handlers that return JSON
// options for form inputs.
//
// A Loader fetches the list once, in the background, and keeps the result
// together with a loading flag. A failed fetch is logged and leaves the list
// empty; the loading flag is always cleared.
package countries
