package weburl

import (
	"net/url"
)

// ToNetURL converts u into a net/url.URL for interop with stdlib-based
// code (net/http clients, anything that takes *url.URL). The conversion
// is lossy where the two models disagree: net/url has no notion of a
// default port to omit, and percent-decodes RawQuery/Fragment itself, so
// callers that need exact wire bytes should keep using u.Href() instead.
func (u *URL) ToNetURL() (*url.URL, error) {
	ret := &url.URL{
		Scheme:   u.Scheme(),
		Path:     u.Path(),
		RawQuery: u.Query(),
		Fragment: u.Fragment(),
	}

	if r := u.storage.Ranges().Username; r.Present || u.storage.Ranges().Password.Present {
		if u.storage.Ranges().Password.Present {
			ret.User = url.UserPassword(u.Username(), u.Password())
		} else {
			ret.User = url.User(u.Username())
		}
	}

	if host := u.Hostname(); host != "" {
		ret.Host = host
		if port := u.Port(); port != "" {
			ret.Host = host + ":" + port
		}
	}

	if u.CannotBeABaseURL() {
		ret.Opaque = u.Path()
	}

	return ret, nil
}

// FromNetURL builds a URL from a net/url.URL, re-parsing its String()
// form through Parse so the result carries weburl's normalized storage
// and validation instead of net/url's looser invariants.
func FromNetURL(nu *url.URL) (*URL, error) {
	return Parse(nu.String(), nil)
}
