package router

import "net/url"

// CreateHrefFromURL canonicalizes u into the href form states store: path,
// query and fragment, without scheme or host.
func CreateHrefFromURL(u *url.URL) string {
	href := u.EscapedPath()
	if href == "" {
		href = "/"
	}
	if u.RawQuery != "" {
		href += "?" + u.RawQuery
	} else if u.ForceQuery {
		href += "?"
	}
	if u.Fragment != "" {
		href += "#" + u.EscapedFragment()
	}
	return href
}
