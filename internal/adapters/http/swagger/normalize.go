package swagger

import "strings"

// themeToken is the path segment replaced by the configured theme path.
const themeToken = "theme"

// Normalize turns a requested file path into the cache/bundle key: it drops
// everything from the first '?', removes the leading slash and replaces the
// first "theme" with themePath. ok is false when the result contains "..".
func Normalize(p, themePath string) (key string, ok bool) {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimPrefix(p, "/")
	if themePath != "" {
		p = strings.Replace(p, themeToken, themePath, 1)
	}
	if strings.Contains(p, "..") {
		return "", false
	}
	return p, true
}
