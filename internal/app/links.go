package app

import "strings"

// LinkResolver turns stored file references into client URLs.
// Resolution happens on every read so a changed PUBLIC_BASE_URL applies to old rows too.
type LinkResolver struct {
	base string
}

func NewLinkResolver(baseURL string) LinkResolver {
	return LinkResolver{base: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Resolve returns nil for a missing reference. Absolute URLs (rows written by
// older deployments) pass through unchanged. Without a base URL the result is
// root-relative.
func (l LinkResolver) Resolve(ref *string) *string {
	if ref == nil {
		return nil
	}
	s := strings.TrimSpace(*ref)
	if s == "" {
		return nil
	}
	low := strings.ToLower(s)
	if strings.HasPrefix(low, "http://") || strings.HasPrefix(low, "https://") {
		return &s
	}
	s = strings.ReplaceAll(s, `\`, "/")
	for strings.HasPrefix(s, "./") {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")
	out := l.base + "/" + s
	return &out
}
