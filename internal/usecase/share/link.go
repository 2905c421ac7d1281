package share

import (
	"net/url"
	"strings"

	"offer-compare/internal/pkg/errs"
)

// QueryParam carries the token in a share link.
const QueryParam = "shared"

// BuildShareLink returns <origin>/?shared=<token>.
func BuildShareLink(origin, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(origin), "/"))
	if err != nil {
		return "", errs.Wrap(err, "parse share origin")
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errs.Newf("share origin %q must be absolute", origin)
	}
	u.Path = "/"
	u.RawQuery = url.Values{QueryParam: {token}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// LoadSharedState reads the token from query values. A missing or malformed
// token means there is no shared state.
func (c *Codec) LoadSharedState(values url.Values) (*State, bool) {
	token := values.Get(QueryParam)
	if token == "" {
		return nil, false
	}
	st, err := c.Decode(token)
	if err != nil {
		return nil, false
	}
	return st, true
}
