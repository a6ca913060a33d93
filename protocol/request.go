package protocol

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nczempin/httpfetch/errors"
)

// ParseTarget splits a plain http URL into host and request path. The port,
// if any, is ignored: every download goes to port 80.
func ParseTarget(rawURL string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Target{}, errors.NewInvalidArgumentError(
			fmt.Sprintf("invalid URL %q", rawURL),
			err,
		)
	}

	if !strings.EqualFold(u.Scheme, "http") {
		return Target{}, errors.NewInvalidArgumentError(
			fmt.Sprintf("unsupported scheme %q in %q", u.Scheme, rawURL),
			nil,
		)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, errors.NewInvalidArgumentError(
			fmt.Sprintf("missing host in %q", rawURL),
			nil,
		)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return Target{
		URL:   u,
		Host:  host,
		Path:  path,
		Query: u.RawQuery,
	}, nil
}

// BuildRequest serializes the GET request sent for target. The query string
// never reaches the request line.
func BuildRequest(target Target) []byte {
	buf := make([]byte, 0, 64+len(target.Path)+len(target.Host))

	buf = fmt.Appendf(buf, "GET %s HTTP/1.1\r\n", target.Path)
	buf = fmt.Appendf(buf, "Host: %s\r\n", target.Host)
	buf = append(buf, "Connection: close\r\n"...)
	buf = append(buf, "\r\n"...)

	return buf
}

// QueryBody returns the text after the first '?' of rawURL, or "" when there
// is none. Parsed GET requests expose it as their body; it is not HTTP
// semantics and BuildRequest never sends it.
func QueryBody(rawURL string) string {
	_, query, found := strings.Cut(rawURL, "?")
	if !found {
		return ""
	}
	// only the piece up to a second '?' is kept
	query, _, _ = strings.Cut(query, "?")
	return query
}
