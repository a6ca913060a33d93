package protocol

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nczempin/httpfetch/errors"
)

// Request line entries stored in a parsed request's Headers. They overwrite
// real headers of the same name.
const (
	methodHeader  = "Method"
	versionHeader = "HttpVersion"
)

// ParseRequest parses a raw GET or POST request. A GET request's Body is its
// URL query (see QueryBody); a POST request's Body is its last line. Headers
// also carry the method and version under "Method" and "HttpVersion".
func ParseRequest(raw string) (*HttpRequest, error) {
	lines := SplitLines(raw)

	req, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, errors.NewParserError("could not parse the raw request", err)
	}

	block, err := ParseHeaderBlock(lines)
	if err != nil {
		return nil, errors.NewParserError("could not parse the raw request", err)
	}
	req.Headers = block.Headers
	req.Headers[methodHeader] = req.Method.String()
	req.Headers[versionHeader] = req.HttpVersion

	switch req.Method {
	case MethodGet:
		req.Body = QueryBody(req.Url)
	case MethodPost:
		req.Body = lines[len(lines)-1]
	}

	return req, nil
}

func parseRequestLine(line string) (*HttpRequest, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 3 {
		return nil, errors.NewProtocolError(
			errors.ProtocolErrorMalformedRequestLine,
			fmt.Sprintf("request line is not in a valid format: %q", line),
		)
	}

	req := &HttpRequest{
		Url:         strings.TrimSpace(tokens[1]),
		HttpVersion: strings.TrimSpace(tokens[2]),
	}

	switch method := strings.TrimSpace(tokens[0]); method {
	case "GET":
		req.Method = MethodGet
	case "POST":
		req.Method = MethodPost
	default:
		return nil, errors.NewProtocolError(
			errors.ProtocolErrorMalformedRequestLine,
			fmt.Sprintf("unsupported method %q", method),
		)
	}

	uri, err := url.Parse(req.Url)
	if err != nil {
		perr := errors.NewProtocolError(
			errors.ProtocolErrorMalformedRequestLine,
			fmt.Sprintf("invalid request target %q", req.Url),
		)
		perr.UnderlyingErr = err
		return nil, perr
	}
	req.URI = uri

	return req, nil
}

// String renders the request line, the headers and, for POST, the body
func (r *HttpRequest) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s %s\r\n", r.Method, r.Url, r.HttpVersion)
	for _, key := range r.Headers.Keys() {
		if key == methodHeader || key == versionHeader {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\r\n", key, r.Headers[key])
	}

	if r.Method == MethodPost {
		sb.WriteString("\r\n")
		sb.WriteString(r.Body)
	}

	return strings.TrimSpace(sb.String())
}
