package protocol

import (
	"strconv"
	"strings"

	"github.com/indigo-web/utils/uf"
	"github.com/nczempin/httpfetch/errors"
)

const contentLengthKey = "Content-Length"

// lineBreaks folds CRLF and the two-character sequence `\n` into a plain LF
var lineBreaks = strings.NewReplacer("\r\n", "\n", `\n`, "\n")

// SplitLines normalizes line endings, drops one trailing line terminator and
// splits raw into lines.
func SplitLines(raw string) []string {
	normalized := lineBreaks.Replace(raw)
	normalized = strings.TrimSuffix(normalized, "\n")
	return strings.Split(normalized, "\n")
}

// ParseResponse parses an accumulated response. The result does not share
// memory with raw.
func ParseResponse(raw []byte) (*HttpResponse, error) {
	return parseResponse(string(raw))
}

// ParseResponseUnsafe parses raw without copying it first. Headers and the
// status line may point into raw, so raw must not be modified while the
// response is in use.
func ParseResponseUnsafe(raw []byte) (*HttpResponse, error) {
	return parseResponse(uf.B2S(raw))
}

func parseResponse(raw string) (*HttpResponse, error) {
	lines := SplitLines(raw)

	statusLine, err := ParseStatusLine(lines[0])
	if err != nil {
		return nil, errors.NewParserError("could not parse the raw response", err)
	}

	block, err := ParseHeaderBlock(lines)
	if err != nil {
		return nil, errors.NewParserError("could not parse the raw response", err)
	}

	contentLength := 0
	if v, ok := block.Headers.Get(contentLengthKey); ok {
		contentLength, err = strconv.Atoi(v)
		if err != nil {
			return nil, errors.NewParserError(
				"could not parse the raw response",
				errors.NewProtocolError(errors.ProtocolErrorInvalidContentLength, "Content-Length is not an integer: "+strconv.Quote(v)),
			)
		}
	}

	var body strings.Builder
	for i := block.End + 2; i < len(lines); i++ {
		body.WriteString(lines[i])
		body.WriteByte('\n')
	}

	return &HttpResponse{
		StatusLine:    statusLine,
		Headers:       block.Headers,
		ContentLength: contentLength,
		Body:          body.String(),
	}, nil
}

// String renders the headers, a blank line and the body
func (r *HttpResponse) String() string {
	var sb strings.Builder

	for _, key := range r.Headers.Keys() {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(r.Headers[key])
		sb.WriteString("\r\n")
	}

	sb.WriteString("\r\n")
	sb.WriteString(r.Body)

	return strings.TrimSpace(sb.String())
}
