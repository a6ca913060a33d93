package protocol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nczempin/httpfetch/errors"
)

const defaultHttpVersion = "HTTP/1.1"

var (
	versionPattern    = regexp.MustCompile(`HTTP/\d.\d`)
	statusCodePattern = regexp.MustCompile(`[1-5]\d\d`)
)

// ParseStatusLine parses "HTTP/1.1 200 OK". The line is split on single
// spaces and needs at least three tokens.
func ParseStatusLine(line string) (StatusLine, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 3 {
		return StatusLine{}, errors.NewProtocolError(
			errors.ProtocolErrorMalformedStatusLine,
			fmt.Sprintf("status line is not in a valid format: %q", line),
		)
	}

	var sl StatusLine

	// A version that does not look like HTTP/x.y is accepted as is; the
	// default is only a placeholder and the raw token always wins.
	if !versionPattern.MatchString(tokens[0]) {
		sl.HttpVersion = defaultHttpVersion
	}
	sl.HttpVersion = strings.TrimSpace(tokens[0])

	code := strings.TrimSpace(tokens[1])
	if !statusCodePattern.MatchString(code) {
		return StatusLine{}, errors.NewProtocolError(
			errors.ProtocolErrorMalformedStatusCode,
			fmt.Sprintf("status code is not in a valid format: %q", code),
		)
	}
	sl.StatusCode = code

	reason := make([]string, 0, len(tokens)-2)
	for _, tok := range tokens[2:] {
		reason = append(reason, strings.TrimSpace(tok))
	}
	sl.ReasonPhrase = strings.Join(reason, " ")

	return sl, nil
}
