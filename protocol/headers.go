package protocol

import (
	"fmt"
	"strings"

	"github.com/nczempin/httpfetch/errors"
)

// excludedHeader is never stored in a Headers map
const excludedHeader = "Cookie"

// HeaderBlock is the run of "key: value" lines following the first line.
// End is the index of the last line belonging to the block, so the blank
// separator (when present) sits at End+1 and the body starts at End+2.
type HeaderBlock struct {
	Headers Headers
	End     int
}

// ParseHeaderBlock parses lines[1..] up to the first empty line. Without an
// empty line every remaining line is treated as a header.
func ParseHeaderBlock(lines []string) (HeaderBlock, error) {
	block := HeaderBlock{
		Headers: make(Headers),
		End:     len(lines) - 1,
	}

	for i, line := range lines {
		if line == "" {
			block.End = i - 1
			break
		}
	}

	for i := 1; i <= block.End; i++ {
		key, value, err := parseHeaderLine(lines[i])
		if err != nil {
			return HeaderBlock{}, err
		}

		if key == excludedHeader {
			continue
		}

		block.Headers[key] = value
	}

	return block, nil
}

func parseHeaderLine(line string) (string, string, error) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", errors.NewProtocolError(
			errors.ProtocolErrorMalformedHeader,
			fmt.Sprintf("header line has no colon: %q", line),
		)
	}

	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}
