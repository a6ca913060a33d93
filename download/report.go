package download

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/nczempin/httpfetch/session"
)

// Result is the outcome of one session
type Result = session.Result

var json = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// ReportEntry is the JSON form of a Result
type ReportEntry struct {
	URL           string `json:"url"`
	Host          string `json:"host,omitempty"`
	State         string `json:"state"`
	BytesReceived int    `json:"bytes_received"`
	StatusCode    string `json:"status_code,omitempty"`
	ContentLength int    `json:"content_length,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Summarize converts results into report entries, keeping their order
func Summarize(results []Result) []ReportEntry {
	entries := make([]ReportEntry, 0, len(results))
	for _, r := range results {
		e := ReportEntry{
			URL:           r.URL,
			Host:          r.Host,
			State:         r.State.String(),
			BytesReceived: r.BytesReceived,
		}
		if r.Response != nil {
			e.StatusCode = r.Response.StatusLine.StatusCode
			e.ContentLength = r.Response.ContentLength
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}
	return entries
}

// WriteReport writes results to w as an indented JSON array
func WriteReport(w io.Writer, results []Result) error {
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	stream.WriteVal(Summarize(results))
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}
