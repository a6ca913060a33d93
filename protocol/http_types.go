package protocol

import (
	"net/url"
	"sort"
)

// HttpMethod represents HTTP request methods
type HttpMethod int

const (
	MethodGet HttpMethod = iota
	MethodPost
)

func (m HttpMethod) String() string {
	if m == MethodPost {
		return "POST"
	}
	return "GET"
}

// Headers maps a header name to its value. Names are kept as received; a
// repeated name keeps the last value.
type Headers map[string]string

// Get returns the value stored under key
func (h Headers) Get(key string) (string, bool) {
	v, ok := h[key]
	return v, ok
}

// Keys returns the header names in lexical order
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Target is a URL broken down into what the wire request needs
type Target struct {
	URL   *url.URL
	Host  string
	Path  string
	Query string
}

// StatusLine is the first line of a response
type StatusLine struct {
	HttpVersion  string
	StatusCode   string
	ReasonPhrase string
}

// HttpResponse is a fully parsed response. Body is everything after the first
// blank line, one "\n" per line. ContentLength is whatever the header said
// (0 when absent) and is never used to bound or check Body.
type HttpResponse struct {
	StatusLine    StatusLine
	Headers       Headers
	ContentLength int
	Body          string
}

// HttpRequest is a parsed raw request
type HttpRequest struct {
	Method      HttpMethod
	Url         string
	URI         *url.URL
	HttpVersion string
	Headers     Headers
	Body        string
}
