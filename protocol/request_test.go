package protocol

import (
	"strings"
	"testing"

	"github.com/nczempin/httpfetch/errors"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	t.Run("bare host", func(t *testing.T) {
		target, err := ParseTarget("http://example.com")
		require.NoError(t, err)
		require.Equal(t, "example.com", target.Host)
		require.Equal(t, "/", target.Path)
		require.Empty(t, target.Query)
	})

	t.Run("path and query", func(t *testing.T) {
		target, err := ParseTarget("http://httpbin.org/anything/a%20b?x=1&y=2")
		require.NoError(t, err)
		require.Equal(t, "httpbin.org", target.Host)
		require.Equal(t, "/anything/a%20b", target.Path)
		require.Equal(t, "x=1&y=2", target.Query)
	})

	t.Run("port is not part of host", func(t *testing.T) {
		target, err := ParseTarget("http://localhost:8080/x")
		require.NoError(t, err)
		require.Equal(t, "localhost", target.Host)
	})

	for _, raw := range []string{"https://example.com/", "ftp://example.com", "http:///nohost", "://"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParseTarget(raw)
			require.Error(t, err)

			herr, ok := err.(*errors.HttpError)
			require.True(t, ok)
			require.Equal(t, errors.ErrorInvalidArgument, herr.Type)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	target, err := ParseTarget("http://www.slackware.com/getslack/?mirror=1")
	require.NoError(t, err)

	request := string(BuildRequest(target))
	require.Equal(t,
		"GET /getslack/ HTTP/1.1\r\n"+
			"Host: www.slackware.com\r\n"+
			"Connection: close\r\n"+
			"\r\n",
		request,
	)
}

func TestBuildRequest_Shape(t *testing.T) {
	urls := []string{
		"http://example.com",
		"http://example.org/",
		"http://old.reddit.com/r/golang",
		"http://httpbin.org/get?a=b",
	}

	for _, raw := range urls {
		target, err := ParseTarget(raw)
		require.NoError(t, err)

		request := string(BuildRequest(target))
		require.True(t, strings.HasSuffix(request, "\r\n\r\n"), raw)
		require.Equal(t, 1, strings.Count(request, "Host: "), raw)
		require.Contains(t, request, "\r\nHost: "+target.Host+"\r\n")
		require.NotContains(t, request, "?")
	}
}

func TestQueryBody(t *testing.T) {
	require.Equal(t, "", QueryBody("http://example.com/"))
	require.Equal(t, "a=1&b=2", QueryBody("http://example.com/?a=1&b=2"))
	require.Equal(t, "a=1", QueryBody("http://example.com/?a=1?b=2"))
	require.Equal(t, "", QueryBody("http://example.com/?"))
}

func TestBuildRequest_EscapesPath(t *testing.T) {
	tests := map[string]string{
		"http://example.com/a b":   "GET /a%20b HTTP/1.1\r\n",
		"http://example.com/héllo": "GET /h%C3%A9llo HTTP/1.1\r\n",
		"http://example.com/a%2Fb": "GET /a%2Fb HTTP/1.1\r\n",
	}

	for raw, want := range tests {
		target, err := ParseTarget(raw)
		require.NoError(t, err, raw)
		require.True(t, strings.HasPrefix(string(BuildRequest(target)), want), raw)
	}
}
