package protocol

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/nczempin/httpfetch/errors"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_Simple(t *testing.T) {
	resp, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"))
	require.NoError(t, err)

	require.Equal(t, "HTTP/1.1", resp.StatusLine.HttpVersion)
	require.Equal(t, "200", resp.StatusLine.StatusCode)
	require.Equal(t, "OK", resp.StatusLine.ReasonPhrase)
	require.Equal(t, "5", resp.Headers["Content-Length"])
	require.Equal(t, 5, resp.ContentLength)
	require.Equal(t, "hello\n", resp.Body)
}

func TestParseResponse_MultiLineBody(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n<html>\r\n<body></body>\r\n</html>\r\n"
	resp, err := ParseResponse([]byte(raw))
	require.NoError(t, err)

	require.Equal(t, "<html>\n<body></body>\n</html>\n", resp.Body)
	require.Equal(t, "text/html", resp.Headers["Content-Type"])
}

func TestParseResponse_LineEndings(t *testing.T) {
	variants := []string{
		"HTTP/1.1 404 Not Found\r\nServer: x\r\n\r\ngone",
		"HTTP/1.1 404 Not Found\nServer: x\n\ngone",
		`HTTP/1.1 404 Not Found\nServer: x\n\ngone`,
		"HTTP/1.1 404 Not Found\r\nServer: x\n\r\ngone\n",
	}

	for _, raw := range variants {
		resp, err := ParseResponse([]byte(raw))
		require.NoError(t, err, raw)
		require.Equal(t, "404", resp.StatusLine.StatusCode)
		require.Equal(t, "Not Found", resp.StatusLine.ReasonPhrase)
		require.Equal(t, "x", resp.Headers["Server"])
		require.Equal(t, "gone\n", resp.Body)
	}
}

func TestParseResponse_DropsCookie(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\n" +
		"Cookie: a=1\r\n" +
		"Set-Cookie: s=2\r\n" +
		"Cookie: b=2\r\n" +
		"\r\n"

	resp, err := ParseResponse([]byte(raw))
	require.NoError(t, err)

	_, ok := resp.Headers["Cookie"]
	require.False(t, ok)
	require.Equal(t, "s=2", resp.Headers["Set-Cookie"])
}

func TestParseResponse_DuplicateHeaderLastWins(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nX-Thing: first\r\nX-Thing: second\r\n\r\n"

	resp, err := ParseResponse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, "second", resp.Headers["X-Thing"])
	require.Len(t, resp.Headers, 1)
}

func TestParseResponse_HeaderValueWithColons(t *testing.T) {
	raw := "HTTP/1.1 301 Moved Permanently\r\nLocation:  http://example.com:80/x \r\n\r\n"

	resp, err := ParseResponse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, "http://example.com:80/x", resp.Headers["Location"])
}

func TestParseResponse_ContentLengthIsInformational(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		resp, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nServer: x\r\n\r\nsome body"))
		require.NoError(t, err)
		require.Equal(t, 0, resp.ContentLength)
		require.Equal(t, "some body\n", resp.Body)
	})

	t.Run("smaller than body", func(t *testing.T) {
		resp, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nsome body"))
		require.NoError(t, err)
		require.Equal(t, 2, resp.ContentLength)
		require.Equal(t, "some body\n", resp.Body)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nContent-Length: five\r\n\r\nhello"))
		require.Error(t, err)
		require.True(t, errors.IsParserError(err))
		require.Equal(t, errors.ProtocolErrorInvalidContentLength, errors.ProtocolCode(err))
	})
}

func TestParseResponse_NoBlankLine(t *testing.T) {
	resp, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nServer: x\r\nContent-Length: 0"))
	require.NoError(t, err)

	require.Equal(t, "x", resp.Headers["Server"])
	require.Equal(t, "0", resp.Headers["Content-Length"])
	require.Empty(t, resp.Body)
}

func TestParseResponse_NoBlankLine_BodyLikeLineIsAHeader(t *testing.T) {
	_, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nServer: x\r\n<html>"))
	require.Error(t, err)
	require.Equal(t, errors.ProtocolErrorMalformedHeader, errors.ProtocolCode(err))
}

func TestParseResponse_StatusOnly(t *testing.T) {
	resp, err := ParseResponse([]byte("HTTP/1.0 204 No Content\r\n\r\n"))
	require.NoError(t, err)
	require.Empty(t, resp.Headers)
	require.Empty(t, resp.Body)
}

func TestParseResponse_MalformedStatusLine(t *testing.T) {
	for _, raw := range []string{"BAD\r\n\r\n", "", "HTTP/1.1 200\r\n\r\nbody"} {
		resp, err := ParseResponse([]byte(raw))
		require.Nil(t, resp, raw)
		require.Error(t, err, raw)
		require.True(t, errors.IsParserError(err), raw)
		require.Equal(t, errors.ProtocolErrorMalformedStatusLine, errors.ProtocolCode(err), raw)
	}
}

func TestParseResponse_MalformedStatusCode(t *testing.T) {
	resp, err := ParseResponse([]byte("HTTP/1.1 OK 200\r\n\r\n"))
	require.Nil(t, resp)
	require.Equal(t, errors.ProtocolErrorMalformedStatusCode, errors.ProtocolCode(err))
}

func TestParseResponse_Idempotent(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nA: 1\r\nCookie: c\r\nContent-Length: 3\r\n\r\nabc\r\ndef")

	first, err := ParseResponse(raw)
	require.NoError(t, err)
	second, err := ParseResponse(raw)
	require.NoError(t, err)
	unsafe, err := ParseResponseUnsafe(raw)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, first, unsafe)
}

func TestParseResponse_ManyHeaders(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("HTTP/1.1 200 OK\r\n")

	want := make(map[string]string)
	for i := 0; i < 50; i++ {
		key, value := fmt.Sprintf("X-%s", uniuri.NewLen(12)), uniuri.New()
		want[key] = value
		fmt.Fprintf(&sb, "%s: %s\r\n", key, value)
	}
	sb.WriteString("\r\n")

	resp, err := ParseResponse([]byte(sb.String()))
	require.NoError(t, err)
	require.Equal(t, Headers(want), resp.Headers)
}

func TestHttpResponse_String(t *testing.T) {
	resp, err := ParseResponse([]byte("HTTP/1.1 200 OK\r\nB: 2\r\nA: 1\r\n\r\nbody"))
	require.NoError(t, err)
	require.Equal(t, "A: 1\r\nB: 2\r\n\r\nbody", resp.String())
}
