package cgi

import (
	"bufio"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderBlockStatusOverride(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("Status: 404 X\r\nFoo: bar\r\n\r\nBODY"))

	status, header, err := parseHeaderBlock(br)
	require.NoError(t, err)
	assert.Equal(t, 404, status)
	assert.Equal(t, "bar", header.Get("Foo"))

	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "BODY", string(rest))
}

func TestParseHeaderBlockDefaultStatus(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("Content-Type: text/html\r\n\r\n"))

	status, header, err := parseHeaderBlock(br)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "text/html", header.Get("Content-Type"))
}

func TestParseHeaderBlockMissingColon(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("NotAHeaderLine\r\n\r\n"))

	_, _, err := parseHeaderBlock(br)
	assert.Error(t, err)
}

func TestParseHeaderBlockInvalidStatus(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("Status: abc\r\n\r\n"))

	_, _, err := parseHeaderBlock(br)
	assert.Error(t, err)
}

func TestParseHeaderBlockTruncated(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("Foo: bar\r\n"))

	_, _, err := parseHeaderBlock(br)
	assert.Error(t, err, "EOF before the blank-line boundary must fail")
}

func TestBuildEnv(t *testing.T) {
	t.Setenv("XUNLEI_TEST_INHERITED", "still-here")

	g := &Gateway{
		BaseEnv: []string{"SYNOPKG_PKGNAME=pan-xunlei-com"},
		Port:    5055,
	}

	r := httptest.NewRequest("POST", "http://panel/webman/3rdparty/pan-xunlei-com/index.cgi/?a=1&b=2", strings.NewReader("x"))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Content-Length", "1")
	r.Header.Set("X-Custom", "yes")
	r.Header.Set("Proxy", "evil")
	r.Header.Set("X-Empty", "")

	env := g.buildEnv(r)

	// The panel's own environment is inherited, not replaced.
	assert.Contains(t, env, "XUNLEI_TEST_INHERITED=still-here")

	assert.Contains(t, env, "SYNOPKG_PKGNAME=pan-xunlei-com")
	assert.Contains(t, env, "GATEWAY_INTERFACE=CGI/1.1")
	assert.Contains(t, env, "REQUEST_METHOD=POST")
	assert.Contains(t, env, "QUERY_STRING=a=1&b=2")
	assert.Contains(t, env, "REQUEST_URI=/webman/3rdparty/pan-xunlei-com/index.cgi/?a=1&b=2")
	assert.Contains(t, env, "PATH_INFO=/webman/3rdparty/pan-xunlei-com/index.cgi/")
	assert.Contains(t, env, "SCRIPT_FILENAME=/webman/3rdparty/pan-xunlei-com/index.cgi/")
	assert.Contains(t, env, "SCRIPT_NAME=.")
	assert.Contains(t, env, "SERVER_PORT=5055")
	assert.Contains(t, env, "HTTP_X-CUSTOM=yes")
	assert.Contains(t, env, "CONTENT_TYPE=application/json")
	assert.Contains(t, env, "CONTENT_LENGTH=1")

	for _, kv := range env {
		assert.False(t, strings.HasPrefix(kv, "HTTP_PROXY="), "Proxy header must not be forwarded")
		assert.False(t, strings.HasPrefix(kv, "HTTP_X-EMPTY="), "empty header values are omitted")
	}
}

func writeScript(t *testing.T, content string) *Gateway {
	t.Helper()
	dir := t.TempDir()
	exe := filepath.Join(dir, "fake-cgi")
	require.NoError(t, os.WriteFile(exe, []byte(content), 0o755))
	// No BaseEnv: the scripts rely on the inherited PATH.
	return &Gateway{
		Exe:  exe,
		Dir:  dir,
		Port: 5055,
	}
}

func TestProxyEchoesBody(t *testing.T) {
	g := writeScript(t, "#!/bin/sh\nprintf 'Status: 201 Created\\r\\nX-Test: yes\\r\\n\\r\\n'\ncat\n")

	r := httptest.NewRequest("POST", "http://panel/webman/3rdparty/pan-xunlei-com/index.cgi/", strings.NewReader("hello"))
	resp, err := g.Proxy(r)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "yes", resp.Header.Get("X-Test"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestProxyMalformedHeaders(t *testing.T) {
	g := writeScript(t, "#!/bin/sh\nprintf 'garbage without colon\\n\\nBODY'\n")

	r := httptest.NewRequest("GET", "http://panel/webman/3rdparty/pan-xunlei-com/index.cgi/", nil)
	_, err := g.Proxy(r)
	assert.Error(t, err)
}

func TestProxySpawnFailure(t *testing.T) {
	g := &Gateway{Exe: "/nonexistent/cgi-binary", Dir: t.TempDir(), Port: 5055}

	r := httptest.NewRequest("GET", "http://panel/webman/3rdparty/pan-xunlei-com/index.cgi/", nil)
	_, err := g.Proxy(r)
	assert.Error(t, err)
}
