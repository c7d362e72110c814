// Package cgi spawns the external web executable per request, feeding it
// the HTTP request through the CGI environment/stdin contract and parsing
// its stdout back into a status, headers and a streamed body.
package cgi

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

type Gateway struct {
	// Exe is the CGI executable, Dir its fixed working directory.
	Exe string
	Dir string

	// BaseEnv is the supervisor's daemon environment; the per-request
	// CGI metadata is appended on top of it.
	BaseEnv []string

	// Port is the panel's listening port, reported as SERVER_PORT.
	Port int

	// Cred is the service identity the child runs as; nil keeps the
	// panel's own identity.
	Cred *syscall.Credential

	// Debug passes the child's stderr through instead of discarding it.
	Debug bool
}

// Response is the parsed CGI result. Closing Body reaps the child.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Proxy runs the CGI executable for the given request. Spawn failures,
// broken pipes and malformed header blocks are returned as errors; the
// caller renders them as a per-request error response.
func (g *Gateway) Proxy(r *http.Request) (*Response, error) {
	cmd := exec.Command(g.Exe)
	cmd.Dir = g.Dir
	cmd.Env = g.buildEnv(r)
	if g.Cred != nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{Credential: g.Cred}
	}
	if g.Debug {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open CGI stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open CGI stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to spawn %s: %w", g.Exe, err)
	}

	if r.Body != nil {
		if _, err := io.Copy(stdin, r.Body); err != nil {
			stdin.Close()
			g.abort(cmd)
			return nil, fmt.Errorf("failed to write CGI stdin: %w", err)
		}
	}
	stdin.Close()

	br := bufio.NewReader(stdout)
	status, header, err := parseHeaderBlock(br)
	if err != nil {
		g.abort(cmd)
		return nil, err
	}

	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       &childBody{br: br, stdout: stdout, cmd: cmd},
	}, nil
}

func (g *Gateway) abort(cmd *exec.Cmd) {
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
}

// buildEnv composes the child environment: the panel's own environment,
// the base daemon environment on top, then CGI protocol metadata and one
// HTTP_<NAME> variable per request header. Later entries win for
// duplicate keys, so the child inherits PATH and friends but cannot be
// steered away from the daemon integration values.
func (g *Gateway) buildEnv(r *http.Request) []string {
	env := append(os.Environ(), g.BaseEnv...)
	add := func(k, v string) {
		env = append(env, k+"="+v)
	}

	add("SERVER_SOFTWARE", "go")
	add("SERVER_PROTOCOL", "HTTP/1.1")
	add("HTTP_HOST", r.RemoteAddr)
	add("GATEWAY_INTERFACE", "CGI/1.1")
	add("REQUEST_METHOD", r.Method)
	add("QUERY_STRING", r.URL.RawQuery)
	add("REQUEST_URI", r.URL.RequestURI())
	add("PATH_INFO", r.URL.Path)
	add("SCRIPT_NAME", ".")
	add("SCRIPT_FILENAME", r.URL.Path)
	add("SERVER_PORT", strconv.Itoa(g.Port))
	add("REMOTE_ADDR", r.RemoteAddr)
	add("SERVER_NAME", r.RemoteAddr)

	for name, values := range r.Header {
		upper := strings.ToUpper(name)
		if upper == "PROXY" {
			continue
		}
		for _, v := range values {
			if v != "" {
				add("HTTP_"+upper, v)
			}
		}
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		add("CONTENT_TYPE", ct)
	}
	if cl := r.Header.Get("Content-Length"); cl != "" {
		add("CONTENT_LENGTH", cl)
	}

	return env
}

// parseHeaderBlock reads CGI header lines up to the blank-line boundary.
// A Status pseudo-header overrides the default 200 and is not forwarded;
// any other line must be "key: value" or the whole response fails.
func parseHeaderBlock(br *bufio.Reader) (int, http.Header, error) {
	status := http.StatusOK
	header := http.Header{}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read CGI header block: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return status, header, nil
		}

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return 0, nil, fmt.Errorf("malformed CGI header line %q", line)
		}
		// The value follows ": "; the separator space is dropped, not
		// arbitrary whitespace.
		if val != "" {
			val = val[1:]
		}

		if key == "Status" {
			if len(val) < 3 {
				return 0, nil, fmt.Errorf("invalid Status value %q", val)
			}
			code, err := strconv.Atoi(val[:3])
			if err != nil {
				return 0, nil, fmt.Errorf("invalid Status value %q: %w", val, err)
			}
			status = code
			continue
		}
		header.Add(key, val)
	}
}

// childBody streams the remainder of the child's stdout; Close releases
// the pipe and reaps the process.
type childBody struct {
	br     *bufio.Reader
	stdout io.Closer
	cmd    *exec.Cmd
}

func (b *childBody) Read(p []byte) (int, error) {
	return b.br.Read(p)
}

func (b *childBody) Close() error {
	b.stdout.Close()
	return b.cmd.Wait()
}
