// Package webtest drives http.Handlers in tests and asserts on the result.
//
//	webtest.New(t, h).PostForm("/validate", url.Values{"email": {"ab123@example.com"}}).
//		StatusOK().
//		BodyContains("Email looks valid")
package webtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// Client sends requests to a handler, either in-process through an
// httptest.ResponseRecorder or over a real loopback server.
type Client struct {
	t  testing.TB
	do func(*http.Request) *http.Response
}

// New returns a Client that calls h directly.
func New(t testing.TB, h http.Handler) *Client {
	return &Client{t: t, do: func(req *http.Request) *http.Response {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Result()
	}}
}

// NewServer starts an httptest.Server for h, closed at test cleanup, and
// returns a Client that talks to it over TCP.
func NewServer(t testing.TB, h http.Handler) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	return &Client{t: t, do: func(req *http.Request) *http.Response {
		req.URL.Scheme = base.Scheme
		req.URL.Host = base.Host
		req.RequestURI = ""
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
		}
		return resp
	}}
}

// Request is a request under construction.
type Request struct {
	c      *Client
	method string
	path   string
	header http.Header
	body   io.Reader
}

// Request starts a request with the given method and path.
func (c *Client) Request(method, path string) *Request {
	return &Request{c: c, method: method, path: path, header: make(http.Header)}
}

// Get performs a GET.
func (c *Client) Get(path string) *Response {
	return c.Request(http.MethodGet, path).Do()
}

// PostForm performs a url-encoded form POST.
func (c *Client) PostForm(path string, form url.Values) *Response {
	return c.Request(http.MethodPost, path).Form(form).Do()
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// Body sets a raw body.
func (r *Request) Body(body string) *Request {
	r.body = strings.NewReader(body)
	return r
}

// Form encodes form as the body with the url-encoded content type.
func (r *Request) Form(form url.Values) *Request {
	r.body = strings.NewReader(form.Encode())
	r.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// Do sends the request and reads the whole response.
func (r *Request) Do() *Response {
	r.c.t.Helper()

	req := httptest.NewRequest(r.method, r.path, r.body)
	req.Header = r.header

	resp := r.c.do(req)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		r.c.t.Fatalf("read response body: %v", err)
	}
	return &Response{Response: resp, Body: body, t: r.c.t}
}

// Response wraps http.Response with chainable assertions.
type Response struct {
	*http.Response
	Body []byte
	t    testing.TB
}

// Status asserts the status code.
func (r *Response) Status(code int) *Response {
	r.t.Helper()
	if r.StatusCode != code {
		r.t.Errorf("expected status %d, got %d\nBody: %s", code, r.StatusCode, r.Body)
	}
	return r
}

// StatusOK asserts 200 OK.
func (r *Response) StatusOK() *Response {
	return r.Status(http.StatusOK)
}

// HeaderEquals asserts a header value.
func (r *Response) HeaderEquals(key, expected string) *Response {
	r.t.Helper()
	if actual := r.Header.Get(key); actual != expected {
		r.t.Errorf("expected header %s=%q, got %q", key, expected, actual)
	}
	return r
}

// ContentType asserts the Content-Type header contains expected.
func (r *Response) ContentType(expected string) *Response {
	r.t.Helper()
	if actual := r.Header.Get("Content-Type"); !strings.Contains(actual, expected) {
		r.t.Errorf("expected Content-Type to contain %q, got %q", expected, actual)
	}
	return r
}

// BodyContains asserts the body contains substr.
func (r *Response) BodyContains(substr string) *Response {
	r.t.Helper()
	if !strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body to contain %q, got %q", substr, r.Body)
	}
	return r
}

// BodyNotContains asserts the body does not contain substr.
func (r *Response) BodyNotContains(substr string) *Response {
	r.t.Helper()
	if strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body not to contain %q, got %q", substr, r.Body)
	}
	return r
}

// JSON unmarshals the body into v.
func (r *Response) JSON(v any) *Response {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("unmarshal JSON: %v\nBody: %s", err, r.Body)
	}
	return r
}
