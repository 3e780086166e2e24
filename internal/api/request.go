package api

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Request describes a single API call: a relative path joined to the
// client's base URL, plus verb, headers, query parameters, and an
// optional pre-encoded JSON body. It is plain data; no I/O happens
// until the client executes it.
type Request struct {
	Method string // defaults to GET when empty
	Path   string // relative, e.g. "/users/abc/wishlist"
	Header http.Header
	Query  url.Values
	Body   []byte

	encodeErr error
}

// NewRequest returns a Request for the given method and path.
func NewRequest(method, path string) Request {
	return Request{Method: method, Path: path}
}

// Get returns a GET Request for path.
func Get(path string) Request {
	return NewRequest(http.MethodGet, path)
}

// WithQuery returns a copy of r with the query parameter set.
func (r Request) WithQuery(key, value string) Request {
	q := url.Values{}
	for k, vs := range r.Query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(key, value)
	r.Query = q
	return r
}

// WithHeader returns a copy of r with the header set. Per-request
// headers are merged after the client defaults, so they win.
func (r Request) WithHeader(key, value string) Request {
	h := http.Header{}
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	h.Set(key, value)
	r.Header = h
	return r
}

// WithJSON returns a copy of r carrying v encoded as the JSON body.
// Payloads are typed structs per operation; encoding them cannot
// reasonably fail, but any error is surfaced by the client at execute
// time via the stashed encodeErr.
func (r Request) WithJSON(v interface{}) Request {
	data, err := json.Marshal(v)
	if err != nil {
		r.encodeErr = err
		return r
	}
	r.Body = data
	return r
}
