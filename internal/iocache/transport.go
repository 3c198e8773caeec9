package iocache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
)

// responseVersion is bumped whenever the stored envelope changes shape.
const responseVersion = 1

// cachedResponse is the envelope persisted for one GET response.
type cachedResponse struct {
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// CachingTransport serves repeated GET requests from a CacheStore.
// Only 200 responses are stored. Entries older than TTL are refetched.
type CachingTransport struct {
	Store contract.CacheStore
	TTL   time.Duration
	Base  http.RoundTripper

	now func() time.Time
}

// NewCachingTransport wraps base, which defaults to http.DefaultTransport.
func NewCachingTransport(store contract.CacheStore, ttl time.Duration, base http.RoundTripper) *CachingTransport {
	return &CachingTransport{Store: store, TTL: ttl, Base: base, now: time.Now}
}

// RoundTrip implements http.RoundTripper.
func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Store == nil || req.Method != http.MethodGet {
		return t.base().RoundTrip(req)
	}

	key := cacheKey(req)
	if resp, ok := t.lookup(key, req); ok {
		return resp, nil
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if data, err := json.Marshal(cachedResponse{Header: resp.Header, Body: body}); err == nil {
		if err := t.Store.Set(key, data, responseVersion, t.clock().Unix()); err != nil {
			contract.LogWarn("Cannot store cached response", err)
		}
	}
	return resp, nil
}

// lookup rebuilds a response from a fresh cache entry.
func (t *CachingTransport) lookup(key string, req *http.Request) (*http.Response, bool) {
	data, version, ts, err := t.Store.Get(key)
	if err != nil || version != responseVersion {
		return nil, false
	}
	if t.TTL > 0 && t.clock().Sub(time.Unix(ts, 0)) > t.TTL {
		return nil, false
	}
	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	header := cached.Header
	if header == nil {
		header = http.Header{}
	}
	header.Set("X-From-Cache", "1")
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}, true
}

func (t *CachingTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *CachingTransport) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// cacheKey hashes the request URL together with its Accept and Authorization
// headers, so a response is only replayed to callers holding the same credential.
func cacheKey(req *http.Request) string {
	parts := []string{req.URL.String(), req.Header.Get("Accept"), req.Header.Get("Authorization")}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}
