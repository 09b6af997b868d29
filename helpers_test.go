package paypal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

const testEnvelope = `"responseEnvelope":{"ack":"Success","correlationId":"c0ffee","timestamp":"2014-10-24T10:00:00.000-07:00","build":"12345"}`

var testTime = time.Unix(1400000000, 0)

// recorded is one request seen by a test server.
type recorded struct {
	Path   string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r recorded) JSON(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		t.Fatalf("request body is not JSON: %v: %s", err, r.Body)
	}
	return m
}

// Form decodes the recorded body as a form.
func (r recorded) Form(t *testing.T) url.Values {
	t.Helper()
	v, err := url.ParseQuery(string(r.Body))
	if err != nil {
		t.Fatalf("request body is not a form: %v", err)
	}
	return v
}

type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recorded
}

// newTestServer answers each path with the given body. Unknown paths get a
// 404.
func newTestServer(t *testing.T, routes map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.requests = append(ts.requests, recorded{Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		ts.mu.Unlock()

		resp, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(resp))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) last(t *testing.T) recorded {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.requests) == 0 {
		t.Fatal("no request received")
	}
	return ts.requests[len(ts.requests)-1]
}

func testConfig(baseURL string) Config {
	env := NewEnvironment("test", baseURL, "https://www.paypal.test", baseURL+"/nvp")
	env.ApplicationID = "APP-TEST"
	return Config{
		Environment: env,
		UserID:      "seller_api1.example.com",
		Password:    "pw",
		Signature:   "sig",
	}
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithRetries(-1),
		withClock(func() time.Time { return testTime }),
		withTrackingIDs(func() string { return "track-1" }),
	}, opts...)
	c, err := New(testConfig(baseURL), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func (ts *testServer) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.requests)
}
