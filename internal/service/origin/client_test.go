package origin

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/constants"
	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/util"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

type originStub struct {
	mu     sync.Mutex
	files  map[string]string
	status map[string]int
	hits   map[string]int
}

func newOriginStub(files map[string]string) *originStub {
	return &originStub{files: files, status: map[string]int{}, hits: map[string]int{}}
}

func (s *originStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	status, forced := s.status[r.URL.Path]
	body, ok := s.files[r.URL.Path]
	s.mu.Unlock()

	if forced {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (s *originStub) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

func newTestClient(t *testing.T, stub *originStub) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", DataVersion: "v1"}, srv.Client(), zap.NewNop())
}

func TestFetchTableDecodesWholeTable(t *testing.T) {
	stub := newOriginStub(map[string]string{
		"/v1/ItemTable.json": `{"item_a": {"id": "item_a", "rarity": 3}, "item_b": {"id": "item_b"}}`,
	})
	client := newTestClient(t, stub)

	table, err := client.FetchTable(context.Background(), "ItemTable.json")
	if err != nil {
		t.Fatalf("FetchTable: %v", err)
	}
	if table.Len() != 2 || table.Keys()[0] != "item_a" {
		t.Fatalf("unexpected table keys %v", table.Keys())
	}
	if got := client.TableURL("ItemTable.json"); got[len(got)-len("/v1/ItemTable.json"):] != "/v1/ItemTable.json" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestFetchTableNotAvailableOutcomes(t *testing.T) {
	stub := newOriginStub(map[string]string{
		"/v1/Broken.json": `{"unterminated": `,
		"/v1/Null.json":   `null`,
	})
	client := newTestClient(t, stub)

	for _, name := range []string{"Missing.json", "Broken.json", "Null.json"} {
		_, err := client.FetchTable(context.Background(), name)
		if !stderrors.Is(err, errors.ErrUpstreamUnavailable) {
			t.Errorf("%s: expected ErrUpstreamUnavailable, got %v", name, err)
		}
	}
}

func TestFetchTableTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(Config{BaseURL: srv.URL, DataVersion: "v1"}, srv.Client(), zap.NewNop())
	srv.Close()

	_, err := client.FetchTable(context.Background(), "ItemTable.json")
	if !stderrors.Is(err, errors.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchDictionaryUsesLanguageFile(t *testing.T) {
	stub := newOriginStub(map[string]string{
		"/v1/I18nTextTable_JP.json": `{"txt_001": "エンバー"}`,
	})
	client := newTestClient(t, stub)

	dict, err := client.FetchDictionary(context.Background(), domain.LanguageJapanese)
	if err != nil {
		t.Fatalf("FetchDictionary: %v", err)
	}
	if dict.Lookup("txt_001") != "エンバー" {
		t.Fatalf("unexpected dictionary %v", dict)
	}
}

func TestFetchDictionaryUnsupportedLanguageSkipsNetwork(t *testing.T) {
	stub := newOriginStub(map[string]string{})
	client := newTestClient(t, stub)

	_, err := client.FetchDictionary(context.Background(), domain.Language("xx"))
	if !stderrors.Is(err, errors.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if stub.total() != 0 {
		t.Fatalf("expected no origin requests, got %d", stub.total())
	}
}

func TestFetchTableCircuitOpensOnServerErrors(t *testing.T) {
	stub := newOriginStub(map[string]string{})
	stub.status["/v1/ItemTable.json"] = http.StatusBadGateway
	client := newTestClient(t, stub)

	threshold := constants.CircuitBreakerConfig.FailureThreshold
	for i := 0; i < threshold; i++ {
		if _, err := client.FetchTable(context.Background(), "ItemTable.json"); err == nil {
			t.Fatalf("expected failure")
		}
	}

	_, err := client.FetchTable(context.Background(), "ItemTable.json")
	if !stderrors.Is(err, errors.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if stub.total() != threshold {
		t.Fatalf("expected %d origin requests, got %d", threshold, stub.total())
	}
}

func TestFetchTableMissingFileDoesNotTripBreaker(t *testing.T) {
	stub := newOriginStub(map[string]string{"/v1/ItemTable.json": `{}`})
	client := newTestClient(t, stub)

	for i := 0; i < constants.CircuitBreakerConfig.FailureThreshold+1; i++ {
		_, _ = client.FetchTable(context.Background(), "Missing.json")
	}
	if _, err := client.FetchTable(context.Background(), "ItemTable.json"); err != nil {
		t.Fatalf("404s must not open the breaker: %v", err)
	}
}

func TestFetchTableInvalidRequestReleasesProbe(t *testing.T) {
	stub := newOriginStub(map[string]string{"/v1/ItemTable.json": `{"item_iron": {}}`})
	client := newTestClient(t, stub)
	client.breaker = util.NewCircuitBreaker("origin", 1, 0, zap.NewNop())
	reachable := client.baseURL

	// The first failure opens the breaker; the second is the half-open probe.
	client.baseURL = "http://bad host"
	for i := 0; i < 2; i++ {
		_, err := client.FetchTable(context.Background(), "ItemTable.json")
		if !stderrors.Is(err, errors.ErrUpstreamUnavailable) {
			t.Fatalf("attempt %d: expected ErrUpstreamUnavailable, got %v", i, err)
		}
	}
	if client.breaker.State() != util.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %s", client.breaker.State())
	}

	client.baseURL = reachable
	if _, err := client.FetchTable(context.Background(), "ItemTable.json"); err != nil {
		t.Fatalf("next probe must be admitted: %v", err)
	}
	if client.breaker.State() != util.CircuitStateClosed {
		t.Fatalf("expected closed breaker, got %s", client.breaker.State())
	}
}
