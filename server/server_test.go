package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/plaszyme/am"
	"github.com/teranos/plaszyme/enzyme"
	plztest "github.com/teranos/plaszyme/internal/testing"
	"github.com/teranos/plaszyme/search"
	"github.com/teranos/plaszyme/substrate"
)

const residues = "ACDEFGHIKLMNPQRSTVWY"

func randomSequence(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = residues[rng.Intn(len(residues))]
	}
	return string(b)
}

type fixture struct {
	server *Server
	store  *enzyme.Store
	query  string
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()

	store := enzyme.NewStore(plztest.CreateTestDB(t), log)
	rng := rand.New(rand.NewSource(42))
	query := randomSequence(rng, 240)
	require.NoError(t, store.PutBatch(context.Background(), []enzyme.Record{
		{ID: "PLZ00001", Name: "IsPETase", Organism: "Ideonella sakaiensis", Sequence: query, Tags: []string{"PET"}, PDBIDs: "5XJH"},
		{ID: "PLZ00002", Name: "cutinase", Organism: "Thermobifida fusca", Sequence: randomSequence(rng, 260), Tags: []string{"PBAT", "PET"}},
		{ID: "PLZ00003", Name: "depolymerase", Organism: "Ralstonia pickettii", Sequence: randomSequence(rng, 300), Tags: []string{"PHB"}},
	}))

	catalogPath := filepath.Join(t.TempDir(), "plastics.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte("Plastic,SMILES\nPET,O=C(OCCO)c1ccccc1\nPLA/PBAT Blend,mixture\n"), 0644))

	opts := Options{
		Engine:  search.NewEngine(store, search.Config{}, log),
		Enzymes: store,
		Stats:   store,
		Catalog: substrate.NewCache(catalogPath),
		Records: store,
		Config:  am.ServerConfig{AllowedOrigins: []string{"http://localhost"}},
		Logger:  log,
	}
	if mutate != nil {
		mutate(&opts)
	}
	srv, err := New(opts)
	require.NoError(t, err)
	return &fixture{server: srv, store: store, query: query}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNewRequiresEngineAndLookup(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHandleSearch(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/search", search.Request{Sequence: f.query, Threshold: "medium"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	results := body["results"].([]interface{})
	require.NotEmpty(t, results)
	top := results[0].(map[string]interface{})
	assert.Equal(t, "PLZ00001", top["candidate_id"])
	assert.Equal(t, 100.0, top["identity"])
	assert.Equal(t, float64(len(results)), body["total_count"])

	info := body["search_info"].(map[string]interface{})
	assert.Equal(t, float64(len(f.query)), info["sequence_length"])
	assert.Equal(t, "all", info["tag_filter"])
}

func TestHandleSearch_Failures(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty sequence", search.Request{Sequence: "  "}},
		{"too short", search.Request{Sequence: "MKLV"}},
		{"invalid characters", search.Request{Sequence: "MKLV1234567890XXQQ"}},
		{"malformed JSON", "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
			assert.Len(t, body, 2, "failure body carries only success and error")
		})
	}
}

func TestHandleSearch_WrongMethod(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/search", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleEnzyme(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/enzymes/PLZ00002", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "PLZ00002", data["id"])
	assert.Equal(t, "PBAT, PET", data["tag_summary"])
	assert.Equal(t, 260.0, data["sequence_length"])
	assert.Greater(t, data["molecular_weight"].(float64), 20.0)

	rec = f.do(t, http.MethodGet, "/api/enzymes/PLZ99999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestHandleStats(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	stats := body["statistics"].(map[string]interface{})
	assert.Equal(t, 3.0, stats["total_enzymes"])
	assert.Equal(t, 1.0, stats["structures_3d"])
	assert.NotEmpty(t, body["last_updated"])
}

func TestHandleStats_NoProvider(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Stats = nil })

	rec := f.do(t, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleDatasets(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/datasets", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	stats := body["statistics"].(map[string]interface{})
	assert.Equal(t, 3.0, stats["comprehensive"])
	assert.Equal(t, 2.0, stats["pet"])
	assert.Equal(t, 0.0, stats["pe_pp"])
	assert.Len(t, body["datasets"], 6)
	assert.NotEmpty(t, body["last_updated"])
}

func TestHandleDatasets_NoRecords(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Records = nil })

	rec := f.do(t, http.MethodGet, "/api/datasets", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestHandleSubstrate(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/substrates/pet", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "PET", data["name"])
	assert.Equal(t, "O=C(OCCO)c1ccccc1", data["smiles"])

	rec = f.do(t, http.MethodGet, "/api/substrates/NYLON", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/substrates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 2)
}

func TestHandleSubstrate_NoCatalog(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Catalog = substrate.NewCache("") })

	rec := f.do(t, http.MethodGet, "/api/substrates/PET", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "dev", body["version"])
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-chosen")
	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "client-chosen", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	// 6 per minute gives a burst of 1
	f := newFixture(t, func(o *Options) { o.Config.RequestsPerMinute = 6 })

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", nil).Code)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	l := newClientLimiter(60)
	now := time.Now()

	assert.True(t, l.allow("a", now))
	assert.True(t, l.allow("b", now.Add(limiterIdleTTL+time.Second)))
	assert.True(t, l.allow("c", now.Add(2*limiterIdleTTL+2*time.Second)))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "a")
	assert.Contains(t, l.clients, "c")
}

func TestNewClientLimiter_Unlimited(t *testing.T) {
	assert.Nil(t, newClientLimiter(0))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	f := newFixture(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, ln) }()

	require.Eventually(t, func() bool { return f.server.Addr() != nil }, time.Second, 10*time.Millisecond)
	resp, err := http.Get("http://" + f.server.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not stop")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(errNoStats))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(substrate.ErrNoCatalog))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
}
