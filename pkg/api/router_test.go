package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/lampbridge/pkg/api/types"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/lamp/lamptest"
	"github.com/urmzd/lampbridge/pkg/lamp/schema"
	"github.com/urmzd/lampbridge/pkg/timer"
)

var t0 = time.UnixMilli(1_700_000_000_000)

type fixture struct {
	router *Router
	store  *lamptest.Store
	pub    *lamptest.Publisher
}

func newFixture(t *testing.T, seed ...lamp.Timer) *fixture {
	t.Helper()
	store := lamptest.NewStore(seed...)
	pub := lamptest.NewPublisher()
	engine := timer.NewEngine(store, pub, timer.WithClock(func() time.Time { return t0 }))
	return &fixture{
		router: NewRouter(engine, pub, schema.NewValidator()),
		store:  store,
		pub:    pub,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, types.Response) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.router.Handler().ServeHTTP(rec, req)

	var resp types.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestIndex(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.Contains(t, rec.Body.String(), "/waktu")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.router.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	f.pub.Connected = false
	rec, _ = f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}

func TestDocsRedirect(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/swagger/index.html", rec.Header().Get("Location"))
}

func TestWaktu_StartThenExtend(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/waktu", `{"number": 2, "addTime": 5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Message, "started")

	rec, resp = f.do(t, http.MethodPost, "/waktu", `{"number": 2, "addTime": 10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, resp.Message, "extended")

	records := f.store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, t0.UnixMilli()+15*60_000, records[0].ExpiredAt)
	assert.Equal(t, []lamp.Command{lamp.PowerOn(2), lamp.PowerOn(2)}, f.pub.Commands())
}

func TestWaktu_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{nope`},
		{"missing addTime", `{"number": 1}`},
		{"zero minutes", `{"number": 1, "addTime": 0}`},
		{"fractional minutes", `{"number": 1, "addTime": 1.5}`},
		{"string number", `{"number": "1", "addTime": 5}`},
		{"unknown lamp", `{"number": 9, "addTime": 5}`},
		{"minutes above cap", `{"number": 1, "addTime": 525601}`},
		{"minutes that overflow milliseconds", `{"number": 1, "addTime": 230584300921369}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := f.do(t, http.MethodPost, "/waktu", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, types.StatusFailed, resp.Status)
		})
	}
	assert.Empty(t, f.store.Records())
	assert.Empty(t, f.pub.Commands())
}

func TestWaktu_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailCreate = true

	rec, resp := f.do(t, http.MethodPost, "/waktu", `{"number": 1, "addTime": 5}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, types.StatusFailed, resp.Status)
	assert.Empty(t, f.pub.Commands())
}

func TestData(t *testing.T) {
	f := newFixture(t,
		lamp.Timer{Number: 1, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + 60_000},
		lamp.Timer{Number: 3, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + 120_000},
	)

	rec, resp := f.do(t, http.MethodGet, "/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)

	rec, _ = f.do(t, http.MethodGet, "/data/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"number":3`)

	rec, _ = f.do(t, http.MethodGet, "/data/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/data/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/data/7", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestData_EmptyIsArray(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestStop(t *testing.T) {
	f := newFixture(t, lamp.Timer{Number: 4, StartAt: t0.UnixMilli(), ExpiredAt: t0.UnixMilli() + 60_000})

	rec, _ := f.do(t, http.MethodPost, "/stop", `{"number": 4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"1"`)
	assert.Empty(t, f.store.Records())
	assert.Equal(t, []lamp.Command{lamp.PowerOff(4)}, f.pub.Commands())

	rec, _ = f.do(t, http.MethodPost, "/stop", `{"number": 4}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/stop", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReset(t *testing.T) {
	f := newFixture(t,
		lamp.Timer{Number: 1, ExpiredAt: t0.UnixMilli() + 60_000},
		lamp.Timer{Number: 2, ExpiredAt: t0.UnixMilli() + 60_000},
	)

	rec, _ := f.do(t, http.MethodDelete, "/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":2`)
	assert.Equal(t, []lamp.Command{lamp.PowerOff(lamp.AllLamps)}, f.pub.Commands())
}

func TestLampu(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/lampu", `{"number": 3, "status": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/lampu", `{"number": 0, "status": false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []lamp.Command{lamp.PowerOn(3), lamp.PowerOff(0)}, f.pub.Commands())
	assert.Empty(t, f.store.Records())

	rec, _ = f.do(t, http.MethodPost, "/lampu", `{"number": 3, "status": "on"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/lampu", `{"number": 5, "status": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.pub.Err = lamp.ErrNotConnected
	rec, _ = f.do(t, http.MethodPost, "/lampu", `{"number": 1, "status": true}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
