package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/shift-router/internal/adapter/memory"
	promadapter "github.com/alanyang/shift-router/internal/adapter/prometheus"
	"github.com/alanyang/shift-router/internal/clock"
	"github.com/alanyang/shift-router/internal/domain/policy"
	"github.com/alanyang/shift-router/internal/mocks"
	availsvc "github.com/alanyang/shift-router/internal/service/availability"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
	"github.com/alanyang/shift-router/internal/service/eligibility"
	operatorsvc "github.com/alanyang/shift-router/internal/service/operator"
	"github.com/alanyang/shift-router/internal/transport"
	mcptransport "github.com/alanyang/shift-router/internal/transport/mcp"
)

func init() { gin.SetMode(gin.TestMode) }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clk := clock.NewFixed(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	pol := policy.Default()
	bus := memory.NewEventBus()
	ops := memory.NewOperatorRepository()
	avail := memory.NewAvailabilityRepository()
	rec := promadapter.NewRecorder("shift_router")

	calc := eligibility.NewCalculator(ops, avail, memory.NewLedger(), pol)
	controlSvc := controllersvc.NewService(memory.NewRunStateStore(), mocks.NewMockDistributor(gomock.NewController(t)),
		calc, memory.NewOutcomeLog(), memory.NewLocker(), bus, rec, clk, pol)
	availSvc := availsvc.NewService(avail, ops, bus, clk)
	operatorSvc := operatorsvc.NewService(ops, bus)

	r := transport.NewRouter(ctx, controlSvc, availSvc, operatorSvc,
		mcptransport.New(controlSvc, availSvc).Handler(), rec.Handler(), bus)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Routes(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{"/api/status", "/api/operators", "/api/availability", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/run", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_EventsReachWebSocket(t *testing.T) {
	srv := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// The upgrade registers the client asynchronously; keep toggling until one event lands.
	got := make(chan []byte, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second)) //nolint:errcheck
		if _, data, err := conn.ReadMessage(); err == nil {
			got <- data
		}
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Post(srv.URL+"/api/control", "application/json", strings.NewReader(`{"action":"start"}`))
		if err == nil {
			resp.Body.Close()
		}
		select {
		case data := <-got:
			return assert.Contains(t, string(data), `"run_started"`)
		default:
			return false
		}
	}, 3*time.Second, 50*time.Millisecond)
}
