package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{httperr.ErrBusiness("slot_taken"), http.StatusConflict, "slot_taken"},
		{httperr.ErrBusiness("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
		{httperr.ErrBusiness("slot_in_past"), http.StatusUnprocessableEntity, "slot_in_past"},
		{fmt.Errorf("find client: %w", gateway.ErrUnavailable), http.StatusServiceUnavailable, "remote_unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error_code":"`+tc.code+`"`)
		})
	}
}

// streamRecorder adds the CloseNotifier gin's streaming needs.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestEventsStream(t *testing.T) {
	h := hub.New(zerolog.Nop(), nil)
	r := gin.New()
	r.GET("/events", NewEventsHandler(h, time.Hour).Stream)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	h.Publish(hub.Change{Table: "appointments", EventType: "INSERT"})
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after the client left")
	}

	body := w.Body.String()
	assert.Contains(t, body, "event:change")
	assert.Contains(t, body, `"source":"remote"`)
	assert.Contains(t, body, `"table":"appointments"`)
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
}
