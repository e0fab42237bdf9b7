package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/metrics"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
	ids    []string
	err    error
}

func (r *recordingSender) Send(_ context.Context, clientID string, events []Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.ids = append(r.ids, clientID)
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingSender) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

func TestTracker_SendsQueuedEvents(t *testing.T) {
	s := &recordingSender{}
	m := metrics.New(prometheus.NewRegistry())
	tr := NewTracker(s, logger.NewNop(), m, TrackerOptions{})
	tr.Start()

	assert.True(t, tr.Track(PageView("/", "es")))
	assert.True(t, tr.Track(WhatsAppClick("erp-systems", "/services")))
	tr.Stop()

	assert.Equal(t, []string{EventPageView, EventWhatsAppClick}, s.names())
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsSent.WithLabelValues(EventPageView)), 0)
	_, err := uuid.Parse(tr.ClientID())
	assert.NoError(t, err)
}

func TestTracker_DropsWhenFull(t *testing.T) {
	s := &recordingSender{}
	m := metrics.New(prometheus.NewRegistry())
	tr := NewTracker(s, logger.NewNop(), m, TrackerOptions{BufferSize: 1})

	assert.True(t, tr.Track(PageView("/a", "es")))
	assert.False(t, tr.Track(PageView("/b", "es")))
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsDropped), 0)

	tr.Start()
	tr.Stop()
	assert.Len(t, s.names(), 1)
}

func TestTracker_FailureIsNotRetried(t *testing.T) {
	s := &recordingSender{err: errors.New("collector down")}
	m := metrics.New(prometheus.NewRegistry())
	tr := NewTracker(s, logger.NewNop(), m, TrackerOptions{})
	tr.Start()

	tr.Track(EmailClick("/contact"))
	tr.Stop()

	assert.Empty(t, s.names())
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsFailed), 0)
}

func TestTracker_Disabled(t *testing.T) {
	tr := NewTracker(nil, logger.NewNop(), nil, TrackerOptions{})
	tr.Start()

	assert.False(t, tr.Enabled())
	assert.False(t, tr.Track(PageView("/", "es")))
	tr.Stop()
}

func TestTracker_RejectsAfterStop(t *testing.T) {
	tr := NewTracker(&recordingSender{}, logger.NewNop(), nil, TrackerOptions{})
	tr.Start()
	tr.Stop()
	tr.Stop()

	assert.False(t, tr.Track(PageView("/", "es")))
}

func TestTracker_ClientIDFallback(t *testing.T) {
	s := &recordingSender{}
	tr := NewTracker(s, logger.NewNop(), nil, TrackerOptions{ClientID: "6f1c2a6e-7d55-4c3b-9a3e-4f2b1d0c8e11"})
	tr.Start()

	visitor := uuid.NewString()
	tr.TrackFor(visitor, PageView("/", "es"))
	tr.TrackFor("not-a-uuid", PageView("/", "es"))
	tr.Stop()

	assert.Equal(t, []string{visitor, "6f1c2a6e-7d55-4c3b-9a3e-4f2b1d0c8e11"}, s.ids)
}

func TestHTTPSender(t *testing.T) {
	var got collectPayload
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.Client(), srv.URL+"/mp/collect", "G-TEST", "secret")
	err := s.Send(context.Background(), "cid", []Event{FormSubmit("contact", "web-development")})
	require.NoError(t, err)

	assert.Contains(t, query, "measurement_id=G-TEST")
	assert.Contains(t, query, "api_secret=secret")
	assert.Equal(t, "cid", got.ClientID)
	require.Len(t, got.Events, 1)
	assert.Equal(t, EventFormSubmit, got.Events[0].Name)
	assert.Equal(t, "contact", got.Events[0].Params["event_label"])
}

func TestHTTPSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPSender(nil, srv.URL, "", "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, s.Send(ctx, "cid", []Event{PageView("/", "es")}))
}

func TestEventHelpers(t *testing.T) {
	e := WhatsAppClick("", "/")
	assert.Equal(t, "general", e.Params["event_label"])
	assert.Equal(t, "conversion", e.Params["event_category"])

	assert.Equal(t, "erp-systems", WhatsAppClick("erp-systems", "/contact").Params["event_label"])
	assert.Equal(t, "email_contact", EmailClick("/contact").Params["event_label"])
	assert.Equal(t, 3, FormSubmit("contact", "").Params["value"])
	assert.Equal(t, "/en/blog", PageView("/en/blog", "en").Params["page_path"])
	assert.True(t, IsKnown(EventCTAClick))
	assert.False(t, IsKnown("purchase"))
}
