package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/company/tickets", "POST", 201, 15*time.Millisecond)
	m.RecordRequest("/company/tickets", "POST", 201, 5*time.Millisecond)
	m.RecordError("/company/tickets", "POST", "VALIDATION_FAILED")
	m.RecordBreach("resolution")
	m.RecordTicketEvent("ticket_created")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/company/tickets|POST|201"])
	assert.Equal(t, int64(20), snap.RequestMillis["/company/tickets|POST|201"])
	assert.Equal(t, int64(1), snap.Errors["/company/tickets|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(1), snap.SLABreaches["resolution"])
	assert.Equal(t, int64(1), snap.TicketEvents["ticket_created"])

	m.RecordBreach("resolution")
	assert.Equal(t, int64(1), snap.SLABreaches["resolution"], "snapshot is a copy")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordBreach("first_response")
	assert.Equal(t, Snapshot{}, m.Snapshot())
}
