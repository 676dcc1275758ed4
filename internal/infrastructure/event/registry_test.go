package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newRecordingHandler()
	wildcard := newRecordingHandler()

	r.Register(typed, "BillPaid", "InvoicePaid")
	r.Register(typed, "BillPaid")
	r.Register(wildcard)
	r.Register(wildcard)

	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.GetHandlers("BillPaid"), 2, "duplicate registrations are ignored")
	assert.Same(t, typed, r.GetHandlers("InvoicePaid")[0])
	assert.Len(t, r.GetHandlers("QuoteAccepted"), 1)

	r.Unregister(typed)
	assert.Len(t, r.GetHandlers("BillPaid"), 1)
	assert.Equal(t, 1, r.Len())

	r.Unregister(wildcard)
	assert.Empty(t, r.GetHandlers("BillPaid"))
	assert.Zero(t, r.Len())
}
