// Package events defines the domain events exchanged between modules.
package events

import (
	"cotizador_backend/platform/events"

	"github.com/google/uuid"
)

// Event names for subscription.
const (
	QuotationCreatedName      = "quotation.created"
	QuotationStateChangedName = "quotation.state_changed"
)

// QuotationCreated fires after a quotation and its items are persisted.
type QuotationCreated struct {
	events.BaseEvent
	QuotationID uuid.UUID
	Number      string
	CustomerID  uuid.UUID
}

// EventName returns the event identifier.
func (e QuotationCreated) EventName() string { return QuotationCreatedName }

// QuotationStateChanged fires after a successful state transition.
// The contact fields carry the snapshot taken at creation so handlers
// never have to reach back into the users table.
type QuotationStateChanged struct {
	events.BaseEvent
	QuotationID  uuid.UUID
	Number       string
	FromState    string
	ToState      string
	ContactName  string
	ContactEmail string
	Total        string
}

// EventName returns the event identifier.
func (e QuotationStateChanged) EventName() string { return QuotationStateChangedName }
