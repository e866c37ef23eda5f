package events

import (
	"time"

	"github.com/spec-kit/seller-admin-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSellerRegistered      EventType = "seller_registered"
	EventSellerProfileRevised  EventType = "seller_profile_revised"
	EventSellerStatusChanged   EventType = "seller_status_changed"
	EventAccountPasswordChange EventType = "account_password_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AccountID int64              `json:"account_id"`
	Role      domain.AccountRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID              string      `json:"id"`
	Type            EventType   `json:"type"`
	SellerAccountID int64       `json:"seller_account_id"`
	Actor           Actor       `json:"actor"`
	Timestamp       time.Time   `json:"timestamp"`
	Payload         interface{} `json:"payload"`
}

// SellerRegisteredPayload payload.
type SellerRegisteredPayload struct {
	AccountNo int64  `json:"account_no"`
	LoginID   string `json:"login_id"`
	NameKR    string `json:"name_kr"`
}

// SellerProfileRevisedPayload payload.
type SellerProfileRevisedPayload struct {
	VersionID     int64 `json:"version_id"`
	StatusChanged bool  `json:"status_changed"`
}

// SellerStatusChangedPayload payload.
type SellerStatusChangedPayload struct {
	OldStatus domain.SellerStatus `json:"old_status"`
	NewStatus domain.SellerStatus `json:"new_status"`
	VersionID int64               `json:"version_id"`
}
