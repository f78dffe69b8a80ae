package processors

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"datalayer/internal/models"
	"datalayer/internal/triggers"
)

// Commerce sources a payload can come from. SourceNative payloads already
// use the storefront model shapes.
const (
	SourceNative      = "native"
	SourceWooCommerce = "woocommerce"
	SourceShopify     = "shopify"
)

// Envelope is one trigger message on the triggers topic.
type Envelope struct {
	ID        uuid.UUID          `json:"id"`
	Trigger   triggers.Trigger   `json:"trigger"`
	Source    string             `json:"source"`
	SessionID string             `json:"session_id"`
	Page      models.PageContext `json:"page"`
	Currency  string             `json:"currency"`
	Payload   json.RawMessage    `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}
