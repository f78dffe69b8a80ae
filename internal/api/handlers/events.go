package handlers

import (
	"errors"
	"io"
	"net/http"

	"datalayer/internal/api/middleware"
	"datalayer/internal/config"
	"datalayer/internal/datalayer"
	"datalayer/internal/dedup"
	"datalayer/internal/logger"
	"datalayer/internal/models"
	"datalayer/internal/sink"
	"datalayer/internal/triggers"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
)

// eventRequest is the body the storefront posts for a trigger. Only the
// fields the trigger reads need to be present.
type eventRequest struct {
	Page      models.PageContext `json:"page"`
	Currency  string             `json:"currency"`
	Product   *models.Product    `json:"product"`
	AddToCart *models.AddToCart  `json:"add_to_cart"`
	Cart      *models.Cart       `json:"cart"`
	Order     *models.Order      `json:"order"`
}

type EventHandler struct {
	config     *config.Config
	logger     *logger.Logger
	dispatcher *triggers.Dispatcher
	markers    dedup.KeyValueStore
	events     *sink.Kafka
}

// NewEventHandler serves trigger endpoints. markers backs server-side
// purchase markers; events, when not nil, receives a copy of every record.
func NewEventHandler(cfg *config.Config, logger *logger.Logger, dispatcher *triggers.Dispatcher, markers dedup.KeyValueStore, events *sink.Kafka) *EventHandler {
	return &EventHandler{
		config:     cfg,
		logger:     logger,
		dispatcher: dispatcher,
		markers:    markers,
		events:     events,
	}
}

// Handle returns the gin handler for trigger t. The response is
// {"data": [...records]} or, with ?format=script, a ready <script> block.
func (h *EventHandler) Handle(t triggers.Trigger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req eventRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sessionID := middleware.SessionID(c)
		secure := h.config.Env == "production"
		client := newCookieStore(c, secure)

		dl := sink.NewDataLayer()
		var out sink.Sink = dl
		if h.events != nil {
			publisher := h.events.WithHeaders(kafka.Header{Key: "session_id", Value: []byte(sessionID)})
			out = sink.Multi{dl, sink.BestEffort(publisher, func(r datalayer.Record, err error) {
				h.logger.Error("Failed to publish %s: %v", r.EventName(), err)
			})}
		}

		err := h.dispatcher.Dispatch(c.Request.Context(), t, triggers.Request{
			Scope:     datalayer.Scope{Page: req.Page, Currency: req.Currency},
			Product:   req.Product,
			AddToCart: req.AddToCart,
			Cart:      req.Cart,
			Order:     req.Order,
			Markers: dedup.Markers{
				Persistent: client,
				Session:    client,
				Server:     dedup.Namespace(h.markers, "session:"+sessionID+":"),
				ServerTTL:  h.config.SessionTTL,
			},
		}, out)
		if err != nil {
			if datalayer.IsMissingContext(err) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle event"})
			return
		}

		records := dl.Records()
		if c.Query("format") == "script" {
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.Status(http.StatusOK)
			if err := sink.RenderScript(c.Writer, records); err != nil {
				h.logger.Error("Failed to render script: %v", err)
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": records})
	}
}
