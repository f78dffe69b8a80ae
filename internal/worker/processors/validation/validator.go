package validation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/triggers"
)

var ErrInvalidEnvelope = errors.New("invalid envelope")

type Validator struct {
	config *config.Config
	logger *logger.Logger
}

func New(cfg *config.Config, logger *logger.Logger) *Validator {
	return &Validator{
		config: cfg,
		logger: logger,
	}
}

// ValidateEnvelope checks the fields every trigger message must carry before
// its payload is parsed.
func (v *Validator) ValidateEnvelope(id uuid.UUID, t triggers.Trigger, sessionID string, payload []byte) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidEnvelope)
	}

	// Dedup markers are scoped per session
	if sessionID == "" && (t == triggers.CheckoutView || t == triggers.OrderComplete) {
		return fmt.Errorf("%w: %s requires a session_id", ErrInvalidEnvelope, t)
	}

	if t != triggers.PageRender && len(payload) == 0 {
		return fmt.Errorf("%w: %s requires a payload", ErrInvalidEnvelope, t)
	}

	v.logger.Debug("Envelope %s (%s) is valid", id, t)
	return nil
}
