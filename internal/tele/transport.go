package tele

import (
	"context"

	tele_config "github.com/temoto/coinvend/internal/tele/config"
	"github.com/temoto/coinvend/log2"
)

// Tele transport contract:
// - Init fails only with invalid config, ignores network errors
// - Send* queue message for delivery and return false only if it was certainly lost
// - application may start without network available
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error
	Close()
	SendTelemetry(payload []byte) bool
	SendError(payload []byte) bool
}
