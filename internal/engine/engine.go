package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/auth"
	"github.com/lazypower/bangapda/internal/match"
	"github.com/lazypower/bangapda/internal/metrics"
	"github.com/lazypower/bangapda/internal/store"
)

// Engine orchestrates search, accounts, the request inbox and chats on top
// of the store.
type Engine struct {
	DB      *store.DB
	Log     *zap.Logger
	Metrics *metrics.Collector
	Tokens  *auth.Issuer
	Opts    match.Options

	newID func() string
}

// New creates a new Engine with the default selection policy. A nil logger
// is replaced with a no-op one.
func New(db *store.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		DB:    db,
		Log:   log,
		Opts:  match.DefaultOptions(),
		newID: uuid.NewString,
	}
}

// SetMetrics configures the metrics collector.
func (e *Engine) SetMetrics(m *metrics.Collector) {
	e.Metrics = m
}

// SetIssuer configures the session token issuer used by Login.
func (e *Engine) SetIssuer(iss *auth.Issuer) {
	e.Tokens = iss
}
