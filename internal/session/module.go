package session

import (
	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
)

// Module wires the in-memory batch session store.
var Module = fx.Provide(newStore)

func newStore(cfg *config.Config) *Store {
	return NewStore(cfg.SessionTTL)
}
