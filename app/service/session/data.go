package session

import (
	"errors"

	"crmchat/app/config"
	"crmchat/app/service/conversation"

	"github.com/samber/do"
	"github.com/samber/oops"
)

// ErrUnavailable marks storage failures. It is the only error class the
// resolver surfaces to its callers instead of absorbing.
var ErrUnavailable = errors.New("session storage unavailable")

// New picks the store backend from the config.
func New(di *do.Injector) (conversation.Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	switch cfg.Session.Backend {
	case "file":
		return NewFileStore(cfg.Session.FilePath)
	case "memory", "":
		return NewMemoryStore(cfg.Session.TTL), nil
	default:
		return nil, oops.Errorf("unknown session backend: %s", cfg.Session.Backend)
	}
}
