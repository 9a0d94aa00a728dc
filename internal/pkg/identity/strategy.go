package identity

import (
	"time"

	"github.com/etproforma/commerce/internal/domain/model"
)

// Strategy validates actor tokens minted by the external identity
// collaborator. The core performs no credential checks itself.
type Strategy interface {
	IssueToken(actor model.Actor) (string, error)
	ParseToken(token string) (model.Actor, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
