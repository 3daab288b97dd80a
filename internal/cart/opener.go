package cart

import (
	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/storage"
)

// Opener creates one Store per page context over a shared port.
type Opener struct {
	port storage.Port
	log  *zap.Logger
}

func NewOpener(port storage.Port, log *zap.Logger) *Opener {
	return &Opener{port: port, log: log}
}

func (o *Opener) Open(key string) (*Store, error) {
	return NewStore(o.port, key, o.log)
}
