package compworld

import (
	"github.com/colonyrt/compworld/engine/config"
	"github.com/colonyrt/compworld/engine/entity"
	"github.com/colonyrt/compworld/engine/game"
)

// RegisterKind registers a component type so that it can be saved and restored
func RegisterKind(name string, prototype entity.Component) {
	entity.RegisterKind(name, prototype)
}

// NewBody creates a transform-only component
func NewBody(name string) *entity.Body {
	return entity.NewBody(name)
}

// NewWorld creates the service of the world configured in the config file.
// rootFactory creates the root of the world unless it is restored from storage.
func NewWorld(rootFactory game.RootFactory) (*game.Service, error) {
	return game.NewService(config.Get(), rootFactory)
}

// SetConfigFile sets the config file path (compworld.ini by default)
func SetConfigFile(path string) {
	config.SetConfigFile(path)
}
