package repository_app_config

import (
	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/domain/domain_app/domain_app_config"
	"github.com/nine-muses/cuesong/mongo"
	"github.com/nine-muses/cuesong/repository"
)

// AppPlaylistPluginConfigRepository is an alias for the generic ConfigRepository.
// It handles collections of plugin configuration items.
type AppPlaylistPluginConfigRepository interface {
	domain.ConfigRepository[domain_app_config.AppPlaylistPluginConfig]
}

// NewAppPlaylistPluginConfigRepository creates a new repository for plugin configurations.
// It uses the generic ConfigMongoRepository implementation which supports GetAll and ReplaceAll.
func NewAppPlaylistPluginConfigRepository(db mongo.Database, collection string) AppPlaylistPluginConfigRepository {
	return repository.NewConfigMongoRepository[domain_app_config.AppPlaylistPluginConfig](db, collection)
}
