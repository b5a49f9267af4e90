package usecase_app_config

import (
	"time"

	"github.com/nine-muses/cuesong/domain/domain_app/domain_app_config"
	"github.com/nine-muses/cuesong/repository/repository_app/repository_app_config"
	"github.com/nine-muses/cuesong/usecase"
)

// AppPlaylistPluginConfigUsecase implements the usecase interface for playlist plugin configuration.
// It embeds the generic ConfigUsecase to handle the core GetAll/ReplaceAll logic.
type AppPlaylistPluginConfigUsecase struct {
	usecase.ConfigUsecase[domain_app_config.AppPlaylistPluginConfig]
}

// NewAppPlaylistPluginConfigUsecase creates a new usecase for playlist plugin configuration.
// It uses the generic NewConfigUsecase constructor for consistency.
func NewAppPlaylistPluginConfigUsecase(repo repository_app_config.AppPlaylistPluginConfigRepository, timeout time.Duration) domain_app_config.AppPlaylistPluginConfigUsecase {
	baseUsecase := usecase.NewConfigUsecase[domain_app_config.AppPlaylistPluginConfig](repo, timeout)
	return &AppPlaylistPluginConfigUsecase{
		ConfigUsecase: baseUsecase,
	}
}
