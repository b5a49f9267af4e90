package domain_app_config

import (
	"github.com/nine-muses/cuesong/usecase"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known config keys interpreted at startup. Disabled sources are a
// separator-joined name list; suffix overrides carry the source name as a
// key suffix and a separator-joined extension list as the value.
const (
	PluginConfigKeyDisabled             = "plugin_disabled"
	PluginConfigKeySuffixOverridePrefix = "plugin_suffix_override_"
)

type AppPlaylistPluginConfig struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ConfigKey   string             `bson:"config_key"`
	ConfigValue string             `bson:"config_value"`
}

// AppPlaylistPluginConfigUsecase defines the usecase interface for playlist plugin configuration.
// It embeds the generic ConfigUsecase to provide standard GetAll/ReplaceAll operations.
type AppPlaylistPluginConfigUsecase interface {
	usecase.ConfigUsecase[AppPlaylistPluginConfig]
}
