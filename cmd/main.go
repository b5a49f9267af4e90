package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/nine-muses/cuesong/api/route"
	"github.com/nine-muses/cuesong/bootstrap"
	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/domain/domain_app/domain_app_config"
	"github.com/nine-muses/cuesong/domain/domain_file_entity"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/mongo"
	"github.com/nine-muses/cuesong/repository"
	"github.com/nine-muses/cuesong/repository/repository_app/repository_app_account"
	"github.com/nine-muses/cuesong/repository/repository_app/repository_app_config"
	"github.com/nine-muses/cuesong/repository/repository_file_entity/scene_playlist/scene_playlist_repository"
	"github.com/nine-muses/cuesong/usecase/usecase_app/usecase_app_account"
	"github.com/nine-muses/cuesong/usecase/usecase_app/usecase_app_config"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_provider"
	"github.com/gin-gonic/gin"
)

func main() {
	app := bootstrap.App()
	env := app.Env
	db := app.Mongo.Database(env.DBName)
	defer app.CloseDBConnection()

	timeout := time.Duration(env.ContextTimeout) * time.Second

	// 文本索引定义变更时需先清理旧索引再重建
	if env.DBRebuildIndexes {
		mongo.DropTextIndexes(db)
	}
	mongo.CreateIndexes(db)

	seedAdmin(env, db, timeout)

	registry := scene_playlist_provider.NewDefaultRegistry()
	applyPluginConfigs(registry, db, timeout)

	playlistRepo := scene_playlist_repository.NewPlaylistRepository(db, domain.CollectionFileEntityPlaylistScene)
	scanRepo := repository.NewBaseMongoRepository[scene_playlist_models.ScanRecordMetadata](
		db, domain.CollectionFileEntityPlaylistSceneScanRecord)
	detector := domain_file_entity.NewFileDetector()

	processUsecase := scene_playlist.NewPlaylistProcessingUsecase(
		registry, detector, playlistRepo, scanRepo, env.ScanTimeoutMinutes)
	extractUsecase := scene_playlist.NewPlaylistExtractUsecase(registry, timeout)

	engine := gin.Default()
	route.Setup(env, timeout, db, engine, processUsecase, extractUsecase)

	if err := engine.Run(env.ServerAddress); err != nil {
		log.Fatal(err)
	}
}

func seedAdmin(env *bootstrap.Env, db mongo.Database, timeout time.Duration) {
	if env.AdminUserName == "" || env.AdminPassword == "" {
		return
	}
	repo := repository_app_account.NewAppAccountRepository(db, domain.CollectionAppAccount)
	uc := usecase_app_account.NewAppAccountUsecase(repo, timeout)
	if err := uc.EnsureAdmin(context.Background(), env.AdminUserName, env.AdminPassword); err != nil {
		log.Printf("管理员账户初始化失败: %v", err)
	}
}

// applyPluginConfigs 把数据库里的插件配置套用到来源注册表
func applyPluginConfigs(registry *scene_playlist_provider.Registry, db mongo.Database, timeout time.Duration) {
	repo := repository_app_config.NewAppPlaylistPluginConfigRepository(db, domain.CollectionAppPlaylistPluginConfigs)
	uc := usecase_app_config.NewAppPlaylistPluginConfigUsecase(repo, timeout)

	configs, err := uc.GetAll(context.Background())
	if err != nil {
		log.Printf("读取插件配置失败: %v", err)
		return
	}
	for _, config := range configs {
		switch {
		case config.ConfigKey == domain_app_config.PluginConfigKeyDisabled:
			for _, name := range splitConfigList(config.ConfigValue) {
				registry.Disable(name)
			}
		case strings.HasPrefix(config.ConfigKey, domain_app_config.PluginConfigKeySuffixOverridePrefix):
			name := strings.TrimPrefix(config.ConfigKey, domain_app_config.PluginConfigKeySuffixOverridePrefix)
			registry.OverrideSuffixes(name, splitConfigList(config.ConfigValue))
		}
	}
}

func splitConfigList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
