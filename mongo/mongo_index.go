package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nine-muses/cuesong/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateIndexes(db Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Playlist Collection - 路径唯一 + 检索排序索引
	playlistCollection := db.Collection(domain.CollectionFileEntityPlaylistScene)
	createUniqueIndex(ctx, playlistCollection, bson.D{{Key: "path", Value: 1}}, "path_unique")
	createIndex(ctx, playlistCollection, bson.D{{Key: "provider", Value: 1}}, "provider")
	createIndex(ctx, playlistCollection, bson.D{{Key: "suffix", Value: 1}}, "suffix")
	createIndex(ctx, playlistCollection, bson.D{{Key: "track_count", Value: 1}}, "track_count")
	createIndex(ctx, playlistCollection, bson.D{{Key: "created_at", Value: -1}}, "created_at")
	createIndex(ctx, playlistCollection, bson.D{{Key: "updated_at", Value: -1}}, "updated_at")
	createTextIndex(ctx, playlistCollection, bson.D{
		{Key: "title", Value: "text"},
		{Key: "performer", Value: "text"},
		{Key: "file_name", Value: "text"},
		{Key: "tracks.title", Value: "text"},
	}, "playlist_text_search")
	// 拼音索引
	createIndex(ctx, playlistCollection, bson.D{{Key: "title_pinyin_full", Value: 1}}, "title_pinyin_full")
	createIndex(ctx, playlistCollection, bson.D{{Key: "tracks.title_pinyin_full", Value: 1}}, "track_title_pinyin_full")
	createIndex(ctx, playlistCollection, bson.D{{Key: "tracks.performer_pinyin_full", Value: 1}}, "track_performer_pinyin_full")
	// 复合索引优化
	createIndex(ctx, playlistCollection, bson.D{
		{Key: "provider", Value: 1},
		{Key: "created_at", Value: -1}}, "provider_created_compound")
	createIndex(ctx, playlistCollection, bson.D{
		{Key: "suffix", Value: 1},
		{Key: "track_count", Value: 1}}, "suffix_track_count_compound")

	// Scan Record Collection
	scanRecordCollection := db.Collection(domain.CollectionFileEntityPlaylistSceneScanRecord)
	createIndex(ctx, scanRecordCollection, bson.D{{Key: "started_at", Value: -1}}, "started_at")
	createIndex(ctx, scanRecordCollection, bson.D{{Key: "status", Value: 1}}, "status")
	createIndex(ctx, scanRecordCollection, bson.D{
		{Key: "status", Value: 1},
		{Key: "started_at", Value: -1}}, "status_started_compound")

	// Account Collection
	accountCollection := db.Collection(domain.CollectionAppAccount)
	createUniqueIndex(ctx, accountCollection, bson.D{{Key: "user_name", Value: 1}}, "user_name_unique")

	// Plugin Config Collection
	configCollection := db.Collection(domain.CollectionAppPlaylistPluginConfigs)
	createUniqueIndex(ctx, configCollection, bson.D{{Key: "config_key", Value: 1}}, "config_key_unique")
}

func createIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
) {
	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetBackground(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		fmt.Printf("创建索引 '%s' 失败: %v\n", name, err)
	} else {
		fmt.Printf("索引 '%s' 创建成功\n", name)
	}
}

func createUniqueIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
) {
	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetBackground(true).SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		fmt.Printf("创建唯一索引 '%s' 失败: %v\n", name, err)
	} else {
		fmt.Printf("唯一索引 '%s' 创建成功\n", name)
	}
}

// 创建文本索引，避免重复创建（MongoDB每个集合只能有一个文本索引）
func createTextIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
) {
	// 先检查是否已存在同名索引
	specs, err := collection.Indexes().ListSpecifications(ctx)
	if err != nil {
		fmt.Printf("检查索引失败: %v\n", err)
		// 如果检查失败，仍然尝试创建索引
		indexModel := mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(name).SetBackground(true),
		}

		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			fmt.Printf("创建索引 '%s' 失败: %v\n", name, err)
		} else {
			fmt.Printf("索引 '%s' 创建成功\n", name)
		}
		return
	}

	// 遍历现有索引
	for _, spec := range specs {
		// 如果已存在同名索引，跳过创建
		if spec.Name == name {
			fmt.Printf("索引 '%s' 已存在，跳过创建\n", name)
			return
		}

		// 检查是否已存在文本索引
		isExistingTextIndex := false
		var specKeys bson.D
		if err := bson.Unmarshal(spec.KeysDocument, &specKeys); err == nil {
			for _, key := range specKeys {
				if key.Value == "text" {
					isExistingTextIndex = true
					break
				}
			}
		}

		// 检查是否要创建的也是文本索引
		isNewTextIndex := false
		for _, key := range keys {
			if key.Value == "text" {
				isNewTextIndex = true
				break
			}
		}

		// 如果已存在文本索引且要创建的也是文本索引，则跳过
		if isExistingTextIndex && isNewTextIndex {
			fmt.Printf("集合已存在文本索引 '%s'，跳过创建新的文本索引 '%s'\n", spec.Name, name)
			return
		}
	}

	// 创建索引
	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetBackground(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// 如果是因为已存在文本索引导致的错误，给出提示信息
		if strings.Contains(err.Error(), "language override unsupported") {
			fmt.Printf("集合已存在文本索引，无法创建新的文本索引 '%s'。请检查数据库中是否已存在其他文本索引。\n", name)
		} else {
			fmt.Printf("创建索引 '%s' 失败: %v\n", name, err)
		}
	} else {
		fmt.Printf("索引 '%s' 创建成功\n", name)
	}
}

// DropTextIndexes 清理历史文本索引，启动时在CreateIndexes之前调用
func DropTextIndexes(db Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collections := []struct {
		name           string
		collectionName string
	}{
		{"播放列表集合", domain.CollectionFileEntityPlaylistScene},
	}

	for _, coll := range collections {
		collection := db.Collection(coll.collectionName)
		specs, err := collection.Indexes().ListSpecifications(ctx)
		if err != nil {
			fmt.Printf("获取%s索引列表失败: %v\n", coll.name, err)
			continue
		}

		// 检查是否需要删除索引
		needDrop := false
		for _, spec := range specs {
			var specKeys bson.D
			if err := bson.Unmarshal(spec.KeysDocument, &specKeys); err == nil {
				for _, key := range specKeys {
					if key.Value == "text" {
						needDrop = true
						break
					}
				}
			}
			if needDrop {
				break
			}
		}

		// 如果有文本索引，删除所有索引后重建
		if needDrop {
			fmt.Printf("%s中发现文本索引，删除所有索引\n", coll.name)

			if _, err := collection.Indexes().DropAll(ctx); err != nil {
				fmt.Printf("删除%s所有索引失败: %v\n", coll.name, err)
			} else {
				fmt.Printf("已删除%s的所有索引\n", coll.name)
			}
		}
	}
}
