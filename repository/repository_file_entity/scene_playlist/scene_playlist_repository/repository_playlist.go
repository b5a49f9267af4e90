package scene_playlist_repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/domain/domain_util"
	"github.com/nine-muses/cuesong/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type playlistRepository struct {
	db         mongo.Database
	collection string
}

func NewPlaylistRepository(db mongo.Database, collection string) scene_playlist_interface.PlaylistRepository {
	return &playlistRepository{
		db:         db,
		collection: collection,
	}
}

// Upsert 以规范化路径为幂等键写入播放列表
func (r *playlistRepository) Upsert(ctx context.Context, playlist *scene_playlist_models.PlaylistMetadata) error {
	coll := r.db.Collection(r.collection)
	now := time.Now().UTC()

	filter := bson.M{"path": playlist.Path}

	update := playlist.ToUpdateDoc()
	update["$setOnInsert"] = bson.M{
		"_id":        playlist.ID,
		"created_at": now,
	}

	opts := options.Update().SetUpsert(true)
	result, err := coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("播放列表upsert失败: %w", err)
	}

	if result.UpsertedID != nil {
		playlist.ID = result.UpsertedID.(primitive.ObjectID)
		playlist.CreatedAt = now
	}
	playlist.UpdatedAt = now
	return nil
}

func (r *playlistRepository) GetPlaylistItems(
	ctx context.Context,
	start, end, sort, order, search, provider string,
) ([]scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	coll := r.db.Collection(r.collection)

	// 构建聚合管道。过滤在先（搜索条件涉及音轨数组），列表视图不携带音轨
	pipeline := []bson.D{}
	if match := r.buildMatchStage(search, provider); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{
		{Key: "$project", Value: bson.D{
			{Key: "tracks", Value: 0},
		}},
	})

	// 添加排序
	pipeline = append(pipeline, r.buildSortStage(r.validateSortField(sort), order))

	// 添加分页
	pipeline = append(pipeline, r.buildPaginationStage(start, end)...)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []scene_playlist_models.PlaylistMetadata
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	return results, nil
}

func (r *playlistRepository) GetPlaylistItemsMultipleSorting(
	ctx context.Context,
	start, end string,
	sortOrder []domain_util.SortOrder,
	search, provider string,
) ([]scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	coll := r.db.Collection(r.collection)

	pipeline := []bson.D{}
	if match := r.buildMatchStage(search, provider); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{
		{Key: "$project", Value: bson.D{
			{Key: "tracks", Value: 0},
		}},
	})

	// 添加多重排序阶段
	if sortStage := r.buildMultiSortStage(sortOrder); sortStage != nil {
		pipeline = append(pipeline, *sortStage)
	}

	pipeline = append(pipeline, r.buildPaginationStage(start, end)...)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []scene_playlist_models.PlaylistMetadata
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	return results, nil
}

func (r *playlistRepository) GetPlaylistByPath(ctx context.Context, path string) (*scene_playlist_models.PlaylistMetadata, error) {
	coll := r.db.Collection(r.collection)

	var result scene_playlist_models.PlaylistMetadata
	err := coll.FindOne(ctx, bson.M{"path": path}).Decode(&result)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("路径查询失败: %w", err)
	}
	return &result, nil
}

func (r *playlistRepository) GetAll(ctx context.Context) ([]*scene_playlist_models.PlaylistMetadata, error) {
	coll := r.db.Collection(r.collection)

	// 全量视图同样不携带音轨数组
	opts := options.Find().SetProjection(bson.M{"tracks": 0})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("全量查询失败: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*scene_playlist_models.PlaylistMetadata
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return results, nil
}

// GetPlaylistTracks 展开单个播放列表的音轨数组
func (r *playlistRepository) GetPlaylistTracks(ctx context.Context, playlistID string) ([]scene_playlist_models.TrackRecordMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	coll := r.db.Collection(r.collection)

	objectID, err := primitive.ObjectIDFromHex(playlistID)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist id format: %w", err)
	}

	pipeline := []bson.D{
		{
			{Key: "$match", Value: bson.D{
				{Key: "_id", Value: objectID},
			}},
		},
		{
			{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$tracks"},
			}},
		},
		{
			{Key: "$replaceRoot", Value: bson.D{
				{Key: "newRoot", Value: "$tracks"},
			}},
		},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []scene_playlist_models.TrackRecordMetadata
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	return results, nil
}

func (r *playlistRepository) GetPlaylistFilterCounts(
	ctx context.Context,
	search, provider string,
) (*scene_playlist_models.PlaylistFilterCounts, error) {
	coll := r.db.Collection(r.collection)

	pipeline := []bson.D{}
	if match := r.buildMatchStage(search, provider); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{
		{Key: "$facet", Value: bson.D{
			{Key: "total", Value: []bson.D{
				{{Key: "$count", Value: "count"}},
			}},
			{Key: "providers", Value: []bson.D{
				{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$provider"},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
			}},
		}},
	})

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total     []map[string]int `bson:"total"`
		Providers []struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		} `bson:"providers"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode count error: %w", err)
	}

	counts := &scene_playlist_models.PlaylistFilterCounts{
		ByProvider: make(map[string]int),
	}
	if len(result) > 0 {
		counts.Total = r.extractCount(result[0].Total)
		for _, p := range result[0].Providers {
			counts.ByProvider[p.ID] = p.Count
		}
	}
	return counts, nil
}

func (r *playlistRepository) DeleteByID(ctx context.Context, playlistID string) error {
	coll := r.db.Collection(r.collection)

	objectID, err := primitive.ObjectIDFromHex(playlistID)
	if err != nil {
		return fmt.Errorf("invalid playlist id format: %w", err)
	}

	if _, err := coll.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return fmt.Errorf("删除播放列表失败: %w", err)
	}
	return nil
}

func (r *playlistRepository) DeleteByPathPrefix(ctx context.Context, pathPrefix string) (int64, error) {
	coll := r.db.Collection(r.collection)

	filter := bson.M{"path": bson.M{
		"$regex": "^" + regexp.QuoteMeta(pathPrefix),
	}}
	deleted, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("按路径前缀删除失败: %w", err)
	}
	return deleted, nil
}

// 辅助函数
func (r *playlistRepository) extractCount(data []map[string]int) int {
	if len(data) > 0 {
		return data[0]["count"]
	}
	return 0
}

func (r *playlistRepository) validateSortField(sort string) string {
	sortMappings := map[string]string{
		"title":        "title",
		"title_pinyin": "title_pinyin_full",
		"performer":    "performer",
		"provider":     "provider",
		"file_name":    "file_name",
		"suffix":       "suffix",
		"size":         "size",
		"track_count":  "track_count",
		"year":         "header.rem.date",
		"genre":        "header.rem.genre",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	}

	if mapped, ok := sortMappings[strings.ToLower(sort)]; ok {
		return mapped
	}
	return "_id"
}

func (r *playlistRepository) buildMatchStage(search, provider string) bson.D {
	filter := bson.D{}

	if provider != "" {
		filter = append(filter, bson.E{Key: "provider", Value: provider})
	}

	// 全文搜索
	if search != "" {
		filter = append(filter, bson.E{Key: "$or", Value: []bson.D{
			{{Key: "title", Value: bson.D{{Key: "$regex", Value: search}, {Key: "$options", Value: "i"}}}},
			{{Key: "performer", Value: bson.D{{Key: "$regex", Value: search}, {Key: "$options", Value: "i"}}}},
			{{Key: "file_name", Value: bson.D{{Key: "$regex", Value: search}, {Key: "$options", Value: "i"}}}},
			{{Key: "header.rem.genre", Value: bson.D{{Key: "$regex", Value: search}, {Key: "$options", Value: "i"}}}},
			{{Key: "tracks.title", Value: bson.D{{Key: "$regex", Value: search}, {Key: "$options", Value: "i"}}}},
		}})
	}

	return filter
}

func (r *playlistRepository) buildSortStage(sort, order string) bson.D {
	sortOrder := 1
	if order == "desc" {
		sortOrder = -1
	}
	return bson.D{
		{Key: "$sort", Value: bson.D{
			{Key: sort, Value: sortOrder},
		}},
	}
}

func (r *playlistRepository) buildMultiSortStage(sortOrder []domain_util.SortOrder) *bson.D {
	if len(sortOrder) == 0 {
		return nil
	}

	sortCriteria := bson.D{}
	for _, so := range sortOrder {
		mappedField := r.validateSortField(so.Sort)
		orderVal := 1
		if strings.ToLower(so.Order) == "desc" {
			orderVal = -1
		}
		sortCriteria = append(sortCriteria, bson.E{Key: mappedField, Value: orderVal})
	}
	// 添加稳定性排序字段
	sortCriteria = append(sortCriteria, bson.E{Key: "_id", Value: 1})

	return &bson.D{{Key: "$sort", Value: sortCriteria}}
}

func (r *playlistRepository) buildPaginationStage(start, end string) []bson.D {
	startInt, err1 := strconv.Atoi(start)
	endInt, err2 := strconv.Atoi(end)

	// 参数验证
	if err1 != nil || err2 != nil || startInt < 0 || endInt <= startInt {
		return nil // 无效参数不添加分页阶段
	}

	skip := startInt
	limit := endInt - startInt

	var stages []bson.D
	if skip > 0 {
		stages = append(stages, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		stages = append(stages, bson.D{{Key: "$limit", Value: limit}})
	}

	return stages
}
