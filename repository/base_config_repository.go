package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfigMongoRepository 配置仓储的MongoDB实现。
// 插件开关、后缀覆盖这类配置量很小，Get按单例取第一条，
// ReplaceAll 先清空再整组写入。
type ConfigMongoRepository[T any] struct {
	*BaseMongoRepository[T]
}

func NewConfigMongoRepository[T any](db mongo.Database, collection string) domain.ConfigRepository[T] {
	return &ConfigMongoRepository[T]{
		BaseMongoRepository: &BaseMongoRepository[T]{
			db:         db,
			collection: collection,
		},
	}
}

// Get 取第一条配置，集合为空视为错误
func (r *ConfigMongoRepository[T]) Get(ctx context.Context) (*T, error) {
	coll := r.db.Collection(r.collection)
	var config T
	if err := coll.FindOne(ctx, bson.M{}).Decode(&config); err != nil {
		return nil, fmt.Errorf("configuration not found: %w", err)
	}
	return &config, nil
}

func (r *ConfigMongoRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.BaseMongoRepository.GetAll(ctx)
}

// ReplaceAll 非事务的整组覆盖：先删后插。
// 中途失败可能让配置短暂为空，启动期写入可以接受。
func (r *ConfigMongoRepository[T]) ReplaceAll(ctx context.Context, configs []*T) error {
	coll := r.db.Collection(r.collection)

	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete existing configs: %w", err)
	}
	if len(configs) == 0 {
		return nil
	}

	docs := make([]interface{}, len(configs))
	for i, config := range configs {
		r.applyTimestamps(config, true)
		docs[i] = config
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert new configs: %w", err)
	}
	return nil
}

// SearchableMongoRepository 带名称与路径检索的MongoDB实现。
// 约定实体的bson字段名为 name 和 path。
type SearchableMongoRepository[T any] struct {
	*BaseMongoRepository[T]
}

func NewSearchableMongoRepository[T any](db mongo.Database, collection string) domain.SearchableRepository[T] {
	return &SearchableMongoRepository[T]{
		BaseMongoRepository: &BaseMongoRepository[T]{
			db:         db,
			collection: collection,
		},
	}
}

func (r *SearchableMongoRepository[T]) GetByName(ctx context.Context, name string) (*T, error) {
	if name == "" {
		return nil, errors.New("name cannot be empty")
	}
	return r.GetOneByFilter(ctx, bson.M{"name": name})
}

// GetByNamePattern 名称模糊匹配，忽略大小写
func (r *SearchableMongoRepository[T]) GetByNamePattern(ctx context.Context, pattern string) ([]*T, error) {
	if pattern == "" {
		return nil, errors.New("pattern cannot be empty")
	}
	return r.GetByFilter(ctx, bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}})
}

// GetByPath 按来源文件路径精确定位
func (r *SearchableMongoRepository[T]) GetByPath(ctx context.Context, path string) (*T, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	return r.GetOneByFilter(ctx, bson.M{"path": path})
}

// AuditableMongoRepository 带创建时间范围查询的MongoDB实现
type AuditableMongoRepository[T any] struct {
	*BaseMongoRepository[T]
}

func NewAuditableMongoRepository[T any](db mongo.Database, collection string) domain.AuditableRepository[T] {
	return &AuditableMongoRepository[T]{
		BaseMongoRepository: &BaseMongoRepository[T]{
			db:         db,
			collection: collection,
		},
	}
}

func (r *AuditableMongoRepository[T]) GetCreatedAfter(ctx context.Context, after primitive.DateTime) ([]*T, error) {
	return r.GetByFilter(ctx, bson.M{"created_at": bson.M{"$gt": after}})
}

func (r *AuditableMongoRepository[T]) GetCreatedBetween(ctx context.Context, start, end primitive.DateTime) ([]*T, error) {
	filter := bson.M{
		"created_at": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	return r.GetByFilter(ctx, filter)
}
