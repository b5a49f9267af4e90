package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseRepository 实体仓储的通用契约。
// 播放列表扫描记录、账户等标准实体都走这一套CRUD，
// 实体结构需要带 _id 字段（primitive.ObjectID）。
type BaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Update(ctx context.Context, entity *T) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// 批量操作
	CreateMany(ctx context.Context, entities []*T) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)

	// 查询
	GetAll(ctx context.Context) ([]*T, error)
	GetByFilter(ctx context.Context, filter interface{}) ([]*T, error)
	GetOneByFilter(ctx context.Context, filter interface{}) (*T, error)
	Count(ctx context.Context, filter interface{}) (int64, error)
	GetPaginated(ctx context.Context, filter interface{}, skip, limit int64) ([]*T, error)

	// 存在性检查
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	ExistsByFilter(ctx context.Context, filter interface{}) (bool, error)
}

// ConfigRepository 配置项仓储契约，面向插件开关这类少量键值配置。
// Get 取单例配置，ReplaceAll 整组覆盖。
type ConfigRepository[T any] interface {
	Get(ctx context.Context) (*T, error)
	Update(ctx context.Context, config *T) error
	GetAll(ctx context.Context) ([]*T, error)
	ReplaceAll(ctx context.Context, configs []*T) error
}

// SearchableRepository 在通用CRUD之上补充名称与路径检索。
// 音轨条目这类按标题、来源文件定位的实体使用。
type SearchableRepository[T any] interface {
	BaseRepository[T]

	GetByName(ctx context.Context, name string) (*T, error)
	GetByNamePattern(ctx context.Context, pattern string) ([]*T, error)
	GetByPath(ctx context.Context, path string) (*T, error)
}

// AuditableRepository 在通用CRUD之上补充创建时间范围查询，
// 提取日志等留痕数据使用。实体需要带 created_at/updated_at 字段。
type AuditableRepository[T any] interface {
	BaseRepository[T]

	GetCreatedAfter(ctx context.Context, after primitive.DateTime) ([]*T, error)
	GetCreatedBetween(ctx context.Context, start, end primitive.DateTime) ([]*T, error)
}
