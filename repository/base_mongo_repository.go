package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BaseMongoRepository 通用仓储的MongoDB实现。
// 通过反射识别实体上的 _id 与时间戳字段，实体本身不感知存储层。
type BaseMongoRepository[T any] struct {
	db         mongo.Database
	collection string
}

func NewBaseMongoRepository[T any](db mongo.Database, collection string) domain.BaseRepository[T] {
	return &BaseMongoRepository[T]{
		db:         db,
		collection: collection,
	}
}

// Create 插入新实体并回填生成的ID
func (r *BaseMongoRepository[T]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	r.applyTimestamps(entity, true)

	coll := r.db.Collection(r.collection)
	resultID, err := coll.InsertOne(ctx, entity)
	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}

	if oid, ok := resultID.(primitive.ObjectID); ok {
		r.assignEntityID(entity, oid)
	}
	return nil
}

func (r *BaseMongoRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	if id.IsZero() {
		return nil, errors.New("id cannot be empty")
	}

	coll := r.db.Collection(r.collection)
	var entity T
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entity); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, fmt.Errorf("entity not found with id: %s", id.Hex())
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return &entity, nil
}

// Update 按实体ID整体覆盖，目标文档不存在时插入（upsert语义）
func (r *BaseMongoRepository[T]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	id := r.entityID(entity)
	if id.IsZero() {
		return errors.New("entity ID cannot be empty")
	}

	r.applyTimestamps(entity, false)

	coll := r.db.Collection(r.collection)
	opts := options.Update().SetUpsert(true)
	if _, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": entity}, opts); err != nil {
		return fmt.Errorf("failed to update or insert entity: %w", err)
	}
	return nil
}

// UpdateByID 按ID更新指定字段，updated_at 随更新文档一起写入。
// 返回值表示是否有文档被修改。
func (r *BaseMongoRepository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (bool, error) {
	if id.IsZero() {
		return false, errors.New("id cannot be empty")
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = now
	} else if update["$set"] == nil {
		update["$set"] = bson.M{"updated_at": now}
	}

	coll := r.db.Collection(r.collection)
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, fmt.Errorf("failed to update entity: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *BaseMongoRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return errors.New("id cannot be empty")
	}

	coll := r.db.Collection(r.collection)
	deletedCount, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if deletedCount == 0 {
		return fmt.Errorf("entity not found with id: %s", id.Hex())
	}
	return nil
}

// CreateMany 批量插入并回填各自生成的ID
func (r *BaseMongoRepository[T]) CreateMany(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entities))
	for i, entity := range entities {
		r.applyTimestamps(entity, true)
		docs[i] = entity
	}

	coll := r.db.Collection(r.collection)
	resultIDs, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create entities: %w", err)
	}

	for i, id := range resultIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(entities) {
			r.assignEntityID(entities[i], oid)
		}
	}
	return nil
}

func (r *BaseMongoRepository[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	coll := r.db.Collection(r.collection)
	deletedCount, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entities: %w", err)
	}
	return deletedCount, nil
}

func (r *BaseMongoRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.GetByFilter(ctx, bson.M{})
}

func (r *BaseMongoRepository[T]) GetByFilter(ctx context.Context, filter interface{}) ([]*T, error) {
	coll := r.db.Collection(r.collection)
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find entities: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []*T
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}
	return entities, nil
}

// GetOneByFilter 查询单个实体，未命中返回 (nil, nil) 而不是错误
func (r *BaseMongoRepository[T]) GetOneByFilter(ctx context.Context, filter interface{}) (*T, error) {
	coll := r.db.Collection(r.collection)
	var entity T
	if err := coll.FindOne(ctx, filter).Decode(&entity); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entity: %w", err)
	}
	return &entity, nil
}

func (r *BaseMongoRepository[T]) Count(ctx context.Context, filter interface{}) (int64, error) {
	coll := r.db.Collection(r.collection)
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

func (r *BaseMongoRepository[T]) GetPaginated(ctx context.Context, filter interface{}, skip, limit int64) ([]*T, error) {
	coll := r.db.Collection(r.collection)
	opts := options.Find().SetSkip(skip).SetLimit(limit)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find entities: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []*T
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}
	return entities, nil
}

func (r *BaseMongoRepository[T]) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if id.IsZero() {
		return false, errors.New("id cannot be empty")
	}
	count, err := r.Count(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BaseMongoRepository[T]) ExistsByFilter(ctx context.Context, filter interface{}) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyTimestamps 写入 created_at/updated_at。
// 字段类型兼容 primitive.DateTime 和 time.Time 两种声明方式。
func (r *BaseMongoRepository[T]) applyTimestamps(entity *T, isCreate bool) {
	if entity == nil {
		return
	}
	val := reflect.ValueOf(entity).Elem()
	typ := val.Type()

	nowTime := time.Now()
	nowDateTime := primitive.NewDateTimeFromTime(nowTime)

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		switch bsonFieldName(typ.Field(i)) {
		case "created_at":
			if !isCreate {
				continue
			}
		case "updated_at":
		default:
			continue
		}

		switch field.Type() {
		case reflect.TypeOf(nowDateTime):
			field.Set(reflect.ValueOf(nowDateTime))
		case reflect.TypeOf(nowTime):
			field.Set(reflect.ValueOf(nowTime))
		}
	}
}

// entityID 反射读取实体的 _id 字段，没有或为空时返回 NilObjectID
func (r *BaseMongoRepository[T]) entityID(entity *T) primitive.ObjectID {
	if entity == nil {
		return primitive.NilObjectID
	}
	field, ok := findIDField(reflect.ValueOf(entity).Elem())
	if !ok {
		return primitive.NilObjectID
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return primitive.NilObjectID
		}
		return field.Elem().Interface().(primitive.ObjectID)
	}
	return field.Interface().(primitive.ObjectID)
}

// assignEntityID 把数据库生成的ID写回实体
func (r *BaseMongoRepository[T]) assignEntityID(entity *T, id primitive.ObjectID) {
	if entity == nil {
		return
	}
	field, ok := findIDField(reflect.ValueOf(entity).Elem())
	if !ok || !field.CanSet() {
		return
	}
	if field.Kind() == reflect.Ptr {
		newID := id
		field.Set(reflect.ValueOf(&newID))
		return
	}
	field.Set(reflect.ValueOf(id))
}

// findIDField 定位bson标签为 _id 的 ObjectID 字段（支持指针字段）
func findIDField(val reflect.Value) (reflect.Value, bool) {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() {
			continue
		}
		name := bsonFieldName(typ.Field(i))
		if name != "_id" && name != "ID" {
			continue
		}
		t := field.Type()
		if t == reflect.TypeOf(primitive.ObjectID{}) || t == reflect.TypeOf(&primitive.ObjectID{}) {
			return field, true
		}
	}
	return reflect.Value{}, false
}

// bsonFieldName 解析bson标签名，去掉omitempty之类的选项；
// 没有标签时退回Go字段名
func bsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("bson")
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}
