package persistence

import (
	"context"
	"errors"

	"github.com/Futarimiti/riichi-hairi/common/database"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/core/domain/entity"
	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionRecordCollection = "session_records"

type MongoSessionRecordRepository struct {
	mongo *database.MongoManager
}

func NewMongoSessionRecordRepository(mongo *database.MongoManager) repository.SessionRecordRepository {
	return &MongoSessionRecordRepository{mongo: mongo}
}

// Save 保存存档
func (r *MongoSessionRecordRepository) Save(ctx context.Context, record *entity.SessionRecord) error {
	collection := r.mongo.Db.Collection(sessionRecordCollection)

	doc := bson.M{
		"_id":        record.ID,
		"players":    record.Players,
		"notations":  record.Notations,
		"hand":       record.Hand,
		"phase":      record.Phase,
		"created_at": record.CreatedAt,
	}

	_, err := collection.InsertOne(ctx, doc)
	if err != nil {
		log.Error("保存会话存档失败: %v", err)
		return errors.Join(repository.ErrMongodb, err)
	}
	return nil
}

// FindByID 根据ID查找存档
func (r *MongoSessionRecordRepository) FindByID(ctx context.Context, id string) (*entity.SessionRecord, error) {
	collection := r.mongo.Db.Collection(sessionRecordCollection)

	var record entity.SessionRecord
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrRecordNotFound
		}
		log.Error("查询会话存档失败: %v", err)
		return nil, errors.Join(repository.ErrMongodb, err)
	}
	return &record, nil
}

// List 按创建时间倒序分页
func (r *MongoSessionRecordRepository) List(ctx context.Context, limit, offset int) ([]*entity.SessionRecord, error) {
	collection := r.mongo.Db.Collection(sessionRecordCollection)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("查询会话存档列表失败: %v", err)
		return nil, errors.Join(repository.ErrMongodb, err)
	}
	defer cursor.Close(ctx)

	records := make([]*entity.SessionRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析会话存档失败: %v", err)
		return nil, errors.Join(repository.ErrMongodb, err)
	}
	return records, nil
}
