package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"buildit/internal/resume"
)

const resumeCollection = "resumes"

// ConnectMongo 建立 MongoDB 连接并确认主节点可达。
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// MongoStore 把简历保存为 resumes 集合中的一个文档，email 唯一。
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(resumeCollection), now: time.Now}
}

// EnsureIndexes 创建 email 唯一索引，可重复调用。
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, email string) (*resume.Document, error) {
	key, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	if err := s.col.FindOne(ctx, bson.M{"email": key}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find resume: %w", err)
	}

	doc, err := fromBSON(raw)
	if err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

func (s *MongoStore) Save(ctx context.Context, email string, doc *resume.Document) error {
	key, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.New("resume document is nil")
	}

	now := s.now().UTC()
	doc.Email = key
	doc.LastUpdated = &now

	body, err := toBSON(doc)
	if err != nil {
		return err
	}

	_, err = s.col.ReplaceOne(ctx, bson.M{"email": key}, body, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert resume: %w", err)
	}
	return nil
}

// toBSON 经由 JSON 转换，保证字段名与 HTTP 接口一致；last_updated 以 BSON 日期保存。
func toBSON(doc *resume.Document) (bson.M, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode resume: %w", err)
	}

	var body bson.M
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return nil, fmt.Errorf("convert resume to bson: %w", err)
	}
	delete(body, "_id")
	if doc.LastUpdated != nil {
		body["last_updated"] = *doc.LastUpdated
	}
	return body, nil
}

func fromBSON(raw bson.M) (*resume.Document, error) {
	delete(raw, "_id")

	var lastUpdated *time.Time
	switch v := raw["last_updated"].(type) {
	case bson.DateTime:
		ts := v.Time().UTC()
		lastUpdated = &ts
	case time.Time:
		ts := v.UTC()
		lastUpdated = &ts
	}
	delete(raw, "last_updated")

	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("convert resume from bson: %w", err)
	}

	var doc resume.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	doc.LastUpdated = lastUpdated
	return &doc, nil
}
