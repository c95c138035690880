package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civic/internal/model/analytics"
)

// SnapshotRepo 每日分析快照仓库
type SnapshotRepo struct {
	collection *mongo.Collection
}

// NewSnapshotRepo 创建快照仓库
func NewSnapshotRepo(db *mongo.Database) *SnapshotRepo {
	return &SnapshotRepo{
		collection: db.Collection("analytics"),
	}
}

// Create 写入快照
func (r *SnapshotRepo) Create(ctx context.Context, s *analytics.Snapshot) error {
	s.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, s)
	return err
}

// Latest 查询最新快照
func (r *SnapshotRepo) Latest(ctx context.Context) (*analytics.Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{bson.E{Key: "date", Value: -1}})

	var s analytics.Snapshot
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DateRange 查询日期区间内的快照，按日期倒序
func (r *SnapshotRepo) DateRange(ctx context.Context, start, end time.Time) ([]*analytics.Snapshot, error) {
	filter := bson.M{
		"date": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	opts := options.Find().SetSort(bson.D{bson.E{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snapshots []*analytics.Snapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
