package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civic/internal/model/post"
)

// Repo 帖子仓库
// 所有内嵌集合的变更都通过带条件的单次 UpdateOne 完成，
// 并发下的唯一性不变量在写入时刻保证，而不是只在读取时检查
type Repo struct {
	collection *mongo.Collection
}

// NewRepo 创建帖子仓库
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("posts"),
	}
}

// Create 创建帖子
func (r *Repo) Create(ctx context.Context, p *post.Post) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Likes == nil {
		p.Likes = []post.Like{}
	}
	if p.Comments == nil {
		p.Comments = []post.Comment{}
	}
	if p.Shares == nil {
		p.Shares = []post.Share{}
	}
	if p.Reports == nil {
		p.Reports = []post.Report{}
	}

	_, err := r.collection.InsertOne(ctx, p)
	return err
}

// FindByID 根据ID查询帖子
func (r *Repo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update 更新帖子
func (r *Repo) Update(ctx context.Context, id string, update bson.M) error {
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete 删除帖子
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByAuthor 删除作者的全部帖子（用户删除级联）
func (r *Repo) DeleteByAuthor(ctx context.Context, author string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"author": author})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List 查询帖子列表（支持分页、筛选和排序）
func (r *Repo) List(ctx context.Context, filter bson.M, sort bson.D, page, pageSize int64) ([]*post.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if len(sort) == 0 {
		sort = bson.D{bson.E{Key: "created_at", Value: -1}}
	}

	opts := options.Find().
		SetSort(sort).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []*post.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// RemoveLike 撤销点赞
// 守卫条件要求点赞存在，返回 false 表示该用户没有点赞记录
func (r *Repo) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "likes.user": userID},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// AddLike 点赞
// 守卫条件排除已点赞用户，同一用户并发点赞至多写入一条
func (r *Repo) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": post.Like{User: userID, CreatedAt: time.Now()}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// LikeCount 点赞数（从集合计算，不读缓存字段）
func (r *Repo) LikeCount(ctx context.Context, postID string) (int, error) {
	var result struct {
		Count int `bson:"count"`
	}
	opts := options.FindOne().SetProjection(bson.M{
		"count": bson.M{"$size": "$likes"},
	})
	err := r.collection.FindOne(ctx, bson.M{"_id": postID}, opts).Decode(&result)
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

// AddComment 追加评论
func (r *Repo) AddComment(ctx context.Context, postID string, comment post.Comment) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	return err
}

// AddReport 追加举报并触发 Reported 状态
// 守卫条件排除已举报用户：同一用户重复举报不会写入第二条
// 返回 false 表示守卫未命中（已举报过或帖子不存在，由调用方区分）
func (r *Repo) AddReport(ctx context.Context, postID string, report post.Report) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "reports.user": bson.M{"$ne": report.User}},
		bson.M{
			"$push": bson.M{"reports": report},
			"$set":  bson.M{"is_reported": true, "updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Moderate 记录审核裁决
// approve: 清除 Reported 标记，保持可见性不变
// reject:  清除 Reported 标记并隐藏内容（不删除）
func (r *Repo) Moderate(ctx context.Context, postID string, action post.ModerationAction, notes string) error {
	set := bson.M{
		"is_moderated":     true,
		"is_reported":      false,
		"moderation_notes": notes,
		"updated_at":       time.Now(),
	}
	if action == post.ModerationReject {
		set["is_public"] = false
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": set})
	return err
}

// FindReported 查询有未处理举报的帖子
func (r *Repo) FindReported(ctx context.Context, page, pageSize int64) ([]*post.Post, int64, error) {
	return r.List(ctx, bson.M{"is_reported": true}, bson.D{bson.E{Key: "updated_at", Value: -1}}, page, pageSize)
}

// FindAll 全量查询帖子（分析用，不含正文和图片）
func (r *Repo) FindAll(ctx context.Context) ([]*post.Post, error) {
	opts := options.Find().SetProjection(bson.M{
		"content": 0,
		"images":  0,
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*post.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByAuthor 统计作者的帖子数（对账用）
func (r *Repo) CountByAuthor(ctx context.Context, author string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"author": author})
}

// Count 统计帖子数量
func (r *Repo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}
