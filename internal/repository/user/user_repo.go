package user

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civic/internal/model/user"
)

// Repo 用户仓库
// 使用UUID作为ID，无需ObjectID转换
type Repo struct {
	collection *mongo.Collection
}

// NewRepo 创建用户仓库
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("users"),
	}
}

// Create 创建用户
func (r *Repo) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.LastActive.IsZero() {
		u.LastActive = now
	}

	_, err := r.collection.InsertOne(ctx, u)
	return err
}

// FindByID 根据ID查询用户
func (r *Repo) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail 根据邮箱查询用户
func (r *Repo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername 根据用户名查询用户
func (r *Repo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIDs 批量查询用户（用于关注列表展开）
func (r *Repo) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update 更新用户
func (r *Repo) Update(ctx context.Context, id string, update bson.M) error {
	// 自动更新updated_at
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// TouchLastActive 更新最近活跃时间
func (r *Repo) TouchLastActive(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_active": time.Now()},
	})
	return err
}

// SetRole 设置用户角色
func (r *Repo) SetRole(ctx context.Context, id string, role user.Role) error {
	return r.Update(ctx, id, bson.M{"$set": bson.M{"role": role}})
}

// Suspend 封禁用户并追加管理员备注
// admin_notes 是只追加的日志，使用管道更新做字符串拼接
func (r *Repo) Suspend(ctx context.Context, id string, until time.Time, reason string) error {
	note := fmt.Sprintf("\nSuspended on %s: %s", time.Now().Format(time.RFC3339), reason)
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"is_active":         false,
			"suspended_until":   until,
			"suspension_reason": reason,
			"admin_notes":       bson.M{"$concat": bson.A{"$admin_notes", note}},
			"updated_at":        time.Now(),
		}},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	return err
}

// Activate 解封用户并追加管理员备注
func (r *Repo) Activate(ctx context.Context, id string) error {
	note := fmt.Sprintf("\nActivated on %s", time.Now().Format(time.RFC3339))
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"is_active":         true,
			"suspended_until":   nil,
			"suspension_reason": "",
			"admin_notes":       bson.M{"$concat": bson.A{"$admin_notes", note}},
			"updated_at":        time.Now(),
		}},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	return err
}

// Delete 删除用户
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// PruneEdges 从所有用户的关注关系中移除指定ID
// 删除用户前必须完成，否则镜像边不变量会留下悬挂引用
func (r *Repo) PruneEdges(ctx context.Context, id string) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{}, bson.M{
		"$pull": bson.M{
			"followers": id,
			"following": id,
		},
	})
	return err
}

// IncTotalPosts 增减发帖计数
// 计数是可重算的缓存值，与帖子删除不要求同一事务，但失败必须被记录等待对账
func (r *Repo) IncTotalPosts(ctx context.Context, id string, delta int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"total_posts": delta},
	})
	return err
}

// RecountTotalPosts 对账：将发帖计数重置为真实值
func (r *Repo) RecountTotalPosts(ctx context.Context, id string, actual int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"total_posts": actual},
	})
	return err
}

// AddFollowing 向 a.following 中加入 b（带防重守卫）
// 返回 false 表示守卫未命中：a 不存在或已关注 b
func (r *Repo) AddFollowing(ctx context.Context, a, b string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": a, "following": bson.M{"$ne": b}},
		bson.M{"$addToSet": bson.M{"following": b}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// AddFollower 向 b.followers 中加入 a
func (r *Repo) AddFollower(ctx context.Context, b, a string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": b, "followers": bson.M{"$ne": a}},
		bson.M{"$addToSet": bson.M{"followers": a}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// RemoveFollowing 从 a.following 中移除 b
// 返回 false 表示边不存在
func (r *Repo) RemoveFollowing(ctx context.Context, a, b string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": a, "following": b},
		bson.M{"$pull": bson.M{"following": b}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// RemoveFollower 从 b.followers 中移除 a
func (r *Repo) RemoveFollower(ctx context.Context, b, a string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": b, "followers": a},
		bson.M{"$pull": bson.M{"followers": a}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// SearchFilter 构造大小写不敏感的模糊搜索条件
func SearchFilter(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	regex := primitive.Regex{Pattern: pattern, Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"full_name": regex},
			bson.M{"username": regex},
			bson.M{"email": regex},
		},
	}
}

// Search 模糊搜索用户（仅激活用户，按显示名排序）
func (r *Repo) Search(ctx context.Context, query string, page, pageSize int64) ([]*user.User, int64, error) {
	filter := SearchFilter(query)
	filter["is_active"] = true

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "full_name", Value: 1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// List 查询用户列表（支持分页和筛选）
func (r *Repo) List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*user.User, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FindAll 全量查询用户（分析用，不含密码等敏感字段）
func (r *Repo) FindAll(ctx context.Context) ([]*user.User, error) {
	opts := options.Find().SetProjection(bson.M{
		"password":    0,
		"admin_notes": 0,
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count 统计用户数量
func (r *Repo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}
