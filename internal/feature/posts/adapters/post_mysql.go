// Package adapters はpostsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yatube_backend/internal/feature/posts/domain/entity"
	"yatube_backend/internal/feature/posts/usecase"
)

// newestFirst は全一覧で共通の並び順です。公開日時の降順、同時刻はIDの降順。
const newestFirst = "pub_date DESC, id DESC"

// postMySQL はPostRepositoryインターフェースのMySQL実装です。
type postMySQL struct {
	db *gorm.DB
}

// postMySQLがPostRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PostRepository = (*postMySQL)(nil)

// NewPostRepository は指定されたDB接続でpostMySQLリポジトリの新しいインスタンスを生成します。
func NewPostRepository(db *gorm.DB) *postMySQL {
	return &postMySQL{db: db}
}

// Create は投稿をデータベースに追加します。IDと公開日時はGORMが設定します。
func (r *postMySQL) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindByID は著者とグループを含めて投稿を取得します。
// 投稿が存在しない場合、usecase.ErrPostNotFoundを返します。
func (r *postMySQL) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdateTextAndGroup は投稿の本文とグループ列のみを更新します。
// 列を明示することで著者と公開日時の不変条件をストレージ層でも保証します。
func (r *postMySQL) UpdateTextAndGroup(ctx context.Context, id uint, text string, groupID *uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"text":     text,
			"group_id": groupID,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrPostNotFound
	}
	return nil
}

// List は新しい順で全投稿の1ページ分を返します。
func (r *postMySQL) List(ctx context.Context, limit, offset int) ([]entity.Post, error) {
	var posts []entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Order(newestFirst).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Count は全投稿数を返します。
func (r *postMySQL) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Post{}).Count(&count).Error
	return count, err
}

// ListByGroup は新しい順で指定グループの投稿の1ページ分を返します。
func (r *postMySQL) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]entity.Post, error) {
	var posts []entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("group_id = ?", groupID).
		Order(newestFirst).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByGroup は指定グループの投稿数を返します。
func (r *postMySQL) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// ListByAuthor は新しい順で指定著者の投稿の1ページ分を返します。
func (r *postMySQL) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]entity.Post, error) {
	var posts []entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("author_id = ?", authorID).
		Order(newestFirst).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByAuthor は指定著者の投稿数を返します。
func (r *postMySQL) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
