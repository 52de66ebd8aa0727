package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yatube_backend/internal/feature/posts/domain/entity"
	"yatube_backend/internal/feature/posts/usecase"
)

// groupMySQL はGroupRepositoryインターフェースのMySQL実装です。
type groupMySQL struct {
	db *gorm.DB
}

// groupMySQLがGroupRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.GroupRepository = (*groupMySQL)(nil)

// NewGroupRepository は指定されたDB接続でgroupMySQLリポジトリの新しいインスタンスを生成します。
func NewGroupRepository(db *gorm.DB) *groupMySQL {
	return &groupMySQL{db: db}
}

// FindBySlug はスラッグでグループを取得します。
// グループが存在しない場合、usecase.ErrGroupNotFoundを返します。
func (r *groupMySQL) FindBySlug(ctx context.Context, slug string) (*entity.Group, error) {
	var group entity.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByID はIDでグループを取得します。
// グループが存在しない場合、usecase.ErrGroupNotFoundを返します。
func (r *groupMySQL) FindByID(ctx context.Context, id uint) (*entity.Group, error) {
	var group entity.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// List はタイトル順で全グループを返します。
func (r *groupMySQL) List(ctx context.Context) ([]entity.Group, error) {
	var groups []entity.Group
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
