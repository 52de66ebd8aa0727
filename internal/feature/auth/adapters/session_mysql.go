package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"yatube_backend/internal/feature/auth/domain/entity"
	"yatube_backend/internal/feature/auth/usecase"
)

// sessionMySQL はSessionRepositoryインターフェースのMySQL実装です。
// Redisが利用できない環境でのフォールバックとして使用されます。
type sessionMySQL struct {
	db *gorm.DB
}

// sessionMySQLがSessionRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SessionRepository = (*sessionMySQL)(nil)

// NewSessionMySQL はsessionMySQLの新しいインスタンスを生成します。
func NewSessionMySQL(db *gorm.DB) *sessionMySQL {
	return &sessionMySQL{db: db}
}

// Create は新しいセッションをデータベースに永続化します。
func (r *sessionMySQL) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID はセッションIDでセッションを取得します。
// セッションが存在しない場合、usecase.ErrSessionNotFoundを返します。
func (r *sessionMySQL) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Revoke は指定されたセッションを失効済みとしてマークします。
func (r *sessionMySQL) Revoke(ctx context.Context, id string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", now)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// CountByUserID はユーザーのアクティブなセッション数を返します。
func (r *sessionMySQL) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}

// DeleteOldestByUserID はユーザーの最も古いアクティブなセッションを削除します。
func (r *sessionMySQL) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest SessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Order("created_at ASC").
		First(&oldest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // 削除対象のセッションなし
		}
		return err
	}

	return r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", oldest.ID).Error
}
