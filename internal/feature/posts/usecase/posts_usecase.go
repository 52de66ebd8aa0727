// Package usecase はpostsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	authentity "yatube_backend/internal/feature/auth/domain/entity"
	"yatube_backend/internal/feature/posts/domain/entity"
	"yatube_backend/internal/platform/pagination"
)

// PostRepository は投稿エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
// 一覧系メソッドはすべて新しい順（公開日時の降順）で結果を返します。
type PostRepository interface {
	// Create は新しい投稿をストレージに永続化し、IDと公開日時を設定します。
	Create(ctx context.Context, post *entity.Post) error

	// FindByID は著者とグループを含めて投稿を取得します。
	FindByID(ctx context.Context, id uint) (*entity.Post, error)

	// UpdateTextAndGroup は投稿の本文とグループのみを更新します。
	// 著者と公開日時は変更されません。
	UpdateTextAndGroup(ctx context.Context, id uint, text string, groupID *uint) error

	// List は全投稿の1ページ分を返します。
	List(ctx context.Context, limit, offset int) ([]entity.Post, error)

	// Count は全投稿数を返します。
	Count(ctx context.Context) (int64, error)

	// ListByGroup は指定グループの投稿の1ページ分を返します。
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]entity.Post, error)

	// CountByGroup は指定グループの投稿数を返します。
	CountByGroup(ctx context.Context, groupID uint) (int64, error)

	// ListByAuthor は指定著者の投稿の1ページ分を返します。
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]entity.Post, error)

	// CountByAuthor は指定著者の投稿数を返します。
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// GroupRepository はグループエンティティの読み取りを抽象化します。
type GroupRepository interface {
	// FindBySlug はスラッグでグループを取得します。
	FindBySlug(ctx context.Context, slug string) (*entity.Group, error)

	// FindByID はIDでグループを取得します。
	FindByID(ctx context.Context, id uint) (*entity.Group, error)

	// List はフォームの選択肢として全グループを返します。
	List(ctx context.Context) ([]entity.Group, error)
}

// UserDirectory は投稿の著者解決に必要なユーザー参照を抽象化します。
// authフィーチャーのリポジトリがこのインターフェースを満たします。
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*authentity.User, error)
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// PostInput は投稿フォームから受け取る値です。著者はフォームに含まれず、
// 常にセッションのユーザーがサーバー側で設定されます。
type PostInput struct {
	Text    string
	GroupID *uint
}

// FeedPage は1ページ分のフィードとページングのメタデータです。
type FeedPage struct {
	Posts []entity.Post
	Page  pagination.Page
}

// postsUsecase は投稿のビジネスロジックを実装します。
type postsUsecase struct {
	posts  PostRepository
	groups GroupRepository
	users  UserDirectory
}

// NewPostsUsecase はpostsUsecaseの新しいインスタンスを生成します。
func NewPostsUsecase(posts PostRepository, groups GroupRepository, users UserDirectory) *postsUsecase {
	return &postsUsecase{
		posts:  posts,
		groups: groups,
		users:  users,
	}
}

// Feed は全投稿のフィードの1ページ分を返します。
// 範囲外のページ番号はエラーにせずクランプされます。
func (u *postsUsecase) Feed(ctx context.Context, pageQuery string) (*FeedPage, error) {
	total, err := u.posts.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.Resolve(total, pageQuery, pagination.DefaultPageSize)

	posts, err := u.posts.List(ctx, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Page: page}, nil
}

// GroupFeed はグループのメタデータとそのグループの投稿の1ページ分を返します。
// グループが存在しない場合、ErrGroupNotFoundを返します。
func (u *postsUsecase) GroupFeed(ctx context.Context, slug, pageQuery string) (*entity.Group, *FeedPage, error) {
	group, err := u.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	total, err := u.posts.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	page := pagination.Resolve(total, pageQuery, pagination.DefaultPageSize)

	posts, err := u.posts.ListByGroup(ctx, group.ID, page.Size, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	return group, &FeedPage{Posts: posts, Page: page}, nil
}

// ProfileFeed は著者の情報とその著者の投稿の1ページ分を返します。
// ユーザーが存在しない場合、ErrAuthorNotFoundを返します。
func (u *postsUsecase) ProfileFeed(ctx context.Context, username, pageQuery string) (*authentity.User, *FeedPage, error) {
	author, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, ErrAuthorNotFound
	}

	total, err := u.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, nil, err
	}
	page := pagination.Resolve(total, pageQuery, pagination.DefaultPageSize)

	posts, err := u.posts.ListByAuthor(ctx, author.ID, page.Size, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	return author, &FeedPage{Posts: posts, Page: page}, nil
}

// PostByID は投稿の詳細を返します。認証不要の読み取り専用操作です。
func (u *postsUsecase) PostByID(ctx context.Context, id uint) (*entity.Post, error) {
	return u.posts.FindByID(ctx, id)
}

// GroupChoices は投稿フォームのグループ選択肢を返します。
func (u *postsUsecase) GroupChoices(ctx context.Context) ([]entity.Group, error) {
	return u.groups.List(ctx)
}

// validateInput は本文とグループ選択を検証します。
// 失敗した場合、フィールドごとのメッセージを持つ*ValidationErrorを返します。
func (u *postsUsecase) validateInput(ctx context.Context, in PostInput) error {
	fields := make(map[string]string)

	if strings.TrimSpace(in.Text) == "" {
		fields["text"] = "This field is required."
	}

	if in.GroupID != nil {
		if _, err := u.groups.FindByID(ctx, *in.GroupID); err != nil {
			if errors.Is(err, ErrGroupNotFound) {
				fields["group"] = "Select a valid choice."
			} else {
				return err
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreatePost は認証済みユーザーの新しい投稿を作成します。
// 著者は常にセッションのユーザーであり、クライアントの入力からは決して取得されません。
func (u *postsUsecase) CreatePost(ctx context.Context, authorID uint, in PostInput) (*entity.Post, error) {
	author, err := u.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if err := u.validateInput(ctx, in); err != nil {
		return nil, err
	}

	post := &entity.Post{
		Text:     in.Text,
		AuthorID: author.ID,
		GroupID:  in.GroupID,
	}
	if err := u.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	// レスポンス用に関連を読み込み直す
	return u.posts.FindByID(ctx, post.ID)
}

// EditablePost は編集フォームの初期表示用に投稿を返します。
// 投稿が存在しない場合はErrPostNotFound、編集者が著者でない場合はErrNotAuthorを返します。
func (u *postsUsecase) EditablePost(ctx context.Context, userID, postID uint) (*entity.Post, error) {
	post, err := u.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	return post, nil
}

// EditPost は著者本人による投稿の編集を適用します。
// 本文とグループのみが更新され、著者と公開日時は不変です。
// 編集者が著者でない場合、ErrNotAuthorを返し、いかなる変更も行いません。
func (u *postsUsecase) EditPost(ctx context.Context, userID, postID uint, in PostInput) (*entity.Post, error) {
	post, err := u.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if err := u.validateInput(ctx, in); err != nil {
		return nil, err
	}

	if err := u.posts.UpdateTextAndGroup(ctx, post.ID, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	return u.posts.FindByID(ctx, post.ID)
}
