// Package handler はpostsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	authentity "yatube_backend/internal/feature/auth/domain/entity"
	"yatube_backend/internal/feature/posts/domain/entity"
	"yatube_backend/internal/feature/posts/transport/http/dto"
	"yatube_backend/internal/feature/posts/usecase"
	jwtmw "yatube_backend/internal/platform/jwt"
)

// PostsUsecase は投稿操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type PostsUsecase interface {
	Feed(ctx context.Context, pageQuery string) (*usecase.FeedPage, error)
	GroupFeed(ctx context.Context, slug, pageQuery string) (*entity.Group, *usecase.FeedPage, error)
	ProfileFeed(ctx context.Context, username, pageQuery string) (*authentity.User, *usecase.FeedPage, error)
	PostByID(ctx context.Context, id uint) (*entity.Post, error)
	GroupChoices(ctx context.Context) ([]entity.Group, error)
	CreatePost(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error)
	EditablePost(ctx context.Context, userID, postID uint) (*entity.Post, error)
	EditPost(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error)
}

// PostsHandler は投稿とフィードのHTTPリクエストを処理します。
// レンダリングは外部コラボレーターの責務のため、テンプレートコンテキストを
// JSONで返し、ナビゲーションは実際のHTTPリダイレクトで表現します。
type PostsHandler struct {
	uc PostsUsecase
}

// NewPostsHandler はPostsHandlerの新しいインスタンスを生成します。
func NewPostsHandler(uc PostsUsecase) *PostsHandler {
	return &PostsHandler{uc: uc}
}

// detailURL は投稿詳細ページのパスを返します。
func detailURL(postID uint) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

// profileURL は著者のプロフィールページのパスを返します。
func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// toPostItem はエンティティをレスポンスDTOに変換します。
func toPostItem(p *entity.Post) dto.PostItem {
	item := dto.PostItem{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  p.Author.Username,
	}
	if p.Group != nil {
		item.Group = &dto.GroupRef{Title: p.Group.Title, Slug: p.Group.Slug}
	}
	return item
}

// toPostItems は1ページ分の投稿をレスポンスDTOに変換します。
func toPostItems(posts []entity.Post) []dto.PostItem {
	out := make([]dto.PostItem, 0, len(posts))
	for i := range posts {
		out = append(out, toPostItem(&posts[i]))
	}
	return out
}

// toPageMeta はページングメタデータをレスポンスDTOに変換します。
func toPageMeta(feed *usecase.FeedPage) dto.PageMeta {
	return dto.PageMeta{
		Number:      feed.Page.Number,
		TotalPages:  feed.Page.TotalPages,
		TotalItems:  feed.Page.TotalItems,
		HasNext:     feed.Page.HasNext,
		HasPrevious: feed.Page.HasPrevious,
	}
}

// Index は全投稿のページ付きフィードを返します。認証不要です。
func (h *PostsHandler) Index(c *gin.Context) {
	feed, err := h.uc.Feed(c.Request.Context(), c.Query("page"))
	if err != nil {
		slog.Error("failed to load feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.FeedResponse{Posts: toPostItems(feed.Posts), Page: toPageMeta(feed)})
}

// GroupPosts は指定グループのページ付きフィードを返します。
// グループが存在しない場合は404を返します。
func (h *PostsHandler) GroupPosts(c *gin.Context) {
	group, feed, err := h.uc.GroupFeed(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		if errors.Is(err, usecase.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		slog.Error("failed to load group feed", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.GroupFeedResponse{
		Group: dto.GroupInfo{Title: group.Title, Slug: group.Slug, Description: group.Description},
		Posts: toPostItems(feed.Posts),
		Page:  toPageMeta(feed),
	})
}

// Profile は指定著者のページ付きフィードを返します。
// ユーザーが存在しない場合は404を返します。
func (h *PostsHandler) Profile(c *gin.Context) {
	author, feed, err := h.uc.ProfileFeed(c.Request.Context(), c.Param("username"), c.Query("page"))
	if err != nil {
		if errors.Is(err, usecase.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.Error("failed to load profile feed", "username", c.Param("username"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		Author:    author.Username,
		PostCount: feed.Page.TotalItems,
		Posts:     toPostItems(feed.Posts),
		Page:      toPageMeta(feed),
	})
}

// Detail は投稿の詳細を返します。閲覧に認可制限はありません。
func (h *PostsHandler) Detail(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.uc.PostByID(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		slog.Error("failed to load post", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.PostDetailResponse{Post: toPostItem(post)})
}

// CreateForm は投稿作成フォームの初期コンテキストを返します。要認証。
func (h *PostsHandler) CreateForm(c *gin.Context) {
	groups, err := h.uc.GroupChoices(c.Request.Context())
	if err != nil {
		slog.Error("failed to load group choices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.FormResponse{Form: dto.PostForm{}, Groups: toGroupChoices(groups)})
}

// Create は投稿作成フォームの送信を処理します。要認証。
// 検証失敗時はフィールドごとのエラーと共にフォームを再描画し（200）、
// 成功時は投稿者のプロフィールへリダイレクトします。
func (h *PostsHandler) Create(c *gin.Context) {
	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("post form binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	post, err := h.uc.CreatePost(c.Request.Context(), userID, usecase.PostInput{Text: form.Text, GroupID: groupChoice(form.Group)})
	if err != nil {
		h.renderFormError(c, form, err)
		return
	}

	c.Redirect(http.StatusFound, profileURL(post.Author.Username))
}

// EditForm は編集フォームの初期コンテキストを、投稿の現在値で埋めて返します。要認証。
// 著者以外には編集の可否を示すエラーを返さず、詳細ページへリダイレクトします。
func (h *PostsHandler) EditForm(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	post, err := h.uc.EditablePost(c.Request.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotAuthor) {
			c.Redirect(http.StatusFound, detailURL(postID))
			return
		}
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		slog.Error("failed to load post for edit", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	groups, err := h.uc.GroupChoices(c.Request.Context())
	if err != nil {
		slog.Error("failed to load group choices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.FormResponse{
		Form:   dto.PostForm{Text: post.Text, Group: groupValue(post.GroupID)},
		Groups: toGroupChoices(groups),
	})
}

// Edit は編集フォームの送信を処理します。要認証。
// 著者以外は変更を一切行わずに詳細ページへリダイレクトします。
// 成功時も詳細ページへリダイレクトし、検証失敗時はフォームを再描画します（200）。
func (h *PostsHandler) Edit(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("post form binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	post, err := h.uc.EditPost(c.Request.Context(), userID, postID, usecase.PostInput{Text: form.Text, GroupID: groupChoice(form.Group)})
	if err != nil {
		if errors.Is(err, usecase.ErrNotAuthor) {
			c.Redirect(http.StatusFound, detailURL(postID))
			return
		}
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.renderFormError(c, form, err)
		return
	}

	c.Redirect(http.StatusFound, detailURL(post.ID))
}

// renderFormError は検証エラーをフォームの再描画として返します。
// 検証以外のエラーは500として処理します。
func (h *PostsHandler) renderFormError(c *gin.Context, form dto.PostForm, err error) {
	var vErr *usecase.ValidationError
	if !errors.As(err, &vErr) {
		slog.Error("post submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	groups, gErr := h.uc.GroupChoices(c.Request.Context())
	if gErr != nil {
		slog.Error("failed to load group choices", "error", gErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// 通常のフォームページと同じステータスで再描画する（エラーステータスではない）
	c.JSON(http.StatusOK, dto.FormResponse{
		Form:   form,
		Groups: toGroupChoices(groups),
		Errors: vErr.Fields,
	})
}

// groupChoice はフォームのグループ値を解釈します。
// 空文字は「グループなし」（未選択の<select>の送信値）。数値でない値は
// どのグループにも存在しないID 0にマッピングし、本文の検証と合わせて
// 「Select a valid choice.」のフィールドエラーとして報告されるようにします。
func groupChoice(raw string) *uint {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		invalid := uint(0)
		return &invalid
	}
	v := uint(id)
	return &v
}

// groupValue は編集フォームの初期値用にグループIDをフォーム値へ戻します。
func groupValue(groupID *uint) string {
	if groupID == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*groupID), 10)
}

// parsePostID はURLパラメータから投稿IDを解析します。
// 数値でない場合は存在しない投稿と同様に404を返します。
func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return 0, false
	}
	return uint(id), true
}

// toGroupChoices はグループ一覧をフォームの選択肢DTOに変換します。
func toGroupChoices(groups []entity.Group) []dto.GroupChoice {
	out := make([]dto.GroupChoice, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.GroupChoice{ID: g.ID, Title: g.Title})
	}
	return out
}
