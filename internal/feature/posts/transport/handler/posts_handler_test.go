package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "yatube_backend/internal/feature/auth/domain/entity"
	"yatube_backend/internal/feature/posts/domain/entity"
	"yatube_backend/internal/feature/posts/usecase"
	jwtmw "yatube_backend/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockPostsUsecase is a mock implementation of the PostsUsecase interface.
type mockPostsUsecase struct {
	FeedFunc         func(ctx context.Context, pageQuery string) (*usecase.FeedPage, error)
	GroupFeedFunc    func(ctx context.Context, slug, pageQuery string) (*entity.Group, *usecase.FeedPage, error)
	ProfileFeedFunc  func(ctx context.Context, username, pageQuery string) (*authentity.User, *usecase.FeedPage, error)
	PostByIDFunc     func(ctx context.Context, id uint) (*entity.Post, error)
	GroupChoicesFunc func(ctx context.Context) ([]entity.Group, error)
	CreatePostFunc   func(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error)
	EditablePostFunc func(ctx context.Context, userID, postID uint) (*entity.Post, error)
	EditPostFunc     func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error)
}

func (m *mockPostsUsecase) Feed(ctx context.Context, pageQuery string) (*usecase.FeedPage, error) {
	return m.FeedFunc(ctx, pageQuery)
}

func (m *mockPostsUsecase) GroupFeed(ctx context.Context, slug, pageQuery string) (*entity.Group, *usecase.FeedPage, error) {
	return m.GroupFeedFunc(ctx, slug, pageQuery)
}

func (m *mockPostsUsecase) ProfileFeed(ctx context.Context, username, pageQuery string) (*authentity.User, *usecase.FeedPage, error) {
	return m.ProfileFeedFunc(ctx, username, pageQuery)
}

func (m *mockPostsUsecase) PostByID(ctx context.Context, id uint) (*entity.Post, error) {
	return m.PostByIDFunc(ctx, id)
}

func (m *mockPostsUsecase) GroupChoices(ctx context.Context) ([]entity.Group, error) {
	if m.GroupChoicesFunc != nil {
		return m.GroupChoicesFunc(ctx)
	}
	return []entity.Group{{ID: 1, Title: "Cats", Slug: "cats"}}, nil
}

func (m *mockPostsUsecase) CreatePost(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error) {
	return m.CreatePostFunc(ctx, authorID, in)
}

func (m *mockPostsUsecase) EditablePost(ctx context.Context, userID, postID uint) (*entity.Post, error) {
	return m.EditablePostFunc(ctx, userID, postID)
}

func (m *mockPostsUsecase) EditPost(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
	return m.EditPostFunc(ctx, userID, postID, in)
}

// sessionUser simulates the authentication middleware by injecting the
// session user's ID into the request context.
func sessionUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, userID)
		c.Next()
	}
}

func newPostsRouter(mock *mockPostsUsecase, userID uint) *gin.Engine {
	h := NewPostsHandler(mock)
	r := gin.New()
	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:id/", h.Detail)

	auth := r.Group("/", sessionUser(userID))
	auth.GET("/create/", h.CreateForm)
	auth.POST("/create/", h.Create)
	auth.GET("/posts/:id/edit/", h.EditForm)
	auth.POST("/posts/:id/edit/", h.Edit)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func samplePost(id uint, author string, text string) *entity.Post {
	return &entity.Post{
		ID:       id,
		Text:     text,
		PubDate:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		AuthorID: 1,
		Author:   authentity.User{ID: 1, Username: author},
	}
}

func sampleFeed(posts ...entity.Post) *usecase.FeedPage {
	page := usecase.FeedPage{Posts: posts}
	page.Page.Number = 1
	page.Page.Size = 10
	page.Page.TotalPages = 1
	page.Page.TotalItems = int64(len(posts))
	return &page
}

func TestPostsHandler_Index(t *testing.T) {
	t.Run("returns the feed with paging metadata", func(t *testing.T) {
		var gotPage string
		mock := &mockPostsUsecase{
			FeedFunc: func(ctx context.Context, pageQuery string) (*usecase.FeedPage, error) {
				gotPage = pageQuery
				return sampleFeed(*samplePost(1, "leo", "hello")), nil
			},
		}
		w := get(newPostsRouter(mock, 0), "/?page=3")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", gotPage, "page query is forwarded")

		var body struct {
			Posts []struct {
				Text   string `json:"text"`
				Author string `json:"author"`
			} `json:"posts"`
			Page struct {
				Number     int   `json:"number"`
				TotalItems int64 `json:"total_items"`
			} `json:"page"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Posts, 1)
		assert.Equal(t, "hello", body.Posts[0].Text)
		assert.Equal(t, "leo", body.Posts[0].Author)
		assert.Equal(t, 1, body.Page.Number)
		assert.Equal(t, int64(1), body.Page.TotalItems)
	})
}

func TestPostsHandler_GroupPosts(t *testing.T) {
	t.Run("returns the group metadata and its posts", func(t *testing.T) {
		mock := &mockPostsUsecase{
			GroupFeedFunc: func(ctx context.Context, slug, pageQuery string) (*entity.Group, *usecase.FeedPage, error) {
				assert.Equal(t, "cats", slug)
				group := &entity.Group{ID: 1, Title: "Cats", Slug: "cats", Description: "about cats"}
				return group, sampleFeed(*samplePost(1, "leo", "meow")), nil
			},
		}
		w := get(newPostsRouter(mock, 0), "/group/cats/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "about cats")
		assert.Contains(t, w.Body.String(), "meow")
	})

	t.Run("unknown group returns 404", func(t *testing.T) {
		mock := &mockPostsUsecase{
			GroupFeedFunc: func(ctx context.Context, slug, pageQuery string) (*entity.Group, *usecase.FeedPage, error) {
				return nil, nil, usecase.ErrGroupNotFound
			},
		}
		w := get(newPostsRouter(mock, 0), "/group/no-such-group/")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostsHandler_Profile(t *testing.T) {
	t.Run("returns the author with their post count", func(t *testing.T) {
		mock := &mockPostsUsecase{
			ProfileFeedFunc: func(ctx context.Context, username, pageQuery string) (*authentity.User, *usecase.FeedPage, error) {
				assert.Equal(t, "leo", username)
				feed := sampleFeed(*samplePost(1, "leo", "first"), *samplePost(2, "leo", "second"))
				return &authentity.User{ID: 1, Username: "leo"}, feed, nil
			},
		}
		w := get(newPostsRouter(mock, 0), "/profile/leo/")

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Author    string `json:"author"`
			PostCount int64  `json:"post_count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "leo", body.Author)
		assert.Equal(t, int64(2), body.PostCount)
	})

	t.Run("unknown user returns 404", func(t *testing.T) {
		mock := &mockPostsUsecase{
			ProfileFeedFunc: func(ctx context.Context, username, pageQuery string) (*authentity.User, *usecase.FeedPage, error) {
				return nil, nil, usecase.ErrAuthorNotFound
			},
		}
		w := get(newPostsRouter(mock, 0), "/profile/nobody/")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostsHandler_Detail(t *testing.T) {
	t.Run("returns the post", func(t *testing.T) {
		mock := &mockPostsUsecase{
			PostByIDFunc: func(ctx context.Context, id uint) (*entity.Post, error) {
				assert.Equal(t, uint(42), id)
				return samplePost(42, "leo", "a detail"), nil
			},
		}
		w := get(newPostsRouter(mock, 0), "/posts/42/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a detail")
	})

	t.Run("unknown post returns 404", func(t *testing.T) {
		mock := &mockPostsUsecase{
			PostByIDFunc: func(ctx context.Context, id uint) (*entity.Post, error) {
				return nil, usecase.ErrPostNotFound
			},
		}
		w := get(newPostsRouter(mock, 0), "/posts/999/")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id returns 404", func(t *testing.T) {
		mock := &mockPostsUsecase{
			PostByIDFunc: func(ctx context.Context, id uint) (*entity.Post, error) {
				t.Fatal("PostByID should not be called")
				return nil, nil
			},
		}
		w := get(newPostsRouter(mock, 0), "/posts/abc/")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostsHandler_CreateForm(t *testing.T) {
	t.Run("returns an empty form with group choices", func(t *testing.T) {
		w := get(newPostsRouter(&mockPostsUsecase{}, 1), "/create/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Cats")
	})
}

func TestPostsHandler_Create(t *testing.T) {
	t.Run("success redirects to the author's profile", func(t *testing.T) {
		mock := &mockPostsUsecase{
			CreatePostFunc: func(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error) {
				assert.Equal(t, uint(1), authorID, "author comes from the session")
				assert.Equal(t, "hello", in.Text)
				return samplePost(7, "leo", in.Text), nil
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/create/", url.Values{"text": {"hello"}})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))
	})

	t.Run("author in the form body is ignored", func(t *testing.T) {
		mock := &mockPostsUsecase{
			CreatePostFunc: func(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error) {
				assert.Equal(t, uint(1), authorID)
				return samplePost(7, "leo", in.Text), nil
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/create/", url.Values{
			"text":   {"hello"},
			"author": {"999"},
		})

		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("validation failure re-renders the form with 200", func(t *testing.T) {
		mock := &mockPostsUsecase{
			CreatePostFunc: func(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error) {
				return nil, &usecase.ValidationError{Fields: map[string]string{"text": "This field is required."}}
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/create/", url.Values{"text": {""}})

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "This field is required.", body.Errors["text"])
	})

	t.Run("blank group selection means no group", func(t *testing.T) {
		mock := &mockPostsUsecase{
			CreatePostFunc: func(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error) {
				assert.Nil(t, in.GroupID, "an empty group value is not a group choice")
				return samplePost(7, "leo", in.Text), nil
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/create/", url.Values{
			"text":  {"hello"},
			"group": {""},
		})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))
	})

	t.Run("non-numeric group re-renders the form as an invalid choice", func(t *testing.T) {
		mock := &mockPostsUsecase{
			CreatePostFunc: func(ctx context.Context, authorID uint, in usecase.PostInput) (*entity.Post, error) {
				require.NotNil(t, in.GroupID)
				assert.Zero(t, *in.GroupID, "unparseable values map to the never-assigned ID 0")
				return nil, &usecase.ValidationError{Fields: map[string]string{"group": "Select a valid choice."}}
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/create/", url.Values{
			"text":  {"hello"},
			"group": {"abc"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Select a valid choice.")
	})
}

func TestPostsHandler_EditForm(t *testing.T) {
	t.Run("author gets the form pre-filled with current values", func(t *testing.T) {
		groupID := uint(1)
		mock := &mockPostsUsecase{
			EditablePostFunc: func(ctx context.Context, userID, postID uint) (*entity.Post, error) {
				assert.Equal(t, uint(1), userID)
				post := samplePost(42, "leo", "current text")
				post.GroupID = &groupID
				return post, nil
			},
		}
		w := get(newPostsRouter(mock, 1), "/posts/42/edit/")

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Form struct {
				Text  string `json:"text"`
				Group string `json:"group"`
			} `json:"form"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "current text", body.Form.Text)
		assert.Equal(t, "1", body.Form.Group)
	})

	t.Run("non-author is redirected to the detail page", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditablePostFunc: func(ctx context.Context, userID, postID uint) (*entity.Post, error) {
				return nil, usecase.ErrNotAuthor
			},
		}
		w := get(newPostsRouter(mock, 2), "/posts/42/edit/")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/posts/42/", w.Header().Get("Location"))
	})

	t.Run("unknown post returns 404", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditablePostFunc: func(ctx context.Context, userID, postID uint) (*entity.Post, error) {
				return nil, usecase.ErrPostNotFound
			},
		}
		w := get(newPostsRouter(mock, 1), "/posts/999/edit/")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostsHandler_Edit(t *testing.T) {
	t.Run("success redirects to the detail page", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditPostFunc: func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
				assert.Equal(t, uint(1), userID)
				assert.Equal(t, uint(42), postID)
				assert.Equal(t, "edited", in.Text)
				return samplePost(42, "leo", in.Text), nil
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/posts/42/edit/", url.Values{"text": {"edited"}})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/posts/42/", w.Header().Get("Location"))
	})

	t.Run("non-author is silently redirected to the detail page", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditPostFunc: func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
				return nil, usecase.ErrNotAuthor
			},
		}
		w := postForm(newPostsRouter(mock, 2), "/posts/42/edit/", url.Values{"text": {"hijacked"}})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/posts/42/", w.Header().Get("Location"))
		assert.NotContains(t, w.Body.String(), "error", "no error is disclosed to non-authors")
	})

	t.Run("unknown post returns 404", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditPostFunc: func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
				return nil, usecase.ErrPostNotFound
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/posts/999/edit/", url.Values{"text": {"edited"}})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("validation failure re-renders the form with 200", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditPostFunc: func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
				return nil, &usecase.ValidationError{Fields: map[string]string{"text": "This field is required."}}
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/posts/42/edit/", url.Values{"text": {""}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required.")
	})

	t.Run("blank group selection clears the group", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditPostFunc: func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
				assert.Nil(t, in.GroupID)
				return samplePost(42, "leo", in.Text), nil
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/posts/42/edit/", url.Values{
			"text":  {"edited"},
			"group": {""},
		})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/posts/42/", w.Header().Get("Location"))
	})

	t.Run("non-numeric group re-renders the form as an invalid choice", func(t *testing.T) {
		mock := &mockPostsUsecase{
			EditPostFunc: func(ctx context.Context, userID, postID uint, in usecase.PostInput) (*entity.Post, error) {
				require.NotNil(t, in.GroupID)
				assert.Zero(t, *in.GroupID)
				return nil, &usecase.ValidationError{Fields: map[string]string{"group": "Select a valid choice."}}
			},
		}
		w := postForm(newPostsRouter(mock, 1), "/posts/42/edit/", url.Values{
			"text":  {"edited"},
			"group": {"abc"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Select a valid choice.")
	})
}
