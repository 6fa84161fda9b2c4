package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"social_feed/internal/feed"

	"go.uber.org/zap"
)

// Error 服务端返回的非 2xx 响应
type Error struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// Unwrap 所有 API 错误都属于传输失败
func (e *Error) Unwrap() error { return feed.ErrTransport }

// ServerMessage 面向用户的服务端提示
func (e *Error) ServerMessage() string { return e.Message }

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client 信息流与认证接口的 HTTP 客户端
type Client struct {
	baseURL string
	client  *http.Client
	session *feed.Session
	log     *zap.Logger
}

var (
	_ feed.API     = (*Client)(nil)
	_ feed.AuthAPI = (*Client)(nil)
)

// NewClient baseURL 形如 http://localhost:8080/
func NewClient(baseURL string, timeout time.Duration, session *feed.Session, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		session: session,
		log:     log,
	}
}

func (c *Client) userID() string {
	if c.session == nil {
		return ""
	}
	id, _ := c.session.UserID()
	return id
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", feed.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("cost", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var eb errorBody
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil {
			if json.Unmarshal(data, &eb) == nil {
				apiErr.Code = eb.Code
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", feed.ErrTransport, method, path, err)
	}
	return nil
}

// FetchPage GET /posts/paginated
func (c *Client) FetchPage(ctx context.Context, page, limit int) ([]feed.Post, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var posts []feed.Post
	if err := c.do(ctx, http.MethodGet, "/posts/paginated", q, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type postEnvelope struct {
	Post feed.Post `json:"post"`
}

type postInput struct {
	Caption string   `json:"caption"`
	Images  []string `json:"images"`
	UserID  string   `json:"userId,omitempty"`
}

// CreatePost POST /posts/create
func (c *Client) CreatePost(ctx context.Context, caption string, images []string) (feed.Post, error) {
	var res postEnvelope
	err := c.do(ctx, http.MethodPost, "/posts/create", nil, postInput{Caption: caption, Images: images, UserID: c.userID()}, &res)
	return res.Post, err
}

// UpdatePost PUT /posts/updatepost/:id
func (c *Client) UpdatePost(ctx context.Context, postID, caption string, images []string) (feed.Post, error) {
	var res postEnvelope
	err := c.do(ctx, http.MethodPut, "/posts/updatepost/"+url.PathEscape(postID), nil, postInput{Caption: caption, Images: images}, &res)
	return res.Post, err
}

// DeletePost DELETE /posts/deletepost/:id
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/deletepost/"+url.PathEscape(postID), nil, nil, nil)
}

type likesEnvelope struct {
	Likes feed.LikeSet `json:"likes"`
}

// TogglePostLike POST /posts/like
func (c *Client) TogglePostLike(ctx context.Context, postID string) (feed.LikeSet, error) {
	body := map[string]string{"postId": postID, "userId": c.userID()}
	var res likesEnvelope
	if err := c.do(ctx, http.MethodPost, "/posts/like", nil, body, &res); err != nil {
		return nil, err
	}
	return res.Likes, nil
}

type commentInput struct {
	PostID        string `json:"postId"`
	UserID        string `json:"userId,omitempty"`
	Text          string `json:"text"`
	ParentComment string `json:"parentComment,omitempty"`
}

type commentEnvelope struct {
	Comment feed.Comment `json:"comment"`
}

// AddComment POST /posts/comment，parentID 非空时为回复
func (c *Client) AddComment(ctx context.Context, postID, text, parentID string) (feed.Comment, error) {
	var res commentEnvelope
	err := c.do(ctx, http.MethodPost, "/posts/comment", nil, commentInput{
		PostID:        postID,
		UserID:        c.userID(),
		Text:          text,
		ParentComment: parentID,
	}, &res)
	return res.Comment, err
}

// ToggleCommentLike PUT /posts/like-comment
func (c *Client) ToggleCommentLike(ctx context.Context, postID, commentID string) (feed.LikeSet, error) {
	body := map[string]string{"postId": postID, "commentId": commentID, "userId": c.userID()}
	var res likesEnvelope
	if err := c.do(ctx, http.MethodPut, "/posts/like-comment", nil, body, &res); err != nil {
		return nil, err
	}
	return res.Likes, nil
}

// Likers GET /posts/:id/likers
func (c *Client) Likers(ctx context.Context, postID string, page, limit int) (feed.LikersPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var res feed.LikersPage
	err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/likers", q, nil, &res)
	return res, err
}

type loginResponse struct {
	User  feed.UserRef `json:"user"`
	Token string       `json:"token"`
}

// Login POST /users/login
func (c *Client) Login(ctx context.Context, username, password string) (feed.UserRef, string, error) {
	body := map[string]string{"username": username, "password": password}
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, body, &res); err != nil {
		return feed.UserRef{}, "", err
	}
	return res.User, res.Token, nil
}

// Signup POST /users/signup
func (c *Client) Signup(ctx context.Context, req feed.SignupRequest) (feed.UserRef, error) {
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/users/signup", nil, req, &res); err != nil {
		return feed.UserRef{}, err
	}
	return res.User, nil
}
