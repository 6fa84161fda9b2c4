package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"social_feed/internal/feed"
)

var errQuit = errors.New("quit")

const helpText = `commands:
  more                          load the next page
  show [post]                   list posts, or show one post with its comments
  like <post>                   toggle like on a post
  likec <post> <comment>        toggle like on a comment
  comment <post> <text>         add a top-level comment
  reply <post> <comment> <text> reply to any comment
  post <file[,file...]> <text>  upload images and publish a post
  edit <post> <text>            change a post caption
  delete <post>                 delete a post
  likers <post>                 list users who liked a post
  refresh                       reload from the first page
  logout | quit | help
posts are addressed by list number or id, comments by id or id prefix`

// shell 一个登录会话内的交互命令
type shell struct {
	feed    *feed.Feed
	auth    *feed.Authenticator
	session *feed.Session
	out     io.Writer
	likers  map[string]*feed.LikersPager
}

func newShell(f *feed.Feed, auth *feed.Authenticator, session *feed.Session, out io.Writer) *shell {
	return &shell{feed: f, auth: auth, session: session, out: out, likers: map[string]*feed.LikersPager{}}
}

func (s *shell) me() string {
	id, _ := s.session.UserID()
	return id
}

// exec 执行一行命令，返回 errQuit 表示退出
func (s *shell) exec(ctx context.Context, line string) error {
	cmd, args := splitCommand(line)
	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return errQuit
	case "logout":
		s.auth.Logout()
		fmt.Fprintln(s.out, "logged out")
		return errQuit
	case "more":
		return s.more(ctx)
	case "refresh":
		if err := s.feed.Refresh(ctx); err != nil {
			return err
		}
		renderFeed(s.out, s.feed.Posts(), s.me())
	case "show":
		if len(args) == 0 {
			renderFeed(s.out, s.feed.Posts(), s.me())
			return nil
		}
		p, err := s.post(args[0])
		if err != nil {
			return err
		}
		renderPost(s.out, p, s.me())
	case "like":
		if len(args) < 1 {
			return usage("like <post>")
		}
		p, err := s.post(args[0])
		if err != nil {
			return err
		}
		liked, err := s.feed.TogglePostLike(ctx, p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, likedText(liked))
	case "likec":
		if len(args) < 2 {
			return usage("likec <post> <comment>")
		}
		p, c, err := s.comment(args[0], args[1])
		if err != nil {
			return err
		}
		liked, err := s.feed.ToggleCommentLike(ctx, p.ID, c.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, likedText(liked))
	case "comment":
		if len(args) < 2 {
			return usage("comment <post> <text>")
		}
		p, err := s.post(args[0])
		if err != nil {
			return err
		}
		c, err := s.feed.AddComment(ctx, p.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "commented [%s]\n", c.ID)
	case "reply":
		if len(args) < 3 {
			return usage("reply <post> <comment> <text>")
		}
		p, parent, err := s.comment(args[0], args[1])
		if err != nil {
			return err
		}
		c, err := s.feed.AddReply(ctx, p.ID, parent.ID, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "replied [%s]\n", c.ID)
	case "post":
		if len(args) < 1 {
			return usage("post <file[,file...]> <text>")
		}
		files, err := readUploads(strings.Split(args[0], ","))
		if err != nil {
			return err
		}
		p, err := s.feed.CreatePost(ctx, strings.Join(args[1:], " "), files)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "posted [%s]\n", p.ID)
	case "edit":
		if len(args) < 2 {
			return usage("edit <post> <text>")
		}
		p, err := s.post(args[0])
		if err != nil {
			return err
		}
		if _, err := s.feed.EditPost(ctx, p.ID, strings.Join(args[1:], " "), nil); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "updated")
	case "delete":
		if len(args) < 1 {
			return usage("delete <post>")
		}
		p, err := s.post(args[0])
		if err != nil {
			return err
		}
		if err := s.feed.DeletePost(ctx, p.ID); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "deleted")
	case "likers":
		if len(args) < 1 {
			return usage("likers <post>")
		}
		return s.loadLikers(ctx, args[0])
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

// more 模拟哨兵进入视口
func (s *shell) more(ctx context.Context) error {
	before := len(s.feed.Posts())
	if !s.feed.Visible(feed.FullVisibility) {
		if !s.feed.HasMore() {
			fmt.Fprintln(s.out, "no more posts")
			return nil
		}
		fmt.Fprintln(s.out, "still loading...")
		return nil
	}
	s.feed.WaitLoads()
	posts := s.feed.Posts()
	if len(posts) == before {
		fmt.Fprintln(s.out, "no new posts")
		return nil
	}
	for i := before; i < len(posts); i++ {
		fmt.Fprintf(s.out, "%3d. %s\n", i+1, postSummary(posts[i], s.me()))
	}
	if !s.feed.HasMore() {
		fmt.Fprintln(s.out, "-- end of feed --")
	}
	return nil
}

func (s *shell) loadLikers(ctx context.Context, ref string) error {
	p, err := s.post(ref)
	if err != nil {
		return err
	}
	pager, ok := s.likers[p.ID]
	if !ok || !pager.HasMore() {
		pager = s.feed.Likers(p.ID)
		s.likers[p.ID] = pager
	}
	if _, err := pager.Load(ctx); err != nil {
		return err
	}
	renderLikers(s.out, pager.Users(), pager.HasMore())
	return nil
}

// post 按列表序号或ID查找帖子
func (s *shell) post(ref string) (feed.Post, error) {
	return resolvePost(s.feed.Posts(), ref)
}

func (s *shell) comment(postRef, commentRef string) (feed.Post, feed.Comment, error) {
	p, err := s.post(postRef)
	if err != nil {
		return feed.Post{}, feed.Comment{}, err
	}
	c, err := resolveComment(p.Comments, commentRef)
	return p, c, err
}

func resolvePost(posts []feed.Post, ref string) (feed.Post, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(posts) {
			return feed.Post{}, fmt.Errorf("no post #%d, %d loaded", n, len(posts))
		}
		return posts[n-1], nil
	}
	for _, p := range posts {
		if p.ID == ref {
			return p, nil
		}
	}
	return feed.Post{}, fmt.Errorf("post %s is not loaded", ref)
}

// resolveComment 完整ID或唯一前缀
func resolveComment(tree []feed.Comment, ref string) (feed.Comment, error) {
	if c, ok := feed.FindNode(tree, ref); ok {
		return c, nil
	}
	var matches []feed.Comment
	var walk func([]feed.Comment)
	walk = func(nodes []feed.Comment) {
		for _, c := range nodes {
			if strings.HasPrefix(c.ID, ref) {
				matches = append(matches, c)
			}
			walk(c.Replies)
		}
	}
	walk(tree)

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return feed.Comment{}, fmt.Errorf("comment %s not found", ref)
	default:
		return feed.Comment{}, fmt.Errorf("comment prefix %s is ambiguous", ref)
	}
}

func readUploads(paths []string) ([]feed.Upload, error) {
	files := make([]feed.Upload, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, feed.Upload{Filename: filepath.Base(p), Content: data})
	}
	return files, nil
}

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func likedText(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}
