package service

import (
	"social_feed/internal/domain/post/model"
)

// buildCommentTree 将扁平评论列表组装为树。
// comments 需按创建时间升序，父评论缺失的回复提升为一级评论
func buildCommentTree(comments []model.Comment, likes map[string][]string) []model.CommentView {
	children := make(map[string][]int, len(comments))
	present := make(map[string]bool, len(comments))
	for _, c := range comments {
		present[c.ID] = true
	}

	var roots []int
	for i, c := range comments {
		if c.ParentID != nil && present[*c.ParentID] && *c.ParentID != c.ID {
			children[*c.ParentID] = append(children[*c.ParentID], i)
			continue
		}
		roots = append(roots, i)
	}

	var build func(i int) model.CommentView
	build = func(i int) model.CommentView {
		v := commentView(&comments[i], likes[comments[i].ID])
		for _, child := range children[comments[i].ID] {
			v.Replies = append(v.Replies, build(child))
		}
		return v
	}

	out := make([]model.CommentView, 0, len(roots))
	for _, i := range roots {
		out = append(out, build(i))
	}
	return out
}

func commentView(c *model.Comment, likes []string) model.CommentView {
	v := model.CommentView{
		ID:        c.ID,
		Text:      c.Text,
		User:      c.User.Ref(),
		CreatedAt: c.CreatedAt,
		Likes:     nonNil(likes),
		Replies:   []model.CommentView{},
	}
	if c.ParentID != nil {
		v.ParentComment = *c.ParentID
	}
	return v
}

func postView(p *model.Post, likes []string, comments []model.CommentView) model.PostView {
	if comments == nil {
		comments = []model.CommentView{}
	}
	return model.PostView{
		ID:        p.ID,
		Caption:   p.Caption,
		Images:    p.ImageURLs(),
		User:      p.User.Ref(),
		Likes:     nonNil(likes),
		Comments:  comments,
		CreatedAt: p.CreatedAt,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
