package main

import (
	"fmt"
	"io"
	"strings"

	"social_feed/internal/feed"
)

const indentUnit = "  "

// renderFeed 列表视图，每个帖子一行摘要
func renderFeed(w io.Writer, posts []feed.Post, me string) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "(no posts)")
		return
	}
	for i, p := range posts {
		fmt.Fprintf(w, "%3d. %s\n", i+1, postSummary(p, me))
	}
}

func postSummary(p feed.Post, me string) string {
	heart := "♡"
	if me != "" && p.Liked(me) {
		heart = "♥"
	}
	caption := p.Caption
	if caption == "" {
		caption = "(no caption)"
	}
	return fmt.Sprintf("@%s %s  %s %d  💬 %d  [%s]",
		p.User.Username, caption, heart, len(p.Likes), feed.CountComments(p.Comments), p.ID)
}

// renderPost 单个帖子的完整视图，包括整棵评论树
func renderPost(w io.Writer, p feed.Post, me string) {
	fmt.Fprintln(w, postSummary(p, me))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "%sposted %s\n", indentUnit, p.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	for _, img := range p.Images {
		fmt.Fprintf(w, "%s🖼  %s\n", indentUnit, img)
	}
	renderComments(w, p.Comments, me, 1)
}

func renderComments(w io.Writer, tree []feed.Comment, me string, depth int) {
	prefix := strings.Repeat(indentUnit, depth)
	for _, c := range tree {
		heart := "♡"
		if me != "" && c.Likes.Has(me) {
			heart = "♥"
		}
		status := ""
		if c.Pending {
			status = " (sending)"
		}
		fmt.Fprintf(w, "%s└ @%s: %s  %s %d  [%s]%s\n",
			prefix, c.User.Username, c.Text, heart, len(c.Likes), c.ID, status)
		renderComments(w, c.Replies, me, depth+1)
	}
}

func renderLikers(w io.Writer, users []feed.UserRef, more bool) {
	if len(users) == 0 {
		fmt.Fprintln(w, "(no likes yet)")
	}
	for _, u := range users {
		fmt.Fprintf(w, "  @%s\n", u.Username)
	}
	if more {
		fmt.Fprintln(w, "  ... run likers again for more")
	}
}
