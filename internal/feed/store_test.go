package feed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreUpdatePost(t *testing.T) {
	s := NewStore()
	s.Update(func([]Post) []Post { return makePosts("p", 1, 3) })
	before := s.Snapshot()

	ok := s.UpdatePost("p2", func(p Post) Post {
		p.Caption = "edited"
		return p
	})

	assert.True(t, ok)
	p, _ := s.Post("p2")
	assert.Equal(t, "edited", p.Caption)
	assert.Empty(t, before[1].Caption)
	assert.False(t, s.UpdatePost("nope", func(p Post) Post { return p }))
	assert.Equal(t, uint64(3), s.Version())
}

func TestStoreConcurrentUpdates(t *testing.T) {
	s := NewStore()
	s.Update(func([]Post) []Post { return []Post{{ID: "P1"}} })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.UpdatePost("P1", func(p Post) Post {
				p.Comments = append(append([]Comment(nil), p.Comments...), Comment{ID: string(rune('a' + i%26))})
				return p
			})
		}(i)
	}
	wg.Wait()

	p, _ := s.Post("P1")
	assert.Len(t, p.Comments, 50)
}

func TestPostListHelpers(t *testing.T) {
	posts := makePosts("p", 1, 3)

	assert.Equal(t, []string{"p0", "p1", "p2", "p3"}, postIDs(Prepend(posts, Post{ID: "p0"})))
	assert.Equal(t, []string{"p2", "p1", "p3"}, postIDs(Prepend(posts, Post{ID: "p2"})))
	assert.Equal(t, []string{"p1", "p3"}, postIDs(RemovePost(posts, "p2")))

	replaced := ReplacePost(posts, Post{ID: "p2", Caption: "x"})
	assert.Equal(t, "x", replaced[1].Caption)
	assert.Empty(t, posts[1].Caption)
}

func postIDs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
