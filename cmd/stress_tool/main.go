package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"social_feed/internal/feed"
	"social_feed/internal/feed/api"
	"social_feed/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 并发点赞压测：N 个用户对同一帖子各切换 K 次点赞，
// 结束后点赞数应等于切换次数为奇数的用户数
func main() {
	var (
		baseURL     = pflag.String("api", "http://localhost:8080", "API base url")
		postID      = pflag.String("post", "", "target post id, defaults to the newest post")
		users       = pflag.Int("users", 200, "number of simulated users")
		toggles     = pflag.Int("toggles", 3, "like toggles per user")
		concurrency = pflag.Int("concurrency", 50, "max in-flight requests")
		picture     = pflag.String("picture", "https://example.com/avatar.png", "profile picture url for generated users")
		timeout     = pflag.Duration("timeout", 10*time.Second, "request timeout")
	)
	pflag.Parse()

	if err := logger.InitLogger("dev", "warn"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("stress")
	ctx := context.Background()

	clients, err := prepareUsers(ctx, *baseURL, *users, *concurrency, *picture, *timeout, log)
	if err != nil {
		log.Fatal("prepare users", zap.Error(err))
	}

	target := *postID
	if target == "" {
		posts, err := clients[0].FetchPage(ctx, 1, 1)
		if err != nil || len(posts) == 0 {
			log.Fatal("no post to like, pass --post", zap.Error(err))
		}
		target = posts[0].ID
	}
	before, err := countLikers(ctx, clients[0], target)
	if err != nil {
		log.Fatal("count likers", zap.Error(err))
	}

	fmt.Printf("开始压测：%d 个用户对帖子 %s 各切换 %d 次点赞...\n", len(clients), target, *toggles)

	var ok, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	start := time.Now()
	for _, c := range clients {
		g.Go(func() error {
			// 同一用户的切换需要串行，否则结果不确定
			for i := 0; i < *toggles; i++ {
				if _, err := c.TogglePostLike(gctx, target); err != nil {
					failed.Add(1)
					log.Debug("toggle failed", zap.Error(err))
					continue
				}
				ok.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	duration := time.Since(start)

	after, err := countLikers(ctx, clients[0], target)
	if err != nil {
		log.Fatal("count likers", zap.Error(err))
	}
	want := before
	if *toggles%2 == 1 {
		want += len(clients)
	}

	total := ok.Load() + failed.Load()
	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d (失败 %d)\n", total, failed.Load())
	fmt.Printf("QPS: %.2f\n", float64(total)/duration.Seconds())
	fmt.Printf("点赞数: %d -> %d (预期: %d)\n", before, after, want)
	fmt.Println("--------------------------------------------------")

	if failed.Load() == 0 && after != want {
		fmt.Fprintln(os.Stderr, "like count mismatch")
		os.Exit(1)
	}
}

// prepareUsers 注册并登录一批临时用户，每个用户独立会话
func prepareUsers(ctx context.Context, baseURL string, n, concurrency int, picture string, timeout time.Duration, log *zap.Logger) ([]*api.Client, error) {
	clients := make([]*api.Client, n)
	run := uuid.NewString()[:8]

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range clients {
		g.Go(func() error {
			session := feed.NewSession()
			c := api.NewClient(baseURL, timeout, session, log)
			name := fmt.Sprintf("stress_%s_%d", run, i)
			password := "stress-" + run

			if _, err := c.Signup(ctx, feed.SignupRequest{Username: name, Password: password, ProfilePicture: picture}); err != nil {
				return fmt.Errorf("signup %s: %w", name, err)
			}
			user, token, err := c.Login(ctx, name, password)
			if err != nil {
				return fmt.Errorf("login %s: %w", name, err)
			}
			session.Begin(user, token)
			clients[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clients, nil
}

func countLikers(ctx context.Context, c *api.Client, postID string) (int, error) {
	n := 0
	for page := 1; ; page++ {
		res, err := c.Likers(ctx, postID, page, 100)
		if err != nil {
			return 0, err
		}
		n += len(res.Users)
		if page >= res.TotalPages {
			return n, nil
		}
	}
}
