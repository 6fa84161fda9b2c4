package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"social_feed/internal/feed"
	"social_feed/internal/feed/api"
	"social_feed/internal/feed/asset"
	"social_feed/internal/pkg/config"
	"social_feed/pkg/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	var (
		configFile = pflag.StringP("config", "c", "", "config file")
		apiURL     = pflag.String("api", "", "API base url, overrides client.api_base_url")
		assetURL   = pflag.String("assets", "", "asset upload url, overrides client.asset_url")
		preset     = pflag.String("preset", "", "upload preset, overrides client.upload_preset")
		username   = pflag.StringP("user", "u", "", "username")
		signup     = pflag.String("signup", "", "create the account first, using this image as profile picture")
		bio        = pflag.String("bio", "", "bio for --signup")
		logLevel   = pflag.String("log-level", "warn", "log level")
	)
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fail(err)
	}
	if *apiURL != "" {
		cfg.Client.APIBaseURL = *apiURL
	}
	if *assetURL != "" {
		cfg.Client.AssetURL = *assetURL
	}
	if *preset != "" {
		cfg.Client.UploadPreset = *preset
	}
	if err := cfg.ValidateClient(); err != nil {
		fail(err)
	}
	if err := logger.InitLogger(cfg.App.Env, *logLevel); err != nil {
		fail(err)
	}
	defer logger.Sync()
	log := logger.Named("feedcli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := feed.NewSession()
	client := api.NewClient(cfg.Client.APIBaseURL, cfg.Client.Timeout, session, log.Named("api"))
	assets := asset.NewClient(cfg.Client.AssetURL, cfg.Client.UploadPreset, cfg.Client.Timeout, log.Named("asset"))
	auth := feed.NewAuthenticator(client, assets, session, log)

	in := bufio.NewScanner(os.Stdin)
	if err := login(ctx, auth, in, *username, *signup, *bio); err != nil {
		fail(err)
	}
	user, _ := session.User()
	fmt.Printf("welcome @%s, type help for commands\n", user.Username)

	f := feed.New(ctx, client, session, feed.Options{
		PageSize: cfg.Client.PageSize,
		Assets:   assets,
		Logger:   log.Named("feed"),
		Notifier: feed.NotifierFunc(printNotice),
	})
	defer f.Close()

	if err := f.Start(ctx); err != nil {
		log.Warn("initial load failed", zap.Error(err))
	}
	sh := newShell(f, auth, session, os.Stdout)
	renderFeed(sh.out, f.Posts(), sh.me())

	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		err := sh.exec(ctx, in.Text())
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

// login 未给出用户名时交互式询问，密码不回显
func login(ctx context.Context, auth *feed.Authenticator, in *bufio.Scanner, username, picture, bio string) error {
	if username == "" {
		fmt.Print("username: ")
		if !in.Scan() {
			return errors.New("no username given")
		}
		username = strings.TrimSpace(in.Text())
	}
	password, err := readPassword(in)
	if err != nil {
		return err
	}

	if picture != "" {
		data, err := os.ReadFile(picture)
		if err != nil {
			return err
		}
		_, err = auth.Signup(ctx, feed.SignupInput{
			Username:       username,
			Password:       password,
			Bio:            bio,
			ProfilePicture: &feed.Upload{Filename: filepath.Base(picture), Content: data},
		})
		if err != nil {
			return fmt.Errorf("signup: %w", err)
		}
	}

	if _, err := auth.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

func readPassword(in *bufio.Scanner) (string, error) {
	fmt.Print("password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
	if !in.Scan() {
		return "", errors.New("no password given")
	}
	return in.Text(), nil
}

func printNotice(n feed.Notice) {
	switch n.Kind {
	case feed.NoticeError:
		fmt.Fprintln(os.Stderr, "✗", n.Message)
	case feed.NoticeSuccess:
		fmt.Fprintln(os.Stderr, "✓", n.Message)
	default:
		fmt.Fprintln(os.Stderr, n.Message)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
