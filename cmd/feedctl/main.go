// cmd/feedctl/main.go
// Operator tool for the Murmur database and feed indexes
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"Murmur/internal/bootstrap"
	"Murmur/internal/config"
	"Murmur/internal/core/likes"
	"Murmur/internal/core/timeline"
	"Murmur/internal/core/users"
	"Murmur/internal/db/migrations"
	postgresRepo "Murmur/internal/db/postgres"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "feedctl",
		Usage:     "administer the Murmur database and feed indexes",
		Writer:    out,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending database migrations",
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(_ *config.Config, db *sql.DB) error {
						if err := migrations.Up(db); err != nil {
							return err
						}
						_, err := fmt.Fprintln(c.App.Writer, "migrations applied")
						return err
					})
				},
			},
			{
				Name:  "add-user",
				Usage: "create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(_ *config.Config, db *sql.DB) error {
						svc := users.NewUserService(postgresRepo.NewUserRepository(db))
						return addUser(c.Context, svc, c.String("username"), c.App.Writer)
					})
				},
			},
			{
				Name:  "follow",
				Usage: "make one user follow another",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "follower", Required: true, Usage: "id of the user who follows"},
					&cli.Int64Flag{Name: "following", Required: true, Usage: "id of the user being followed"},
				},
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(_ *config.Config, db *sql.DB) error {
						svc := users.NewUserService(postgresRepo.NewUserRepository(db))
						return follow(c.Context, svc, c.Int64("follower"), c.Int64("following"), c.App.Writer)
					})
				},
			},
			{
				Name:  "rebuild-feed",
				Usage: "repopulate a user's feed index from the database",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user", Required: true, Usage: "id of the feed owner"},
					&cli.IntFlag{Name: "limit", Value: 500, Usage: "newest posts to restore"},
				},
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(cfg *config.Config, db *sql.DB) error {
						if cfg.FeedIndex == config.IndexMemory {
							return cli.Exit("FEED_INDEX=memory lives inside the server process and cannot be rebuilt offline", 1)
						}
						index, closer, err := bootstrap.OpenFeedIndex(c.Context, cfg, db)
						if err != nil {
							return err
						}
						defer func() { _ = closer.Close() }()

						svc := timeline.NewTimelineService(index, postgresRepo.NewPostRepository(db),
							timeline.Config{IncludeOwnPosts: cfg.FanoutSelf}, slog.Default())
						return rebuildFeed(c.Context, svc, c.Int64("user"), c.Int("limit"), c.App.Writer)
					})
				},
			},
			{
				Name:  "reconcile-likes",
				Usage: "recompute like counters from like records",
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(_ *config.Config, db *sql.DB) error {
						svc := likes.NewLikeService(postgresRepo.NewLikeRepository(db), nil, slog.Default())
						return reconcileLikes(c.Context, svc, c.App.Writer)
					})
				},
			},
		},
	}
}

// withDB loads configuration, opens the database and runs fn
func withDB(ctx context.Context, fn func(cfg *config.Config, db *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := bootstrap.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(cfg, db)
}

func addUser(ctx context.Context, svc users.UserService, username string, out io.Writer) error {
	user, err := svc.CreateUser(ctx, users.CreateUserRequest{Username: username})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	_, err = fmt.Fprintf(out, "created user %d (%s)\n", user.ID, user.Username)
	return err
}

func follow(ctx context.Context, svc users.UserService, followerID, followingID int64, out io.Writer) error {
	if err := svc.Follow(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	_, err := fmt.Fprintf(out, "user %d now follows user %d\n", followerID, followingID)
	return err
}

func rebuildFeed(ctx context.Context, svc timeline.Service, userID int64, limit int, out io.Writer) error {
	n, err := svc.RebuildFeed(ctx, userID, limit)
	if err != nil {
		return fmt.Errorf("failed to rebuild feed for user %d: %w", userID, err)
	}
	_, err = fmt.Fprintf(out, "restored %d entries into feed of user %d\n", n, userID)
	return err
}

func reconcileLikes(ctx context.Context, svc likes.Service, out io.Writer) error {
	fixed, err := svc.ReconcileCounts(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "reconciled like counts on %d posts\n", fixed)
	return err
}
