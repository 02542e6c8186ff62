package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aabdoo23/nucpa-balloons/apiclient"
	"github.com/aabdoo23/nucpa-balloons/board"
	"github.com/aabdoo23/nucpa-balloons/cliparse"
	"github.com/aabdoo23/nucpa-balloons/hub"
	"github.com/aabdoo23/nucpa-balloons/models"
	"github.com/aabdoo23/nucpa-balloons/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; flags and real env variables win.
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// Flag overrides persist, like the settings dialog saving a choice.
	if cfg.Env != "" {
		if err := store.SetEnvironment(cfg.Env); err != nil {
			return err
		}
	}
	if cfg.UserName != "" || cfg.Role != "" {
		sess := store.Session()
		name := sess.UserName
		role := sess.Role
		if cfg.UserName != "" {
			name = cfg.UserName
		}
		if cfg.Role != "" {
			role, err = models.ParseRole(cfg.Role)
			if err != nil {
				return err
			}
		}
		if err := store.SetUser(name, role); err != nil {
			return err
		}
	}

	// Same resolution as the settings dialog: explicit choices win, then
	// the stored preference, then production.
	baseURL := cfg.ResolveBaseURL(store.Session().Environment)

	client, err := apiclient.New(baseURL, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Login {
		token, err := client.Login(ctx, cfg.AdminUser, cfg.AdminPass)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := store.SetToken(token); err != nil {
			return err
		}
		slog.Info("logged in, token stored", "user", cfg.AdminUser)
		return nil
	}

	pushHub := hub.New(baseURL, slog.Default())

	if cfg.Announce != "" {
		if err := ensureAdmin(store.Session()); err != nil {
			return fmt.Errorf("announce: %w", err)
		}
		if err := pushHub.Connect(ctx); err != nil {
			return fmt.Errorf("announce: %w", err)
		}
		defer pushHub.Disconnect()
		if err := pushHub.SendAnnouncement(cfg.Announce); err != nil {
			return err
		}
		slog.Info("announcement sent", "message", cfg.Announce)
		return nil
	}

	return watch(ctx, cfg, store, client, pushHub)
}

// ensureAdmin rejects admin-only one-shot modes when no token is stored.
func ensureAdmin(sess session.Session) error {
	if !sess.CanAdmin() {
		return errors.New("admin token required; run -login first")
	}
	return nil
}

// watch mirrors the dashboard: load every board once, subscribe to push
// updates, and report changes until interrupted.
func watch(ctx context.Context, cfg cliparse.Config, store *session.Store, client *apiclient.Client, pushHub *hub.Hub) error {
	sess := store.Session()
	slog.Info("starting watch",
		"backend", client.BaseURL(),
		"user", sess.UserName,
		"role", string(sess.Role),
	)

	balloons := board.NewBalloonBoard(client, store, slog.Default())
	toilet := board.NewToiletBoard(client, store, slog.Default())

	if err := balloons.Load(ctx); err != nil {
		slog.Error("balloon board load failed", "error", err)
	}
	if err := toilet.Load(ctx); err != nil {
		slog.Error("toilet board load failed", "error", err)
	}
	printBalloonBoard(balloons, sess)
	printToiletBoard(toilet, sess)

	// Push failures are non-fatal: REST data stays usable, updates may
	// just be delayed.
	if err := pushHub.Connect(ctx); err != nil {
		slog.Warn("live updates unavailable", "error", err)
	} else {
		defer pushHub.Disconnect()
		pushHub.OnBalloonUpdates(func(updates models.BalloonUpdates) {
			balloons.ApplyUpdates(updates)
			slog.Info("balloon snapshot",
				"pending", len(updates.Pending),
				"ready", len(updates.ReadyForPickup),
				"pickedUp", len(updates.PickedUp),
				"delivered", len(updates.Delivered),
			)
			printBalloonBoard(balloons, store.Session())
		})
		pushHub.OnToiletUpdates(func(updates models.ToiletUpdates) {
			toilet.ApplyUpdates(updates)
			slog.Info("toilet request snapshot",
				"pending", len(updates.Pending),
				"inProgress", len(updates.InProgress),
				"completed", len(updates.Completed),
			)
			printToiletBoard(toilet, store.Session())
		})
		pushHub.OnAnnouncement(func(message string) {
			fmt.Printf("\n*** ANNOUNCEMENT: %s ***\n\n", message)
		})
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func printBalloonBoard(b *board.BalloonBoard, sess session.Session) {
	if err := b.Err(); err != nil {
		fmt.Printf("\nBalloons: load failed (%v); run again to retry\n", err)
		return
	}
	fmt.Println()
	for _, tab := range b.Tabs(sess.Role) {
		fmt.Println(tab.Label)
	}
	snapshot := b.Snapshot()
	for _, status := range models.BalloonStatuses {
		for _, task := range snapshot.ByStatus(status) {
			fmt.Println("  " + board.FormatBalloonCard(task, sess.Role))
		}
	}
}

func printToiletBoard(b *board.ToiletBoard, sess session.Session) {
	if err := b.Err(); err != nil {
		fmt.Printf("\nToilet requests: load failed (%v); run again to retry\n", err)
		return
	}
	fmt.Println()
	for _, tab := range b.Tabs() {
		fmt.Println(tab.Label)
	}
	snapshot := b.Snapshot()
	for _, status := range models.ToiletStatuses {
		for _, req := range snapshot.ByStatus(status) {
			fmt.Println("  " + board.FormatToiletCard(req, sess.Role))
		}
	}
}
