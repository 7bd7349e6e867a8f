// Command authsweep purges expired token index entries from Redis.
//
// Run it once (the default) from cron, or pass -daemon to keep it running on
// the configured interval. Sorted-set members carry no Redis TTL, so without
// the sweep the per-user indices grow with every issued token.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/blogstack/authcore/session"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep running, sweeping on the configured interval")
	interval := flag.Duration("interval", time.Hour, "sweep interval in daemon mode")
	flag.Parse()

	_ = godotenv.Load()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	store := session.NewStore(client, os.Getenv("REDIS_PREFIX"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := store.Ping(ctx); err != nil {
		log.Fatalf("redis unreachable: %v", err)
	}

	if !*daemon {
		removed, err := sweep(ctx, store)
		if err != nil {
			log.Fatalf("sweep failed: %v", err)
		}
		log.Printf("sweep completed: removed=%d", removed)
		return
	}

	log.Printf("sweeper started: interval=%s", *interval)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Print("sweeper stopped")
			return
		case <-ticker.C:
			removed, err := sweep(ctx, store)
			if err != nil {
				log.Printf("sweep failed: %v", err)
				continue
			}
			log.Printf("sweep completed: removed=%d", removed)
		}
	}
}

func sweep(ctx context.Context, store *session.Store) (int64, error) {
	users, err := store.KnownUsers(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var removed int64
	for _, username := range users {
		n, err := store.PurgeExpired(ctx, username, now)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}
