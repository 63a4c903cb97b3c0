// Package jobs runs the scheduled background sweeps.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"github.com/robfig/cron/v3"
)

// notificationRetention is how long notifications are kept before the sweep
// removes them.
const notificationRetention = 30 * 24 * time.Hour

// Start schedules the retention and analytics jobs and starts the scheduler.
// Both jobs are best-effort: a failed run is logged and retried at the next
// tick, never mid-cycle.
func Start(notifications repositories.NotificationRepository, users repositories.UserRepository, posts repositories.PostRepository) *cron.Cron {
	c := cron.New()

	// Daily sweep of notifications past the retention window.
	c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-notificationRetention)
		deleted, err := notifications.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Printf("jobs: notification cleanup failed: %v", err)
			return
		}
		log.Printf("jobs: cleaned up %d old notifications", deleted)
	})

	// Daily signup/post counts, logged at 02:00.
	c.AddFunc("0 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		yesterday := time.Now().Add(-24 * time.Hour)
		newUsers, err := users.CountUsersCreatedSince(ctx, yesterday)
		if err != nil {
			log.Printf("jobs: user count failed: %v", err)
			return
		}
		newPosts, err := posts.CountPostsCreatedSince(ctx, yesterday)
		if err != nil {
			log.Printf("jobs: post count failed: %v", err)
			return
		}
		log.Printf("Daily Stats - New Users: %d, New Posts: %d", newUsers, newPosts)
	})

	c.Start()
	log.Println("All cron jobs started")
	return c
}
