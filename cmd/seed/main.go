// Command seed loads the sample posts into the configured store.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/quickblog-api/internal/blobstore"
	"github.com/quickblog-api/internal/client"
	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/repository"
	"github.com/quickblog-api/internal/service"
	"github.com/quickblog-api/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", false, "delete every existing post before seeding")
	flag.Parse()

	cfg, err := config.Load()
	log := logger.New("quickblog-seed")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, closeStore, err := blobstore.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open store")
	}
	defer closeStore()

	services := service.NewServices(repository.New(store, log), log)

	if *reset {
		existing, err := services.Post.List(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list existing posts")
		}
		for _, p := range existing {
			if err := services.Post.Delete(ctx, p.ID); err != nil {
				log.Fatal().Err(err).Str("post_id", p.ID).Msg("Failed to delete post")
			}
		}
		log.Info().Int("deleted", len(existing)).Msg("Store cleared")
	}

	// oldest first so list order matches the samples
	samples := client.SamplePosts(time.Now())
	for i := len(samples) - 1; i >= 0; i-- {
		s := samples[i]
		post, err := services.Post.Create(ctx, &models.CreatePostRequest{
			Title:   s.Title,
			Content: s.Content,
			Excerpt: s.Excerpt,
			Tags:    s.Tags,
			Status:  s.Status,
		})
		if err != nil {
			log.Fatal().Err(err).Str("title", s.Title).Msg("Failed to seed post")
		}
		log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Msg("Seeded post")
	}

	log.Info().
		Int("posts", len(samples)).
		Str("driver", cfg.Store.Driver).
		Str("store", cfg.Store.Name).
		Msg("Seeding complete")
}
