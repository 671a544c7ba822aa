// Command seed fills the configured database with fake posts.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"socialwall/internal/bootstrap"
	"socialwall/internal/config"
	"socialwall/internal/middleware"
	"socialwall/internal/notifications"
	"socialwall/internal/repository"
	"socialwall/internal/seed"
	"socialwall/internal/service"
)

func main() {
	numPosts := flag.Int("n", 25, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete every post before seeding")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	log.Println("🌱 Post Seeder")
	log.Println("==============")
	log.Printf("Target: %d posts, clean=%v\n", *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(os.Stdout, cfg.IsProduction())

	ctx := context.Background()
	rt := bootstrap.InitRuntime(ctx, cfg)
	defer rt.Close()

	if rt.Store.Mode() != repository.ModePersistent {
		rt.Close()
		log.Fatalf("❌ No database available (%s); seeded posts would not persist", rt.StartupStatus)
	}

	svc := service.NewPostService(rt.Store, cfg.Region, notifications.NewNotifier(rt.Redis))

	if *shouldClean {
		if err := svc.DeleteAllPosts(ctx); err != nil {
			rt.Close()
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	posts, err := seed.NewSeeder(svc, *seedValue).SeedPosts(ctx, *numPosts)
	if err != nil {
		rt.Close()
		log.Fatalf("❌ Seeding failed after %d posts: %v", len(posts), err)
	}

	log.Printf("✨ Created %d posts in region %s", len(posts), cfg.Region)
}
