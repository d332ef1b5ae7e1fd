package main

import (
	"blog-app/db"
	"blog-app/models"
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "db/seeds.yaml", "YAML file with the posts to create")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	config, err := db.LoadDBConfig()
	if err != nil {
		log.Fatalf("Error loading database config: %v", err)
	}

	slugSource, err := models.ParseSlugSource(os.Getenv("SLUG_SOURCE"))
	if err != nil {
		log.Fatalf("Error reading SLUG_SOURCE: %v", err)
	}

	posts, err := db.LoadSeedFile(*file)
	if err != nil {
		log.Fatalf("Error loading seeds: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.InitDB(ctx, config.DBURL)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn.DB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	created, err := db.SeedPosts(ctx, db.NewPostStore(conn, slugSource), posts)
	if err != nil {
		log.Fatalf("Seeded %d of %d posts: %v", created, len(posts), err)
	}
	log.Printf("Seeded %d posts from %s", created, *file)
}
