package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"pivotpath/pivot-api/internal/config"
	"pivotpath/pivot-api/internal/services"
)

// Seeds the Qdrant role collection from the built-in pivot-role catalog so
// the opportunities endpoint can rank by embedding similarity.
func main() {
	log.Println("🚀 Starting role catalog ingestion...")

	cfg := config.Load()

	if cfg.Gemini.APIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY is required for ingestion")
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	roleStore, err := services.NewRoleStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := roleStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	chunker := services.NewTextChunker()
	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, role := range services.DefaultRoleCatalog() {
		log.Printf("\n📄 Processing: %s", role.Title)

		doc := fmt.Sprintf("%s\n\n%s\n\nKey skills: %s",
			role.Title, role.Summary, strings.Join(role.Keywords, ", "))

		chunks := chunker.ChunkText(doc, 1000, 200)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		failed := false
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to embed chunk %d: %v", i+1, err)
				failed = true
				continue
			}

			if err := roleStore.UpsertRoleChunk(ctx, role.ID, role.Title, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				failed = true
			}
		}

		if failed {
			failCount++
			continue
		}

		log.Printf("   ✅ Successfully ingested %s", role.Title)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d roles", successCount)
	log.Printf("   ❌ Failed: %d roles", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}

	log.Println("✅ All roles ingested successfully!")
}
