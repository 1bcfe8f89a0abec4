package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// RoleStore holds the embedded pivot-role catalog used by the opportunities
// ranking.
type RoleStore interface {
	InitCollection() error
	UpsertRoleChunk(ctx context.Context, roleID, title, text string, embedding []float32) error
	SearchRoles(ctx context.Context, queryEmbedding []float32, limit int) ([]RoleHit, error)
}

type RoleHit struct {
	RoleID string
	Title  string
	Text   string
	Score  float32
}

type roleStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewRoleStore(urlStr, apiKey, collectionName string) (RoleStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &roleStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements RoleStore.
func (s *roleStore) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Role collection already exists")
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", s.collectionName)
	return nil
}

// UpsertRoleChunk implements RoleStore.
func (s *roleStore) UpsertRoleChunk(ctx context.Context, roleID, title, text string, embedding []float32) error {
	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"role_id": roleID,
			"title":   title,
			"text":    text,
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert role chunk: %w", err)
	}

	return nil
}

// SearchRoles implements RoleStore.
func (s *roleStore) SearchRoles(ctx context.Context, queryEmbedding []float32, limit int) ([]RoleHit, error) {
	searchResult, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search roles: %w", err)
	}

	var hits []RoleHit
	for _, point := range searchResult {
		payload := point.Payload

		hit := RoleHit{Score: point.Score}

		if roleID, ok := payload["role_id"]; ok {
			if val, ok := roleID.GetKind().(*qdrant.Value_StringValue); ok {
				hit.RoleID = val.StringValue
			}
		}

		if title, ok := payload["title"]; ok {
			if val, ok := title.GetKind().(*qdrant.Value_StringValue); ok {
				hit.Title = val.StringValue
			}
		}

		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				hit.Text = val.StringValue
			}
		}

		hits = append(hits, hit)
	}

	return hits, nil
}
