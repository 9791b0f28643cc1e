package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	autherrors "otabridge/internal/auth/errors"
	"otabridge/pkg/config"
)

const (
	KeysCollectionName   = "ApiKeys"
	TokensCollectionName = "AccessTokens"
)

type apiKeyDoc struct {
	ID      string `bson:"_id,omitempty"`
	KeyHash string `bson:"key_hash"`
	UserID  string `bson:"user_id"`
	Active  bool   `bson:"active"`
}

type accessTokenDoc struct {
	ID        string    `bson:"_id,omitempty"`
	UserID    string    `bson:"user_id"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// CredentialRepository validates opaque API keys and mints or reuses
// access tokens for the owning user.
type CredentialRepository interface {
	FindUserIDByAPIKey(ctx context.Context, apiKey string) (string, error)
	FindOrCreateToken(ctx context.Context, userID string, ttl time.Duration) (string, error)
}

type mongoCredentialRepository struct {
	cfg    *config.Config
	keys   *mongo.Collection
	tokens *mongo.Collection
}

func NewMongoCredentialRepository(cfg *config.Config) CredentialRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCredentialRepository{
		cfg:    cfg,
		keys:   db.Collection(KeysCollectionName),
		tokens: db.Collection(TokensCollectionName),
	}
}

// Keys are stored hashed; the plaintext never touches the database.
func hashKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

func (r *mongoCredentialRepository) FindUserIDByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc apiKeyDoc
	err := r.keys.FindOne(ctx, bson.M{"key_hash": hashKey(apiKey)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", autherrors.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to look up api key: %w", err)
	}

	if !doc.Active {
		return "", autherrors.ErrKeyInactive
	}
	return doc.UserID, nil
}

func (r *mongoCredentialRepository) FindOrCreateToken(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()

	var existing accessTokenDoc
	err := r.tokens.FindOne(
		ctx,
		bson.M{"user_id": userID, "expires_at": bson.M{"$gt": now}},
		options.FindOne().SetSort(bson.D{{Key: "expires_at", Value: -1}}),
	).Decode(&existing)
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("failed to look up access token: %w", err)
	}

	token := uuid.NewString()
	_, err = r.tokens.InsertOne(ctx, accessTokenDoc{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create access token: %w", err)
	}
	return token, nil
}
