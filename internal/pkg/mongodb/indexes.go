package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/model/registration"
	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
)

// EnsureIndexes creates the indexes for all collections. Called once at
// application startup; models implementing the Model interface declare
// their own, the rest are created here by hand.
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&user.User{},
		&registration.Request{},
		&team.Team{},
	}

	if err := EnsureAllIndexes(ctx, db, models...); err != nil {
		return err
	}

	// refresh_tokens collection
	refreshTokenColl := db.Collection("refresh_tokens")
	refreshTokenIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_id"),
		},
		{
			Keys:    bson.D{bson.E{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_token").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_expires_at").SetExpireAfterSeconds(0), // TTL, reaps expired tokens
		},
	}

	return CreateIndexes(ctx, refreshTokenColl, refreshTokenIndexes)
}
