package team

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
)

// Repo is the teams collection repository.
type Repo struct {
	collection *mongo.Collection
}

// NewRepo creates a team repository.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("teams"),
	}
}

// Create inserts a team. The slug id is chosen by the caller, so a
// duplicate means the team was already bootstrapped.
func (r *Repo) Create(ctx context.Context, t *team.Team) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("team %s already exists", t.ID)
		}
		return apperr.TransientIO(err, "insert team")
	}
	return nil
}

// FindByID loads a team by id.
func (r *Repo) FindByID(ctx context.Context, id string) (*team.Team, error) {
	var t team.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("team %s not found", id)
		}
		return nil, apperr.TransientIO(err, "find team %s", id)
	}
	return &t, nil
}

// List returns every team, ordered by id.
func (r *Repo) List(ctx context.Context) ([]*team.Team, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.TransientIO(err, "list teams")
	}
	defer cursor.Close(ctx)

	var teams []*team.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, apperr.TransientIO(err, "decode teams")
	}
	return teams, nil
}

// update applies a $set document to one team.
func (r *Repo) update(ctx context.Context, id string, set bson.M) error {
	set["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperr.TransientIO(err, "update team %s", id)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("team %s not found", id)
	}
	return nil
}

// Rename updates the mutable team fields (name, zalo link).
func (r *Repo) Rename(ctx context.Context, id, name, zaloLink string) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if zaloLink != "" {
		set["zalo_link"] = zaloLink
	}
	if len(set) == 0 {
		return apperr.Validation("nothing to update")
	}
	return r.update(ctx, id, set)
}

// SetAdmin writes userID into the given admin position.
func (r *Repo) SetAdmin(ctx context.Context, id string, pos user.Position, userID string) error {
	return r.update(ctx, id, bson.M{"admins." + pos.String(): userID})
}

// Count returns the number of teams.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.TransientIO(err, "count teams")
	}
	return n, nil
}
