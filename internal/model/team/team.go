package team

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/model/user"
)

// Team is one organizational unit of the campaign. The roster is fixed and
// small (seeded as doi-1 … doi-N); teams are created by the seed-teams
// bootstrap and mutated afterwards only via rename and admin assignment.
type Team struct {
	ID        string    `bson:"_id" json:"id"` // slug id, e.g. "doi-1"
	Name      string    `bson:"name" json:"name"`
	ZaloLink  string    `bson:"zalo_link,omitempty" json:"zalo_link,omitempty"`
	Admins    Admins    `bson:"admins" json:"admins"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Admins maps each admin position to a user id, empty when vacant.
// A position references at most one user at a time.
type Admins struct {
	Captain string `bson:"captain,omitempty" json:"captain,omitempty"`
	Deputy1 string `bson:"deputy_1,omitempty" json:"deputy_1,omitempty"`
	Deputy2 string `bson:"deputy_2,omitempty" json:"deputy_2,omitempty"`
}

// Get returns the occupant of the given position.
func (a *Admins) Get(pos user.Position) string {
	switch pos {
	case user.PositionCaptain:
		return a.Captain
	case user.PositionDeputy1:
		return a.Deputy1
	case user.PositionDeputy2:
		return a.Deputy2
	}
	return ""
}

// Set assigns userID to the given position, overwriting any occupant.
func (a *Admins) Set(pos user.Position, userID string) {
	switch pos {
	case user.PositionCaptain:
		a.Captain = userID
	case user.PositionDeputy1:
		a.Deputy1 = userID
	case user.PositionDeputy2:
		a.Deputy2 = userID
	}
}

// Holds returns the position occupied by userID, if any.
func (a *Admins) Holds(userID string) (user.Position, bool) {
	if userID == "" {
		return "", false
	}
	for _, pos := range user.Positions() {
		if a.Get(pos) == userID {
			return pos, true
		}
	}
	return "", false
}

// Stats are derived counters, recomputed from the users collection rather
// than maintained as running totals. Never authoritative.
type Stats struct {
	MemberCount int64 `json:"member_count"`
	CardCount   int64 `json:"card_count"`
}

// SlugID builds the canonical team id for the n-th seeded team.
func SlugID(n int) string {
	return fmt.Sprintf("doi-%d", n)
}

// Collection returns the collection name.
func (t *Team) Collection() string {
	return "teams"
}

// EnsureIndexes creates the teams collection indexes.
func (t *Team) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(t.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
