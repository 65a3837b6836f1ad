package user

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
)

// Repo is the users collection repository. Driver errors are translated to
// the apperr taxonomy at this boundary so callers never see store codes.
// Soft-deleted users are invisible to every method except List with an
// explicit filter.
type Repo struct {
	collection *mongo.Collection
}

// NewRepo creates a user repository.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("users"),
	}
}

// notDeleted filters out soft-deleted documents.
func notDeleted(filter bson.M) bson.M {
	filter["deleted"] = bson.M{"$ne": true}
	return filter
}

// Create inserts a user. A duplicate email is a conflict.
func (r *Repo) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email %s already registered", u.Email)
		}
		return apperr.TransientIO(err, "insert user")
	}
	return nil
}

// FindByID loads a user by id.
func (r *Repo) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.collection.FindOne(ctx, notDeleted(bson.M{"_id": id})).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, apperr.TransientIO(err, "find user %s", id)
	}
	return &u, nil
}

// FindByEmail loads a user by email.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.collection.FindOne(ctx, notDeleted(bson.M{"email": email})).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user with email %s not found", email)
		}
		return nil, apperr.TransientIO(err, "find user by email")
	}
	return &u, nil
}

// update applies a $set/$unset document to one user.
func (r *Repo) update(ctx context.Context, id string, update bson.M) error {
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}

	res, err := r.collection.UpdateOne(ctx, notDeleted(bson.M{"_id": id}), update)
	if err != nil {
		return apperr.TransientIO(err, "update user %s", id)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user %s not found", id)
	}
	return nil
}

// SetRole changes a user's role.
func (r *Repo) SetRole(ctx context.Context, id string, role user.Role) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"role": role}})
}

// SetProfile stores the submitted profile fields.
func (r *Repo) SetProfile(ctx context.Context, id string, p *user.Profile) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"profile": p}})
}

// AssignTeam promotes a user into a team admin position.
func (r *Repo) AssignTeam(ctx context.Context, id, teamID string, pos user.Position) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{
		"role":          user.RoleTeamAdmin,
		"team_id":       teamID,
		"team_position": pos,
	}})
}

// ClearTeamPosition reverts a displaced admin to plain member. The team
// membership itself is kept.
func (r *Repo) ClearTeamPosition(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"role": user.RoleMember},
		"$unset": bson.M{"team_position": ""},
	})
}

// SetTeam places a user in a team without touching the role.
func (r *Repo) SetTeam(ctx context.Context, id, teamID string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"team_id": teamID}})
}

// SetAvatarURL records the stored avatar location.
func (r *Repo) SetAvatarURL(ctx context.Context, id, url string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"avatar_url": url}})
}

// SetCard records the stored ID-card image and its issue time.
func (r *Repo) SetCard(ctx context.Context, id, url string, issuedAt time.Time) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{
		"card_url":       url,
		"card_issued_at": issuedAt,
	}})
}

// UpdateLastLoginAt stamps the last login time.
func (r *Repo) UpdateLastLoginAt(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"last_login_at": time.Now()}})
}

// SoftDelete marks a user deleted. The document stays for audit.
func (r *Repo) SoftDelete(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"deleted": true}})
}

// List returns a page of users matching filter, newest first.
func (r *Repo) List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*user.User, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	filter = notDeleted(filter)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.TransientIO(err, "count users")
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.TransientIO(err, "list users")
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, apperr.TransientIO(err, "decode users")
	}

	return users, total, nil
}

// CountMembers counts the approved members of a team. Derived on demand
// instead of maintained as a counter, so it cannot drift under concurrent
// membership writes.
func (r *Repo) CountMembers(ctx context.Context, teamID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, notDeleted(bson.M{
		"team_id": teamID,
		"role":    bson.M{"$in": bson.A{user.RoleMember, user.RoleTeamAdmin}},
	}))
	if err != nil {
		return 0, apperr.TransientIO(err, "count team members")
	}
	return n, nil
}

// CountCards counts how many members of a team have an issued ID card.
func (r *Repo) CountCards(ctx context.Context, teamID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, notDeleted(bson.M{
		"team_id":        teamID,
		"card_issued_at": bson.M{"$exists": true},
	}))
	if err != nil {
		return 0, apperr.TransientIO(err, "count team cards")
	}
	return n, nil
}

// SearchPublic finds approved members for the public lookup page. Matches
// on exact student id or a case-insensitive name prefix; pending and
// deleted users are never returned.
func (r *Repo) SearchPublic(ctx context.Context, studentID, name string, limit int64) ([]*user.User, error) {
	filter := notDeleted(bson.M{
		"role": bson.M{"$in": bson.A{user.RoleMember, user.RoleTeamAdmin}},
	})
	switch {
	case studentID != "":
		filter["profile.student_id"] = studentID
	case name != "":
		filter["profile.full_name"] = bson.M{"$regex": "^" + regexp.QuoteMeta(name), "$options": "i"}
	default:
		return nil, apperr.Validation("either student_id or name is required")
	}

	opts := options.Find().SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.TransientIO(err, "search users")
	}
	defer cursor.Close(ctx)

	var users []*user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.TransientIO(err, "decode users")
	}
	return users, nil
}
