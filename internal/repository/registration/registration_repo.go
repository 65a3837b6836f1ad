package registration

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/model/registration"
	"tinhnguyen/internal/pkg/apperr"
)

// Repo is the registration_requests collection repository.
type Repo struct {
	collection *mongo.Collection
}

// NewRepo creates a registration request repository.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		collection: db.Collection("registration_requests"),
	}
}

// Create inserts a new request.
func (r *Repo) Create(ctx context.Context, req *registration.Request) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return apperr.TransientIO(err, "insert registration request")
	}
	return nil
}

// FindByID loads a request by id.
func (r *Repo) FindByID(ctx context.Context, id string) (*registration.Request, error) {
	var req registration.Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("registration request %s not found", id)
		}
		return nil, apperr.TransientIO(err, "find registration request %s", id)
	}
	return &req, nil
}

// FindPendingByApplicant returns the applicant's open request, if any.
func (r *Repo) FindPendingByApplicant(ctx context.Context, applicantID string) (*registration.Request, error) {
	var req registration.Request
	err := r.collection.FindOne(ctx, bson.M{
		"applicant_id": applicantID,
		"status":       registration.StatusPending,
	}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("no pending request for applicant %s", applicantID)
		}
		return nil, apperr.TransientIO(err, "find pending request")
	}
	return &req, nil
}

// Resolve flips a request out of the pending state, stamping the reviewer.
// The update carries a status=pending precondition so a request can be
// resolved exactly once: if a concurrent reviewer got there first the write
// matches nothing and the caller gets false back instead of a silent
// re-application.
func (r *Repo) Resolve(ctx context.Context, id string, to registration.Status, reviewerID string, reviewedAt time.Time) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": registration.StatusPending},
		bson.M{"$set": bson.M{
			"status":      to,
			"reviewer_id": reviewerID,
			"reviewed_at": reviewedAt,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		return false, apperr.TransientIO(err, "resolve registration request %s", id)
	}
	return res.ModifiedCount > 0, nil
}

// List returns a page of requests, optionally filtered by status,
// oldest first so reviewers work the queue in submission order.
func (r *Repo) List(ctx context.Context, status registration.Status, page, pageSize int64) ([]*registration.Request, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.TransientIO(err, "count registration requests")
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: 1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.TransientIO(err, "list registration requests")
	}
	defer cursor.Close(ctx)

	var requests []*registration.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, apperr.TransientIO(err, "decode registration requests")
	}

	return requests, total, nil
}
