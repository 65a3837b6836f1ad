package registration

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/model/user"
)

// Request is one submitted application to join the campaign. Always created
// with StatusPending; once resolved it is immutable and a re-application
// requires a brand new request.
type Request struct {
	ID          string       `bson:"_id,omitempty" json:"id"`
	ApplicantID string       `bson:"applicant_id" json:"applicant_id"`
	Profile     user.Profile `bson:"profile" json:"profile"` // snapshot of the submitted form
	Status      Status       `bson:"status" json:"status"`
	ReviewerID  string       `bson:"reviewer_id,omitempty" json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time   `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}

// Status of a registration request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid reports whether the status is a known enum value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the status string.
func (s Status) String() string {
	return string(s)
}

// IsResolved reports whether the request has left the pending state.
func (r *Request) IsResolved() bool {
	return r.Status != StatusPending
}

// Collection returns the collection name.
func (r *Request) Collection() string {
	return "registration_requests"
}

// EnsureIndexes creates the registration_requests collection indexes.
func (r *Request) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(r.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "applicant_id", Value: 1}, bson.E{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_applicant_status"),
		},
		{
			Keys:    bson.D{bson.E{Key: "status", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_status_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
