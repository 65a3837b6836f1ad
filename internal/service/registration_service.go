package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tinhnguyen/internal/model/registration"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/id"
)

// RegistrationService drives a user record through the approval workflow:
// submit → (approve | reject). Approval flips the request status and
// promotes the applicant in one transaction, so the two writes are never
// observable half-applied.
type RegistrationService struct {
	users    UserStore
	requests RegistrationStore
	txn      TxnRunner
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(users UserStore, requests RegistrationStore, txn TxnRunner) *RegistrationService {
	return &RegistrationService{
		users:    users,
		requests: requests,
		txn:      txn,
	}
}

// Submit files a new registration request for the applicant. Only a pending
// user may apply, and only one open request may exist at a time; after a
// rejection the applicant submits a fresh request.
func (s *RegistrationService) Submit(ctx context.Context, applicantID string, profile user.Profile) (*registration.Request, error) {
	applicant, err := s.users.FindByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if applicant.Role != user.RolePending {
		return nil, apperr.Conflict("user %s is already %s", applicantID, applicant.Role)
	}

	if existing, err := s.requests.FindPendingByApplicant(ctx, applicantID); err == nil && existing != nil {
		return nil, apperr.Conflict("a pending request already exists for user %s", applicantID)
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	if profile.FullName == "" || profile.StudentID == "" {
		return nil, apperr.Validation("full_name and student_id are required")
	}

	// Profile fields live on the user record; the request keeps a snapshot
	// of what was reviewed.
	if err := s.users.SetProfile(ctx, applicantID, &profile); err != nil {
		return nil, err
	}

	req := &registration.Request{
		ID:          id.New(),
		ApplicantID: applicantID,
		Profile:     profile,
		Status:      registration.StatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID).
		Str("applicant_id", applicantID).
		Msg("registration submitted")

	return req, nil
}

// Approve resolves a pending request and promotes the linked user to
// member. Valid only while the request is still pending: a second
// resolution attempt fails with a conflict and changes nothing.
func (s *RegistrationService) Approve(ctx context.Context, requestID, actorID string) error {
	return s.resolve(ctx, requestID, actorID, registration.StatusApproved)
}

// Reject resolves a pending request without touching the applicant's role;
// the user stays pending and may submit a new request.
func (s *RegistrationService) Reject(ctx context.Context, requestID, actorID string) error {
	return s.resolve(ctx, requestID, actorID, registration.StatusRejected)
}

func (s *RegistrationService) resolve(ctx context.Context, requestID, actorID string, to registration.Status) error {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.IsResolved() {
		return apperr.Conflict("request %s is already %s", requestID, req.Status)
	}

	err = s.txn.InTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.requests.Resolve(ctx, requestID, to, actorID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent reviewer resolved it between our read and the
			// conditional write.
			return apperr.Conflict("request %s was resolved concurrently", requestID)
		}
		if to == registration.StatusApproved {
			return s.users.SetRole(ctx, req.ApplicantID, user.RoleMember)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("request_id", requestID).
		Str("applicant_id", req.ApplicantID).
		Str("reviewer_id", actorID).
		Str("status", to.String()).
		Msg("registration resolved")

	return nil
}

// ListRequests returns the review queue for the admin dashboard.
func (s *RegistrationService) ListRequests(ctx context.Context, actorID string, status registration.Status, page, pageSize int64) ([]*registration.Request, int64, error) {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, 0, err
	}
	if status != "" && !status.IsValid() {
		return nil, 0, apperr.Validation("unknown status %q", status)
	}
	return s.requests.List(ctx, status, page, pageSize)
}

// requireSuperAdmin re-loads the actor instead of trusting the token role
// claim, so a demoted or deleted reviewer loses access immediately.
func (s *RegistrationService) requireSuperAdmin(ctx context.Context, actorID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Authorization("acting principal %s not found", actorID)
		}
		return err
	}
	if actor.Role != user.RoleSuperAdmin {
		return apperr.Authorization("user %s (%s) may not review registrations", actorID, actor.Role)
	}
	return nil
}
