package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// ProfileStatus is the admin review state of a seller or rider profile
type ProfileStatus string

const (
	ProfileStatusPending   ProfileStatus = "pending"
	ProfileStatusApproved  ProfileStatus = "approved"
	ProfileStatusRejected  ProfileStatus = "rejected"
	ProfileStatusSuspended ProfileStatus = "suspended"
)

// VerificationStatus is the admin review state of documents and bank accounts
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// NotStarted is reported for sub-entities the user has not submitted yet
const NotStarted = "not_started"

var profileTransitions = map[ProfileStatus][]ProfileStatus{
	ProfileStatusPending:   {ProfileStatusApproved, ProfileStatusRejected},
	ProfileStatusApproved:  {ProfileStatusSuspended},
	ProfileStatusSuspended: {ProfileStatusApproved},
}

var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending: {VerificationVerified, VerificationRejected},
}

// CanTransitionTo reports whether the profile may move from s to next
func (s ProfileStatus) CanTransitionTo(next ProfileStatus) bool {
	for _, allowed := range profileTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the verification may move from s to next
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	for _, allowed := range verificationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProfileReview holds the review fields shared by seller and rider profiles
type ProfileReview struct {
	Status          ProfileStatus `json:"status"`
	RejectionReason null.String   `json:"rejection_reason"`
	ReviewedAt      null.Time     `json:"reviewed_at"`
}

// Decide records a review outcome. The caller checks the transition first.
func (r *ProfileReview) Decide(next ProfileStatus, reason string, at time.Time) {
	r.Status = next
	r.RejectionReason = null.NewString(reason, reason != "")
	r.ReviewedAt = null.TimeFrom(at)
}

// VerificationReview holds the review fields shared by documents and bank accounts
type VerificationReview struct {
	VerificationStatus VerificationStatus `json:"verification_status"`
	RejectionReason    null.String        `json:"rejection_reason"`
	ReviewedAt         null.Time          `json:"reviewed_at"`
}

// Decide records a review outcome. The caller checks the transition first.
func (r *VerificationReview) Decide(next VerificationStatus, reason string, at time.Time) {
	r.VerificationStatus = next
	r.RejectionReason = null.NewString(reason, reason != "")
	r.ReviewedAt = null.TimeFrom(at)
}
