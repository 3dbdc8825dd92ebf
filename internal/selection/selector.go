// Package selection drives the "express interest" modal: it loads the
// member's own profiles once, lets them pick one, submits the interest and
// remembers which receiver profiles already have interest from them.
package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mauryavansham-service/pkg/client"

	"go.uber.org/zap"
)

// EmptyStateMessage is shown when the member owns no profiles
const EmptyStateMessage = "Create at least one profile to express interest"

// State is where the modal is in its flow
type State int

const (
	Idle State = iota
	FetchingProfiles
	Selecting
	Submitting
	Sent
	Failed
)

var stateNames = [...]string{"idle", "fetchingProfiles", "selecting", "submitting", "sent", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNoProfiles     = errors.New(EmptyStateMessage)
	ErrAlreadySent    = errors.New("interest already sent to this profile")
	ErrUnknownProfile = errors.New("profile is not one of yours")
	ErrBusy           = errors.New("an interest is being submitted")
)

// API is the part of the HTTP client the modal needs
type API interface {
	ListOwnProfiles(ctx context.Context, userID uint) ([]client.Profile, error)
	ExpressInterest(ctx context.Context, receiverProfileID uint, req client.InterestRequest) error
}

// Target is the profile interest is being expressed in
type Target struct {
	ProfileID uint
	UserID    uint
}

// Selector is the modal's state for one signed-in member and one page
// session. It is safe for concurrent use.
type Selector struct {
	api    API
	userID uint
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	profiles []client.Profile
	loaded   bool
	target   Target
	sent     map[uint]bool
	lastErr  string
}

func New(api API, userID uint, log *zap.Logger) *Selector {
	return &Selector{api: api, userID: userID, log: log, sent: map[uint]bool{}}
}

// Open starts the flow for target, fetching the member's profiles unless
// they were loaded earlier in the session.
func (s *Selector) Open(ctx context.Context, target Target) error {
	s.mu.Lock()
	if s.state == Submitting || s.state == FetchingProfiles {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.sent[target.ProfileID] {
		s.mu.Unlock()
		return ErrAlreadySent
	}
	s.target = target
	s.lastErr = ""
	if s.loaded {
		s.state = Selecting
		s.mu.Unlock()
		return nil
	}
	s.state = FetchingProfiles
	s.mu.Unlock()

	profiles, err := s.api.ListOwnProfiles(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Warn("Failed to load own profiles", zap.Uint("user_id", s.userID), zap.Error(err))
		if s.state == FetchingProfiles {
			s.state = Failed
			s.lastErr = err.Error()
		}
		return err
	}
	s.profiles = profiles
	s.loaded = true
	// a Cancel while fetching keeps the profiles but not the modal
	if s.state == FetchingProfiles {
		s.state = Selecting
	}
	return nil
}

// Choose submits interest from one of the member's profiles. It is allowed
// while selecting and after a failure, so a failed submit can be retried.
func (s *Selector) Choose(ctx context.Context, senderProfileID uint, message string) error {
	s.mu.Lock()
	if s.state != Selecting && !(s.state == Failed && s.loaded) {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot choose a profile while %s", state)
	}
	if len(s.profiles) == 0 {
		s.mu.Unlock()
		return ErrNoProfiles
	}
	var sender *client.Profile
	for i := range s.profiles {
		if s.profiles[i].ID == senderProfileID {
			sender = &s.profiles[i]
			break
		}
	}
	if sender == nil {
		s.mu.Unlock()
		return ErrUnknownProfile
	}
	target := s.target
	req := client.InterestRequest{
		SenderUserID:    s.userID,
		SenderProfileID: sender.ID,
		ReceiverUserID:  target.UserID,
		SenderProfile:   client.SnapshotOf(*sender),
		Message:         message,
	}
	s.state = Submitting
	s.mu.Unlock()

	err := s.api.ExpressInterest(ctx, target.ProfileID, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	var apiErr *client.APIError
	switch {
	case err == nil:
		s.state = Sent
		s.sent[target.ProfileID] = true
		s.log.Info("Interest sent", zap.Uint("receiver_profile_id", target.ProfileID))
		return nil
	case errors.As(err, &apiErr) && apiErr.Duplicate():
		// the server already has it, so the button stays disabled
		s.state = Sent
		s.sent[target.ProfileID] = true
		s.lastErr = apiErr.Message
		return err
	default:
		s.state = Failed
		s.lastErr = err.Error()
		if apiErr != nil && apiErr.Message != "" {
			s.lastErr = apiErr.Message
		}
		s.log.Warn("Interest failed", zap.Uint("receiver_profile_id", target.ProfileID), zap.Error(err))
		return err
	}
}

// Cancel closes the modal. It has no effect once a submit is in flight.
func (s *Selector) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return false
	}
	s.state = Idle
	s.target = Target{}
	s.lastErr = ""
	return true
}

// State returns the current state
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profiles returns the loaded profiles
func (s *Selector) Profiles() []client.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Profile(nil), s.profiles...)
}

// Empty reports whether the modal should show EmptyStateMessage
func (s *Selector) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Selecting && len(s.profiles) == 0
}

// IsSent reports whether interest in receiverProfileID went through
func (s *Selector) IsSent(receiverProfileID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[receiverProfileID]
}

// LastError is the message to surface after a failure
func (s *Selector) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
