// Package accounts implements the account flows on top of the CMS gateway:
// registration with its optional accessibility-card and role-request steps,
// login/logout against the session store, and profile updates. Multi-step
// flows never roll back a step that already succeeded; later failures are
// reported as warnings on a qualified success.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/inclusivevents/client/internal/cms"
	"github.com/inclusivevents/client/internal/domain/users"
	"github.com/inclusivevents/client/internal/session"
)

// RoleAttendee is the default intended role; anything else goes through the
// role-request approval workflow.
const RoleAttendee = "attendee"

var (
	// ErrJustificationRequired is returned when an elevated role is
	// requested without a business justification.
	ErrJustificationRequired = errors.New("justification required for elevated role request")

	// ErrCardFileRequired is returned when registration declares a
	// disability but attaches no card file.
	ErrCardFileRequired = errors.New("disability card file required")
)

// Service orchestrates account operations.
type Service struct {
	client   *cms.Client
	sessions *session.Store
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(client *cms.Client, sessions *session.Store, logger zerolog.Logger) *Service {
	return &Service{
		client:   client,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger.With().Str("component", "accounts").Logger(),
	}
}

// RegisterInput collects everything the registration form gathers.
type RegisterInput struct {
	Username  string `validate:"required,min=3"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Birthday  string
	Language  string

	IntendedRole  string
	Justification string

	HasDisability    bool
	CardNumber       string
	CardStatus       string
	IssuingAuthority string
	CardExpiry       string
	CardFileName     string
	CardFile         io.Reader
}

// RegisterResult reports the outcome of a registration. Warnings name the
// optional steps that failed after the account was created.
type RegisterResult struct {
	UserID   int64
	Warnings []string
}

// Qualified reports whether the registration succeeded with warnings.
func (r RegisterResult) Qualified() bool {
	return len(r.Warnings) > 0
}

// Register runs the registration flow: create the account, then best-effort
// upload the disability card, create the extended profile, and submit a role
// request. Only the account-creation step can fail the whole flow; every
// later step degrades to a warning so a transient backend hiccup never
// blocks a signup. On success the session store holds the new session.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	if err := s.validateRegister(in); err != nil {
		return RegisterResult{}, err
	}

	auth, err := s.client.Register(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("create account: %w", err)
	}

	user, err := users.Parse(auth.User)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("registration response: %w", err)
	}
	result := RegisterResult{UserID: user.ID}

	if err := s.sessions.Login(auth.JWT, auth.User); err != nil {
		s.logger.Warn().Err(err).Msg("session not persisted after registration")
		result.Warnings = append(result.Warnings, "account created, but the local session could not be saved; log in manually")
	}

	// The account exists from here on. Nothing below may fail the flow.
	var cardFileID *int64
	if in.HasDisability && in.CardFile != nil {
		files, err := s.client.Upload(ctx, in.CardFileName, in.CardFile)
		if err != nil {
			s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("disability card upload failed")
			result.Warnings = append(result.Warnings,
				"disability card upload failed; add the card later from your profile")
		} else {
			cardFileID = &files[0].ID
		}
	}

	profile := cms.AppProfileInput{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Birthday:       in.Birthday,
		PrimLanguage:   in.Language,
		EmailAddress:   in.Email,
		Number:         in.CardNumber,
		DisabilityCard: cardFileID,
		Status:         in.CardStatus,
		IssuingCard:    in.IssuingAuthority,
		Expiry:         in.CardExpiry,
		Account:        user.ID,
	}
	if profile.Status == "" {
		profile.Status = "active"
	}
	if _, err := s.client.CreateAppProfile(ctx, profile); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("app profile creation failed")
		result.Warnings = append(result.Warnings,
			"profile details could not be saved; complete them later from your profile")
	}

	if in.IntendedRole != "" && in.IntendedRole != RoleAttendee {
		request := cms.RoleRequestInput{
			User:          user.ID,
			RequestedRole: in.IntendedRole,
			Justification: in.Justification,
			Status:        "pending",
		}
		if _, err := s.client.CreateRoleRequest(ctx, request); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("role request failed")
			result.Warnings = append(result.Warnings,
				"role request could not be submitted; request elevated access later")
		}
	}

	return result, nil
}

func (s *Service) validateRegister(in RegisterInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}
	if in.IntendedRole != "" && in.IntendedRole != RoleAttendee && in.Justification == "" {
		return ErrJustificationRequired
	}
	if in.HasDisability && in.CardFile == nil {
		return ErrCardFileRequired
	}
	return nil
}

// Login authenticates and stores the session.
func (s *Service) Login(ctx context.Context, identifier, password string) (users.User, error) {
	auth, err := s.client.Login(ctx, identifier, password)
	if err != nil {
		return users.User{}, err
	}
	if err := s.sessions.Login(auth.JWT, auth.User); err != nil {
		return users.User{}, err
	}
	user, _ := s.sessions.User()
	return user, nil
}

// Logout clears the session.
func (s *Service) Logout() error {
	return s.sessions.Logout()
}

// Profile fetches the authenticated user, merging in the linked app profile
// when the account record itself carries no accessibility info, and refreshes
// the session's cached user.
func (s *Service) Profile(ctx context.Context) (users.User, error) {
	raw, err := s.client.Me(ctx)
	if err != nil {
		return users.User{}, err
	}
	user, err := users.Parse(raw)
	if err != nil {
		return users.User{}, fmt.Errorf("profile response: %w", err)
	}

	if user.Card.IsZero() {
		env, err := s.client.AppProfileByAccount(ctx, user.ID)
		if err != nil {
			// The linked profile is supplementary; the account view
			// stands on its own.
			s.logger.Warn().Err(err).Msg("app profile fetch failed")
		} else if profiles, err := users.ParseAppProfiles(env.Data); err == nil && len(profiles) > 0 {
			user = users.MergeAppProfile(user, profiles[0])
		}
	}

	if err := s.sessions.Refresh(raw); err != nil && !errors.Is(err, session.ErrNotAuthenticated) {
		s.logger.Warn().Err(err).Msg("session refresh failed after profile fetch")
	}
	return user, nil
}

// UpdateAccount changes username and email, then refreshes the cached user
// from the server.
func (s *Service) UpdateAccount(ctx context.Context, username, email string) (users.User, error) {
	current, ok := s.sessions.User()
	if !ok {
		return users.User{}, session.ErrNotAuthenticated
	}

	patch := cms.UserPatch{Username: username, Email: email}
	if _, err := s.client.UpdateUser(ctx, current.ID, patch); err != nil {
		return users.User{}, err
	}
	return s.Profile(ctx)
}

// AccessibilityInput updates the accessibility card on file.
type AccessibilityInput struct {
	Status           string
	IssuingAuthority string
	ExpiryDate       string

	// FileName and File attach a new card document; leave File nil to
	// keep the existing one.
	FileName string
	File     io.Reader
}

// UpdateAccessibility uploads a new card document when provided and patches
// the user's nested disability-card component, preserving the component id
// and the existing file when no new one is attached. Unlike registration,
// this flow has no already-committed step to protect, so an upload failure
// fails the update.
func (s *Service) UpdateAccessibility(ctx context.Context, in AccessibilityInput) (users.User, error) {
	current, ok := s.sessions.User()
	if !ok {
		return users.User{}, session.ErrNotAuthenticated
	}

	card := cms.DisabilityCardPatch{
		CardStatus: in.Status,
		Issuing:    in.IssuingAuthority,
		ExpiryDate: in.ExpiryDate,
	}
	if current.Card.ComponentID != 0 {
		card.ID = &current.Card.ComponentID
	}

	if in.File != nil {
		files, err := s.client.Upload(ctx, in.FileName, in.File)
		if err != nil {
			return users.User{}, fmt.Errorf("upload card file: %w", err)
		}
		card.File = &files[0].ID
	} else if current.Card.File.ID != 0 {
		card.File = &current.Card.File.ID
	}

	patch := cms.UserPatch{DisabilityCard: &card}
	if _, err := s.client.UpdateUser(ctx, current.ID, patch); err != nil {
		return users.User{}, err
	}
	return s.Profile(ctx)
}
