package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

// AuthService implements registration, login and self-service profile edits.
type AuthService struct {
	users  ports.UserRepository
	hasher *credential.PasswordHasher
	tokens *credential.TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, hasher *credential.PasswordHasher, tokens *credential.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log, now: time.Now}
}

// Register creates a NORMAL_USER account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	fields := credential.AccountFields{Name: in.Name, Email: in.Email, Password: in.Password, Address: in.Address}
	if err := fields.Check(); err != nil {
		return nil, err
	}

	user, err := newUser(ctx, s.users, s.hasher, s.now(), fields, domain.RoleNormalUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user registered")
	return user, nil
}

// Login checks the password and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("", "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.VerifyMissing(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, ExpiresIn: s.tokens.TTL(), User: user}, nil
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, id *domain.Identity) (*domain.User, error) {
	if err := domain.Authorize(id, domain.OpViewProfile); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id.UserID)
}

// UpdateProfile changes the caller's name, address or password. A new
// password requires the current one.
func (s *AuthService) UpdateProfile(ctx context.Context, id *domain.Identity, in ports.UpdateProfileInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.OpUpdateProfile); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Address == nil && in.NewPassword == nil {
		return nil, domain.NewValidationError("", "no changes provided")
	}

	user, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	var update ports.UserUpdate
	if in.Name != nil {
		if !credential.ValidateName(*in.Name) {
			return nil, domain.NewValidationError("name", credential.MsgName)
		}
		update.Name = in.Name
	}
	if in.Address != nil {
		if !credential.ValidateAddress(*in.Address) {
			return nil, domain.NewValidationError("address", credential.MsgAddress)
		}
		update.Address = in.Address
	}
	if in.NewPassword != nil {
		if in.CurrentPassword == "" {
			return nil, domain.NewValidationError("current_password", "current password is required to change password")
		}
		if !s.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
			return nil, domain.NewValidationError("current_password", "current password is incorrect")
		}
		if !credential.ValidatePassword(*in.NewPassword) {
			return nil, domain.NewValidationError("new_password", credential.MsgPassword)
		}
		hash, err := s.hasher.Hash(*in.NewPassword)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	updated, err := s.users.Update(ctx, user.ID, update)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Bool("password_changed", update.PasswordHash != nil).Msg("profile updated")
	return updated, nil
}

// newUser hashes the password and stores a new account. fields must already
// be validated.
func newUser(ctx context.Context, users ports.UserRepository, hasher *credential.PasswordHasher, now time.Time, fields credential.AccountFields, role domain.Role) (*domain.User, error) {
	if _, err := users.FindByEmail(ctx, fields.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := hasher.Hash(fields.Password)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         fields.Name,
		Email:        fields.Email,
		PasswordHash: hash,
		Address:      fields.Address,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
