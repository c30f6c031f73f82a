package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"eventcheckin/internal/domain"
)

const (
	minPasswordLen = 8
	defaultRole    = domain.RoleAuthenticator
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	staffRepo    domain.StaffRepository
	hasher       domain.PasswordHasher
	tokens       domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
}

// NewAuthService creates an AuthService with the given repository, hasher,
// token issuer, and optional email service (nil disables welcome emails).
func NewAuthService(
	staffRepo domain.StaffRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
) domain.AuthService {
	return &authService{
		staffRepo:    staffRepo,
		hasher:       hasher,
		tokens:       tokens,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Staff, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get staff by email: %w", err)
	}
	if err := s.hasher.Compare(staff.PasswordHash, staff.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.staffRepo.RecordLogin(ctx, staff.ID, now); err != nil {
		return "", nil, fmt.Errorf("record login: %w", err)
	}
	staff.LastLogin = &now

	token, err := s.tokens.Issue(staff.ID, staff.Email, staff.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, staff, nil
}

func (s *authService) Register(ctx context.Context, name, email, password, role, createdByID string) (*domain.Staff, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidInput)
	}

	roleCode := strings.TrimSpace(strings.ToLower(role))
	if roleCode != domain.RoleAdmin && roleCode != domain.RoleAuthenticator {
		roleCode = defaultRole
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var createdBy *string
	if createdByID != "" {
		createdBy = &createdByID
	}
	staff := domain.NewStaff(strings.TrimSpace(name), email, hash, salt, roleCode, createdBy, time.Now())
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create staff: %w", err)
	}

	if s.emailService != nil {
		creatorName := ""
		if createdBy != nil {
			if creator, err := s.staffRepo.GetByID(ctx, *createdBy); err == nil {
				creatorName = creator.Name
			}
		}
		data := &domain.StaffWelcomeEmailData{
			Email:     staff.Email,
			Name:      staff.Name,
			Role:      staff.Role,
			CreatedBy: creatorName,
		}
		// The account exists either way; a failed welcome email is not fatal.
		if err := s.emailService.SendStaffWelcome(ctx, data); err != nil {
			log.Printf("[AUTH] Failed to send welcome email to %s: %v", staff.Email, err)
		}
	}
	return staff, nil
}

func (s *authService) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return staff, nil
}

func (s *authService) UpdatePassword(ctx context.Context, staffID, currentPassword, newPassword string) (string, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get staff: %w", err)
	}
	if err := s.hasher.Compare(staff.PasswordHash, staff.Salt, currentPassword); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.staffRepo.UpdatePassword(ctx, staffID, hash, salt); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	token, err := s.tokens.Issue(staff.ID, staff.Email, staff.Role, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *authService) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	staff, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}
