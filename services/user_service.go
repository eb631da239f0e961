package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/sahilchouksey/dept-events/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SignupRoles are the roles a user may pick for themselves. ADMIN is only
// granted by the seeder or by another admin.
var SignupRoles = []model.Role{model.RoleStudent, model.RoleFaculty, model.RoleHOD}

// UserService manages accounts and roles
type UserService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// SignupRequest represents a self-service account creation
type SignupRequest struct {
	Name       string           `json:"name" validate:"required,max=255"`
	Email      string           `json:"email" validate:"required,email"`
	Password   string           `json:"password" validate:"required,min=6"`
	Department model.Department `json:"department" validate:"required,department"`
	Role       string           `json:"role,omitempty"`
}

// UserFilter narrows List; zero values match everything
type UserFilter struct {
	Role       model.Role
	Department model.Department
}

// Signup creates an account. The role defaults to STUDENT.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	req.Name = validation.SanitizeString(req.Name)
	req.Email = validation.NormalizeEmail(req.Email)

	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	role := model.RoleStudent
	if req.Role != "" {
		parsed, ok := model.ParseRole(req.Role)
		if !ok || !auth.HasRole(parsed, SignupRoles...) {
			return nil, apperror.Validation("Invalid role", "role must be one of STUDENT, FACULTY, HOD")
		}
		role = parsed
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, apperror.Validation("Validation failed", err.Error())
		}
		return nil, internal("Failed to process password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Department:   req.Department,
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, internal("Failed to create user", err)
	}

	log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user signed up")
	return user, nil
}

// Authenticate verifies credentials. Unknown emails and wrong passwords fail
// the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", validation.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal("Login failed", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetByID returns the user with id
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, internal("Error fetching user", err)
	}
	return &user, nil
}

// List returns users ordered by signup time, newest first
func (s *UserService) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	var users []model.User
	if err := query.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, internal("Error fetching users", err)
	}
	return users, nil
}

// UpdateRole changes userID's role. The user's token version is bumped so
// tokens carrying the old role stop working.
func (s *UserService) UpdateRole(ctx context.Context, userID uint, role string, actor Actor) (*model.User, error) {
	if err := auth.Authorize(actor.Role, model.RoleAdmin); err != nil {
		return nil, err
	}

	newRole, ok := model.ParseRole(role)
	if !ok {
		return nil, apperror.Validation("Invalid role", "role must be one of ADMIN, HOD, FACULTY, STUDENT")
	}

	if userID == actor.ID {
		return nil, apperror.Validation("Cannot change your own role", "")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return internal("Error updating user role", err)
		}

		previous := user.Role
		if err := tx.Model(&user).Update("role", newRole).Error; err != nil {
			return internal("Error updating user role", err)
		}
		if err := auth.NewBlacklistService(tx).RevokeAllUserTokens(ctx, user.ID); err != nil {
			return internal("Error updating user role", err)
		}

		return recordTx(tx, actor, AuditEntry{
			Action:      model.AuditActionRoleChange,
			Resource:    "users",
			ResourceID:  user.ID,
			OldValue:    map[string]interface{}{"role": previous},
			NewValue:    map[string]interface{}{"role": newRole},
			Description: fmt.Sprintf("Changed role of %s from %s to %s", user.Email, previous, newRole),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", userID).Uint("actor_id", actor.ID).Str("role", string(newRole)).Msg("user role changed")
	return s.GetByID(ctx, userID)
}
