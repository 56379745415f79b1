package services

import (
	"context"

	"evently/server/internal/constants"
	"evently/server/internal/db/repositories"
	"evently/server/internal/logging"
	"evently/server/internal/models/dtos/responses"
)

// UserService is the admin view over profiles. Role reassignment lives
// here, deliberately apart from the first-time self-service selection
// on the session controller: this path may overwrite an existing role
// and is only reachable through the admin guard.
type UserService struct {
	profiles *repositories.ProfileRepository
}

func NewUserService(profiles *repositories.ProfileRepository) *UserService {
	return &UserService{profiles: profiles}
}

func (svc *UserService) List(ctx context.Context, page, limit int) ([]responses.UserSummary, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	profiles, err := svc.profiles.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]responses.UserSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, responses.UserSummary{
			AccountID:   p.AccountID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Role:        p.Role.String(),
			CreatedAt:   p.CreatedAt,
		})
	}
	return out, nil
}

// ReassignRole overwrites a profile's role on behalf of an admin. The
// affected user's session picks the change up on its next
// session-change event; no live session is forcibly rewritten.
func (svc *UserService) ReassignRole(ctx context.Context, adminID, accountID string, role constants.Role) error {
	if !role.IsValid() {
		return ErrNotFound
	}
	if err := svc.profiles.UpdateRole(ctx, accountID, role); err != nil {
		return ErrNotFound
	}

	logging.Info("role reassigned",
		"admin_id", adminID,
		"account_id", accountID,
		"role", role.String(),
	)
	return nil
}
