package application

import (
	"context"
	"log/slog"

	"locker/contexts/vault-access/cipher-service/domain/entities"
	"locker/contexts/vault-access/cipher-service/ports"
)

// Service carries the non-authorization operations of the vault side:
// membership lifecycle events cascade into group membership here.
type Service struct {
	Repo   ports.AccessRepository
	Logger *slog.Logger
}

// ListGroupsOfUser lists every group the user currently belongs to, across
// teams.
func (s Service) ListGroupsOfUser(ctx context.Context, userID string) ([]entities.Group, error) {
	return s.Repo.ListGroupsOfUser(ctx, userID)
}

// RemoveUserFromGroups strips the user from every group. Called when a
// membership is deactivated.
func (s Service) RemoveUserFromGroups(ctx context.Context, userID string) error {
	if err := s.Repo.RemoveUserFromGroups(ctx, userID); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("removed user from groups",
		"event", "group_memberships_removed",
		"module", moduleName,
		"layer", "application",
		"user_id", userID,
	)
	return nil
}
