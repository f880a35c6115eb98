package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"locker/contexts/vault-access/cipher-service/domain/entities"
	domainerrors "locker/contexts/vault-access/cipher-service/domain/errors"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetCipher(ctx context.Context, cipherID string) (entities.Cipher, error) {
	var row cipherModel
	err := r.db.WithContext(ctx).
		Where("cipher_id = ?", cipherID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Cipher{}, domainerrors.ErrCipherNotFound
		}
		return entities.Cipher{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTeam(ctx context.Context, teamID string) (entities.Team, error) {
	var row teamModel
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Team{}, domainerrors.ErrTeamNotFound
		}
		return entities.Team{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindTeamMember(ctx context.Context, teamID, userID string) (entities.TeamMember, bool, error) {
	var row teamMemberModel
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.TeamMember{}, false, nil
		}
		return entities.TeamMember{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListCipherCollectionIDs(ctx context.Context, cipherID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&cipherCollectionModel{}).
		Where("cipher_id = ?", cipherID).
		Pluck("collection_id", &ids).
		Error
	return ids, err
}

func (r *Repository) ListMemberCollectionAccess(ctx context.Context, teamMemberID string) ([]entities.CollectionAccess, error) {
	var rows []collectionMemberModel
	err := r.db.WithContext(ctx).
		Where("team_member_id = ?", teamMemberID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.CollectionAccess, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListGroupRolesOfUser(ctx context.Context, teamID, userID string) ([]entities.TeamRole, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&groupModel{}).
		Joins("JOIN group_members ON group_members.group_id = groups.group_id").
		Where("groups.team_id = ? AND group_members.user_id = ?", teamID, userID).
		Pluck("groups.role", &values).
		Error
	if err != nil {
		return nil, err
	}
	roles := make([]entities.TeamRole, 0, len(values))
	for _, value := range values {
		roles = append(roles, entities.TeamRole(value))
	}
	return roles, nil
}

func (r *Repository) ListGroupCollectionIDs(ctx context.Context, teamID, userID string) ([]string, error) {
	// The group_collections join table only exists while the legacy
	// inheritance path is enabled. It is absent from the active schema, so
	// the query is kept behind the capability flag by the caller.
	var ids []string
	err := r.db.WithContext(ctx).
		Table("group_collections").
		Joins("JOIN groups ON groups.group_id = group_collections.group_id").
		Joins("JOIN group_members ON group_members.group_id = groups.group_id").
		Where("groups.team_id = ? AND group_members.user_id = ?", teamID, userID).
		Pluck("group_collections.collection_id", &ids).
		Error
	return ids, err
}

func (r *Repository) ListGroupsOfUser(ctx context.Context, userID string) ([]entities.Group, error) {
	var rows []groupModel
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.group_id").
		Where("group_members.user_id = ?", userID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Group, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) RemoveUserFromGroups(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&groupMemberModel{}).
		Error
}
