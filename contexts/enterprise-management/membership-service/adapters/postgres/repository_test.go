package postgresadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domainerrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	"locker/contexts/enterprise-management/membership-service/domain/entities"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return NewRepository(db, nil), mock
}

func TestSaveMemberPersistsClearedColumns(t *testing.T) {
	repo, mock := newMockRepository(t)

	// Deactivation writes zero values: is_activated=false and an emptied
	// invitation_token must appear in the SET clause, not be skipped.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "enterprise_members" SET .*"is_activated"=\$\d+.*"invitation_token"=\$\d+.*WHERE member_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	userID := "user_1"
	member := entities.Member{
		MemberID:     "mem_1",
		EnterpriseID: "ent_1",
		UserID:       &userID,
		Email:        "a@example.com",
		Role:         entities.RoleMember,
		Status:       entities.StatusConfirmed,
		IsActivated:  false,
		CreatedAt:    time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	if _, err := repo.SaveMember(context.Background(), member); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveMemberMissingRowMapsToNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "enterprise_members" SET .*WHERE member_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.SaveMember(context.Background(), entities.Member{MemberID: "mem_missing"})
	if !errors.Is(err, domainerrors.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
