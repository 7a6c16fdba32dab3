package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"orbitview/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

func TestListNodesQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT .* FROM nodes n ORDER BY").WillReturnError(boom)

	_, err := repo.ListNodes(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetNodeDriverErrorIsNotNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT .* FROM nodes n WHERE n.id = ?").
		WithArgs("film").
		WillReturnError(errors.New("database is locked"))

	_, err := repo.GetNode(context.Background(), "film")
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected a non-not-found error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestImportNodesRollsBack(t *testing.T) {
	nodes := []domain.Node{
		{ID: "hub", Name: "Hub"},
		{ID: "film", Name: "Film", ParentID: "hub"},
	}

	t.Run("insert failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		boom := errors.New("constraint failed")

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM nodes").WillReturnResult(sqlmock.NewResult(0, 4))
		prep := mock.ExpectPrepare("INSERT INTO nodes")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().WillReturnError(boom)
		mock.ExpectRollback()

		err := repo.ImportNodes(context.Background(), nodes)
		if !errors.Is(err, boom) {
			t.Errorf("expected insert error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("commit failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		boom := errors.New("commit failed")

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM nodes").WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare("INSERT INTO nodes")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec("INSERT INTO metadata").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(boom)

		err := repo.ImportNodes(context.Background(), nodes)
		if !errors.Is(err, boom) {
			t.Errorf("expected commit error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("invalid node touches nothing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		err := repo.ImportNodes(context.Background(), []domain.Node{{ID: "x"}})
		if !errors.Is(err, domain.ErrInvalidNode) {
			t.Errorf("expected ErrInvalidNode, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestDeleteNodeExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("database is locked")
	mock.ExpectExec("WITH RECURSIVE subtree").WithArgs("film").WillReturnError(boom)

	err := repo.DeleteNode(context.Background(), "film")
	if !errors.Is(err, boom) {
		t.Errorf("expected driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
