package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"social_feed/internal/domain/post/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestGetPostsPreloadsAuthors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE "posts"."deleted_at" IS NULL ORDER BY created_at desc,id desc LIMIT \$1 OFFSET \$2`).
		WithArgs(7, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "caption", "images"}).
			AddRow("P8", "U1", "a", []byte(`["https://cdn/a.png"]`)).
			AddRow("P9", "U2", "b", []byte(`[]`)))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow("U1", "ann").
			AddRow("U2", "bob"))

	posts, err := repo.GetPosts(7, 7)

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "ann", posts[0].User.Username)
	assert.Equal(t, []string{"https://cdn/a.png"}, posts[0].ImageURLs())
	assert.Equal(t, []string{}, posts[1].ImageURLs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostIsSoft(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`UPDATE "posts" SET "deleted_at"=\$1 WHERE id = \$2 AND "posts"."deleted_at" IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeletePost("P1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike(t *testing.T) {
	t.Run("Removes an existing like", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "likes" WHERE user_id = \$1 AND target_id = \$2 AND target_type = \$3`).
			WithArgs("U1", "P1", model.TargetPost).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := repo.ToggleLike("U1", "P1", model.TargetPost)

		require.NoError(t, err)
		assert.False(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Inserts when absent", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "likes"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO "likes"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("L1"))
		mock.ExpectCommit()

		liked, err := repo.ToggleLike("U1", "C1", model.TargetComment)

		require.NoError(t, err)
		assert.True(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Concurrent insert still commits as liked", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "likes"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO "likes" .* ON CONFLICT DO NOTHING RETURNING "id"`).
			WithArgs("U1", "P1", model.TargetPost, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		liked, err := repo.ToggleLike("U1", "P1", model.TargetPost)

		require.NoError(t, err)
		assert.True(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)
		boom := errors.New("db down")

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "likes"`).WillReturnError(boom)
		mock.ExpectRollback()

		_, err := repo.ToggleLike("U1", "P1", model.TargetPost)

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetLikeUserIDsGroupsByTarget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT "user_id","target_id" FROM "likes" WHERE target_type = \$1 AND target_id IN \(\$2,\$3\) ORDER BY created_at asc`).
		WithArgs(model.TargetComment, "C1", "C2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "target_id"}).
			AddRow("U1", "C1").
			AddRow("U2", "C2").
			AddRow("U3", "C1"))

	likes, err := repo.GetLikeUserIDs(model.TargetComment, []string{"C1", "C2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"U1", "U3"}, likes["C1"])
	assert.Equal(t, []string{"U2"}, likes["C2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLikeUserIDsEmptyInput(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	likes, err := repo.GetLikeUserIDs(model.TargetPost, nil)

	require.NoError(t, err)
	assert.Empty(t, likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLikers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "likes" WHERE target_id = \$1 AND target_type = \$2`).
		WithArgs("P1", model.TargetPost).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE target_id = \$1 AND target_type = \$2 ORDER BY created_at desc LIMIT \$3 OFFSET \$4`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_id", "target_type"}).
			AddRow("L1", "U2", "P1", "post"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow("U2", "bob"))

	users, total, err := repo.GetLikers("P1", model.TargetPost, 10, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
