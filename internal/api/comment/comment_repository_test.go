package comment

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforum/forum-server/internal/types"
)

func commentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "post_id", "content", "created_at", "user_id", "username", "profile_picture_url"})
}

func TestPostgresCommentRepo_GetByID(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresCommentRepo(mockDB, slog.Default())
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		commentID := uuid.New()
		postID := uuid.New()
		userID := uuid.New()

		mockDB.ExpectQuery(regexp.QuoteMeta("JOIN users u ON c.user_id = u.id")).
			WithArgs(commentID).
			WillReturnRows(commentRows().AddRow(
				commentID, postID, "hello", time.Now(), userID, "alice", (*string)(nil),
			))

		comment, err := repo.GetByID(ctx, commentID)

		require.NoError(t, err)
		assert.Equal(t, commentID, comment.ID)
		assert.Equal(t, postID, comment.PostID)
		assert.Equal(t, "alice", comment.Username)
		assert.Nil(t, comment.ProfilePictureURL)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		commentID := uuid.New()

		mockDB.ExpectQuery(regexp.QuoteMeta("JOIN users u ON c.user_id = u.id")).
			WithArgs(commentID).
			WillReturnRows(commentRows())

		_, err := repo.GetByID(ctx, commentID)

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestPostgresCommentRepo_GetByPost(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresCommentRepo(mockDB, slog.Default())
	ctx := context.Background()
	postID := uuid.New()

	t.Run("OrderedByCreationAscending", func(t *testing.T) {
		older := time.Now().Add(-time.Hour)
		newer := time.Now()
		first := uuid.New()
		second := uuid.New()

		mockDB.ExpectQuery(regexp.QuoteMeta("ORDER BY c.created_at ASC")).
			WithArgs(postID).
			WillReturnRows(commentRows().
				AddRow(first, postID, "first", older, uuid.New(), "alice", (*string)(nil)).
				AddRow(second, postID, "second", newer, uuid.New(), "bob", (*string)(nil)))

		comments, err := repo.GetByPost(ctx, postID)

		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, first, comments[0].ID)
		assert.Equal(t, second, comments[1].ID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("EmptyPostYieldsEmptySlice", func(t *testing.T) {
		mockDB.ExpectQuery(regexp.QuoteMeta("ORDER BY c.created_at ASC")).
			WithArgs(postID).
			WillReturnRows(commentRows())

		comments, err := repo.GetByPost(ctx, postID)

		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("QueryError", func(t *testing.T) {
		mockDB.ExpectQuery(regexp.QuoteMeta("ORDER BY c.created_at ASC")).
			WithArgs(postID).
			WillReturnError(errors.New("db down"))

		_, err := repo.GetByPost(ctx, postID)
		assert.Error(t, err)
	})
}

func TestPostgresCommentRepo_Update(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresCommentRepo(mockDB, slog.Default())
	ctx := context.Background()

	t.Run("MissingRowReturnsNotFound", func(t *testing.T) {
		commentID := uuid.New()

		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE comments SET content = $1")).
			WithArgs("new content", commentID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		_, err := repo.Update(ctx, commentID, "new content")

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("SuccessRefetchesJoinedRow", func(t *testing.T) {
		commentID := uuid.New()
		postID := uuid.New()
		userID := uuid.New()

		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE comments SET content = $1")).
			WithArgs("new content", commentID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockDB.ExpectQuery(regexp.QuoteMeta("JOIN users u ON c.user_id = u.id")).
			WithArgs(commentID).
			WillReturnRows(commentRows().AddRow(
				commentID, postID, "new content", time.Now(), userID, "alice", (*string)(nil),
			))

		comment, err := repo.Update(ctx, commentID, "new content")

		require.NoError(t, err)
		assert.Equal(t, "new content", comment.Content)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestPostgresCommentRepo_Delete(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresCommentRepo(mockDB, slog.Default())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		commentID := uuid.New()

		mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM comments WHERE id = $1")).
			WithArgs(commentID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, commentID))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("AlreadyGone", func(t *testing.T) {
		commentID := uuid.New()

		mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM comments WHERE id = $1")).
			WithArgs(commentID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, commentID), types.ErrNotFound)
	})
}
