package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Conversation must return the same ascending-by-send-time rows no matter
// which party runs the lookup: the pair is matched in both orderings and the
// sort is part of the query.
func TestMessageRepoConversationSymmetric(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMessageRepo(db)

	q := regexp.QuoteMeta("SELECT " + messageCols + " FROM messages WHERE (sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?) ORDER BY sent_at ASC, id ASC")
	t0 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "body", "sent_at"}).
			AddRow(1, 1, 2, "hi", t0).
			AddRow(2, 2, 1, "hello", t0.Add(time.Minute))
	}

	mock.ExpectQuery(q).WithArgs(uint64(1), uint64(2), uint64(2), uint64(1)).WillReturnRows(rows())
	mock.ExpectQuery(q).WithArgs(uint64(2), uint64(1), uint64(1), uint64(2)).WillReturnRows(rows())

	fromA, err := repo.Conversation(context.Background(), 1, 2)
	require.NoError(t, err)
	fromB, err := repo.Conversation(context.Background(), 2, 1)
	require.NoError(t, err)

	assert.Equal(t, fromA, fromB)
	require.Len(t, fromA, 2)
	assert.False(t, fromA[1].SentAt.Before(fromA[0].SentAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
