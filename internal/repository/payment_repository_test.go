package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmin881340/taka-portal/internal/model"
)

func TestPaymentRepoApproveCreditsBalanceOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, amount, status FROM payments WHERE id=? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "amount", "status"}).
			AddRow(7, 100, model.PaymentPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status=?, reviewed_at=UTC_TIMESTAMP(), reviewed_by=? WHERE id=? AND status=?")).
		WithArgs(model.PaymentApproved, uint64(2), uint64(5), model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET balance = balance + ? WHERE id=?")).
		WithArgs(int64(100), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Approve(context.Background(), 5, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepoApproveAlreadyReviewed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepo(db)

	// A payment that already left pending is locked, inspected and left
	// alone: no update, no balance credit.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, amount, status FROM payments WHERE id=? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "amount", "status"}).
			AddRow(7, 100, model.PaymentApproved))
	mock.ExpectRollback()

	err = repo.Approve(context.Background(), 5, 2)
	assert.ErrorIs(t, err, model.ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepoApproveMissingPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, amount, status FROM payments WHERE id=? FOR UPDATE")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "amount", "status"}))
	mock.ExpectRollback()

	err = repo.Approve(context.Background(), 404, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepoRejectHasNoBalanceSideEffect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, amount, status FROM payments WHERE id=? FOR UPDATE")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "amount", "status"}).
			AddRow(3, 250, model.PaymentPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status=?, reviewed_at=UTC_TIMESTAMP(), reviewed_by=? WHERE id=? AND status=?")).
		WithArgs(model.PaymentRejected, uint64(2), uint64(9), model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reject(context.Background(), 9, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepoCreateIsPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepo(db)

	now := time.Now().UTC().Truncate(time.Second)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments (user_id, sender_number, amount, receive_number, status) VALUES (?,?,?,?,?)")).
		WithArgs(uint64(7), "01700000000", int64(100), model.ReceiveNumber, model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+paymentCols+" FROM payments WHERE id=? LIMIT 1")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "sender_number", "amount", "receive_number", "status", "submitted_at", "reviewed_at", "reviewed_by"}).
			AddRow(11, 7, "01700000000", 100, model.ReceiveNumber, model.PaymentPending, now, nil, nil))

	p, err := repo.Create(context.Background(), 7, "01700000000", 100)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, model.ReceiveNumber, p.ReceiveNumber)
	assert.Nil(t, p.ReviewedAt)
	assert.Nil(t, p.ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
