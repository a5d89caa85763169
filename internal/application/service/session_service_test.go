package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
)

func completedSale(sessionID uuid.UUID, method enum.PaymentMethod, total int64) *entity.SaleTransaction {
	return &entity.SaleTransaction{
		ID:             uuid.New(),
		SessionID:      sessionID,
		RegisterNumber: "REG-001",
		CashierID:      uuid.New(),
		Date:           time.Now(),
		Total:          total,
		PaymentMethod:  method,
		Status:         enum.TransactionStatusCompleted,
	}
}

func TestOpenSession(t *testing.T) {
	sessions := NewSessionService(newFakeSessionRepo(), newFakeTxnRepo())

	session, err := sessions.OpenSession(context.Background(), &OpenSessionInput{
		RegisterNumber: "REG-001",
		OpenedBy:       uuid.New(),
		StartingAmount: 100.00,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.SessionStatusOpen, session.Status)
	assert.Equal(t, int64(10000), session.StartingAmount)
	assert.True(t, session.IsOpen())
}

func TestOpenSession_SecondOpenOnSameRegisterRejected(t *testing.T) {
	sessions := NewSessionService(newFakeSessionRepo(), newFakeTxnRepo())
	ctx := context.Background()

	_, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 50})
	require.NoError(t, err)

	_, err = sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 50})
	assert.Error(t, err)

	// A different register is unaffected
	_, err = sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-002", OpenedBy: uuid.New(), StartingAmount: 50})
	assert.NoError(t, err)
}

func TestOpenSession_Validation(t *testing.T) {
	sessions := NewSessionService(newFakeSessionRepo(), newFakeTxnRepo())
	ctx := context.Background()

	_, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "  ", OpenedBy: uuid.New()})
	assert.Error(t, err)

	_, err = sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: -5})
	assert.Error(t, err)
}

func TestCloseSession_ExpectedFromRecordedCash(t *testing.T) {
	txns := newFakeTxnRepo()
	sessions := NewSessionService(newFakeSessionRepo(), txns)
	ctx := context.Background()

	session, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 100.00})
	require.NoError(t, err)

	// One cash sale of 36.00 was recorded during the session. Card sales and
	// voided cash never enter the drawer expectation.
	require.NoError(t, txns.Create(ctx, completedSale(session.ID, enum.PaymentMethodCash, 3600)))
	require.NoError(t, txns.Create(ctx, completedSale(session.ID, enum.PaymentMethodCard, 9900)))
	voided := completedSale(session.ID, enum.PaymentMethodCash, 5000)
	voided.Status = enum.TransactionStatusVoided
	require.NoError(t, txns.Create(ctx, voided))

	closed, err := sessions.CloseSession(ctx, session.ID, &CloseSessionInput{
		ClosedBy:      uuid.New(),
		CountedAmount: 136.00,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.SessionStatusClosed, closed.Status)
	require.NotNil(t, closed.ExpectedAmount)
	require.NotNil(t, closed.Discrepancy)
	assert.Equal(t, int64(13600), *closed.ExpectedAmount)
	assert.Equal(t, int64(0), *closed.Discrepancy)
}

func TestCloseSession_ShortDrawerDiscrepancy(t *testing.T) {
	txns := newFakeTxnRepo()
	sessions := NewSessionService(newFakeSessionRepo(), txns)
	ctx := context.Background()

	session, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 100.00})
	require.NoError(t, err)
	require.NoError(t, txns.Create(ctx, completedSale(session.ID, enum.PaymentMethodCash, 3600)))

	closed, err := sessions.CloseSession(ctx, session.ID, &CloseSessionInput{ClosedBy: uuid.New(), CountedAmount: 130.00})
	require.NoError(t, err)
	assert.Equal(t, int64(-600), *closed.Discrepancy)
}

func TestCloseSession_AlreadyClosed(t *testing.T) {
	sessions := NewSessionService(newFakeSessionRepo(), newFakeTxnRepo())
	ctx := context.Background()

	session, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 100})
	require.NoError(t, err)

	_, err = sessions.CloseSession(ctx, session.ID, &CloseSessionInput{ClosedBy: uuid.New(), CountedAmount: 100})
	require.NoError(t, err)

	_, err = sessions.CloseSession(ctx, session.ID, &CloseSessionInput{ClosedBy: uuid.New(), CountedAmount: 100})
	assert.Error(t, err, "a closed session is terminal")
}

func TestGetActiveSession(t *testing.T) {
	sessions := NewSessionService(newFakeSessionRepo(), newFakeTxnRepo())
	ctx := context.Background()

	active, err := sessions.GetActiveSession(ctx, "REG-001")
	require.NoError(t, err)
	assert.Nil(t, active)

	opened, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 100})
	require.NoError(t, err)

	active, err = sessions.GetActiveSession(ctx, "REG-001")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, opened.ID, active.ID)
}

func TestSummarize(t *testing.T) {
	txns := newFakeTxnRepo()
	sessions := NewSessionService(newFakeSessionRepo(), txns)
	ctx := context.Background()

	session, err := sessions.OpenSession(ctx, &OpenSessionInput{RegisterNumber: "REG-001", OpenedBy: uuid.New(), StartingAmount: 100.00})
	require.NoError(t, err)

	require.NoError(t, txns.Create(ctx, completedSale(session.ID, enum.PaymentMethodCash, 2000)))
	require.NoError(t, txns.Create(ctx, completedSale(session.ID, enum.PaymentMethodCash, 1500)))
	require.NoError(t, txns.Create(ctx, completedSale(session.ID, enum.PaymentMethodCard, 4200)))

	summary, err := sessions.Summarize(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, 135.00, summary.ExpectedCash)
	require.Len(t, summary.Methods, 2)

	byMethod := make(map[enum.PaymentMethod]MethodSummaryView)
	for _, m := range summary.Methods {
		byMethod[m.PaymentMethod] = m
	}
	assert.Equal(t, int64(2), byMethod[enum.PaymentMethodCash].Count)
	assert.Equal(t, 35.00, byMethod[enum.PaymentMethodCash].Total)
	assert.Equal(t, 42.00, byMethod[enum.PaymentMethodCard].Total)
}
