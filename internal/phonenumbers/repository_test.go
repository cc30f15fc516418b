package phonenumbers

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberRowColumns = []string{
	"id", "account_id", "provider_number_id", "number", "nickname", "area_code",
	"inbound_agent_id", "outbound_agent_id", "status", "created_at", "updated_at",
}

func TestRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	inbound := "a1"
	mock.ExpectQuery("SELECT (.+) FROM phone_numbers WHERE account_id").
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(numberRowColumns).
			AddRow("n1", "acct-1", "pn_abc", "+14155550100", "Main line", "415",
				&inbound, (*string)(nil), "active", now, now))

	repo := NewRepository(mock)
	list, err := repo.List(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "+14155550100", list[0].Number)
	require.NotNil(t, list[0].InboundAgentID)
	assert.Equal(t, "a1", *list[0].InboundAgentID)
	assert.Nil(t, list[0].OutboundAgentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO phone_numbers (.+) ON CONFLICT").
		WithArgs(pgxmock.AnyArg(), "acct-1", "pn_abc", "+14155550100", "", "415",
			(*string)(nil), (*string)(nil), "active", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepository(mock)
	n := &PhoneNumber{
		AccountID:        "acct-1",
		ProviderNumberID: "pn_abc",
		Number:           "+14155550100",
		AreaCode:         "415",
		Status:           "active",
	}
	require.NoError(t, repo.Upsert(context.Background(), n))
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM phone_numbers WHERE account_id = \\$1 AND id").
		WithArgs("acct-1", "ghost").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepository(mock)
	_, err = repo.Get(context.Background(), "acct-1", "ghost")
	assert.ErrorIs(t, err, ErrNumberNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
