package postgres

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		raw.Close()
	})
	return sqlx.NewDb(raw, "postgres"), mock
}

func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: pgUniqueViolation, Constraint: constraint}
}

func expectOutbox(mock sqlmock.Sqlmock) *sqlmock.ExpectedExec {
	return mock.ExpectExec(q("INSERT INTO outbox_events")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg())
}
