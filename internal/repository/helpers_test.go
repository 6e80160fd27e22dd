package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/testutil"
)

func seedUser(t *testing.T, database *sql.DB) *domain.User {
	t.Helper()
	u := testutil.NewTestUser("test@example.com")
	require.NoError(t, NewSQLiteUserRepo(database).Create(context.Background(), u))
	return u
}

func seedPlan(t *testing.T, database *sql.DB, userID string) *domain.DevelopmentPlan {
	t.Helper()
	p := testutil.NewTestPlan(userID)
	require.NoError(t, NewSQLitePlanRepo(database).Create(context.Background(), p))
	return p
}
