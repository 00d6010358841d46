package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/repo"
	"github.com/pkordes/sharespace/backend/testutil"
)

func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	return repo.NewRepos(testutil.NewTx(t))
}

// mustUser inserts a user with a unique email.
func mustUser(t *testing.T, r repo.Repos, role domain.Role, lat, lon float64) domain.User {
	t.Helper()
	u, err := r.Users.Create(context.Background(), domain.User{
		Name:      string(role) + " user",
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Role:      role,
		Latitude:  lat,
		Longitude: lon,
	})
	require.NoError(t, err)
	return u
}

func mustProduct(t *testing.T, r repo.Repos) domain.Product {
	t.Helper()
	guest := mustUser(t, r, domain.RoleGuest, 37.5663, 126.9779)
	p, err := r.Products.Create(context.Background(), domain.Product{
		UserID:     guest.ID,
		Title:      "Winter clothes",
		Category:   "CLOTHES",
		PeriodDays: 3,
	})
	require.NoError(t, err)
	return p
}

func mustPlace(t *testing.T, r repo.Repos) domain.Place {
	t.Helper()
	host := mustUser(t, r, domain.RoleHost, 37.4979, 127.0276)
	pl, err := r.Places.Create(context.Background(), domain.Place{
		UserID:        host.ID,
		Title:         "Spare room",
		Category:      "ROOM",
		MaxPeriodDays: 30,
		Location:      "Gangnam-gu, Seoul",
	})
	require.NoError(t, err)
	return pl
}
