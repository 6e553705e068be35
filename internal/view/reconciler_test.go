package view_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/view"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	projects []project.Project
	loads    int
}

func (s *fakeStore) load(ctx context.Context) ([]project.Project, error) {
	s.loads++
	out := make([]project.Project, len(s.projects))
	copy(out, s.projects)
	return out, nil
}

func setStatus(id string, status project.Status) func([]project.Project) []project.Project {
	return func(items []project.Project) []project.Project {
		for i := range items {
			if items[i].ID == id {
				items[i].Status = status
			}
		}
		return items
	}
}

func TestReconciler_AuthoritativeOverwritesOptimistic(t *testing.T) {
	store := &fakeStore{projects: []project.Project{{ID: "p1", Status: project.StatusPending}}}
	r := view.NewReconciler(store.load)
	ctx := context.Background()

	_, err := r.Refresh(ctx)
	require.NoError(t, err)

	out, err := r.Mutate(ctx, setStatus("p1", project.StatusInProgress), func(ctx context.Context) error {
		// the store settles on a different value than the projection guessed
		store.projects[0].Status = project.StatusCompleted
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, project.StatusInProgress, out.Optimistic[0].Status)
	require.Equal(t, project.StatusCompleted, out.Authoritative[0].Status)
	require.Equal(t, project.StatusCompleted, r.Items()[0].Status)
	require.Equal(t, 2, store.loads)
}

func TestReconciler_CommitFailureRestoresSnapshot(t *testing.T) {
	store := &fakeStore{projects: []project.Project{{ID: "p1", Status: project.StatusPending}}}
	r := view.NewReconciler(store.load)
	ctx := context.Background()
	_, err := r.Refresh(ctx)
	require.NoError(t, err)

	boom := errors.New("store unavailable")
	out, err := r.Mutate(ctx, setStatus("p1", project.StatusInProgress), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, project.StatusInProgress, out.Optimistic[0].Status)
	require.Nil(t, out.Authoritative)
	require.Equal(t, project.StatusPending, r.Items()[0].Status)
	require.Equal(t, 1, store.loads)
}

func TestReconciler_ItemsIsACopy(t *testing.T) {
	store := &fakeStore{projects: []project.Project{{ID: "p1", Status: project.StatusPending}}}
	r := view.NewReconciler(store.load)
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	items := r.Items()
	items[0].Status = project.StatusCompleted
	require.Equal(t, project.StatusPending, r.Items()[0].Status)
}
