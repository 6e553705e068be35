package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aceweb/agencyops/internal/domain/activity"
	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/aceweb/agencyops/internal/domain/client"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/aceweb/agencyops/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func seedClient(t *testing.T, db *DB, id, name string, at time.Time) {
	t.Helper()
	require.NoError(t, NewClientRepository(db).Create(context.Background(), &client.Client{ID: id, Name: name, CreatedAt: at}))
}

func seedProject(t *testing.T, db *DB, id, clientID string, status project.Status, value int64, at time.Time) {
	t.Helper()
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), &project.Project{
		ID: id, Name: "Project " + id, ClientID: clientID, Status: status,
		Value: decimal.NewFromInt(value), CreatedAt: at,
	}))
}

func TestClientRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	c := &client.Client{ID: "c1", Name: "Padaria Sol", Email: "sol@padaria.com", Document: "123", CreatedAt: t0}
	require.NoError(t, repo.Create(ctx, c))
	seedClient(t, db, "c2", "Oficina Lua", t0.Add(time.Hour))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Padaria Sol", got.Name)
	require.Equal(t, "123", got.Document)
	require.True(t, got.CreatedAt.Equal(t0))

	list, err := repo.List(ctx, client.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c2", list[0].ID)

	list, err = repo.List(ctx, client.ListOptions{Query: "PADARIA"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	c.Name = "Padaria Sol e Lua"
	require.NoError(t, repo.Update(ctx, c))
	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Padaria Sol e Lua", got.Name)

	require.NoError(t, repo.Delete(ctx, "c1"))
	_, err = repo.Get(ctx, "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "c1"), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, c), repository.ErrNotFound)
}

func TestLeadRepository_ListByStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &lead.Lead{ID: "l1", Name: "Ana", Status: lead.StatusNew, CreatedAt: t0}))
	require.NoError(t, repo.Create(ctx, &lead.Lead{ID: "l2", Name: "Bia", Source: "Instagram", Status: lead.StatusQualified, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &lead.Lead{ID: "l3", Name: "Caio", Status: lead.StatusQualified, CreatedAt: t0.Add(2 * time.Hour)}))

	all, err := repo.List(ctx, lead.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "l3", all[0].ID)

	qualified, err := repo.List(ctx, lead.ListOptions{Status: lead.StatusQualified})
	require.NoError(t, err)
	require.Len(t, qualified, 2)

	l := qualified[1]
	l.Status = lead.StatusConverted
	require.NoError(t, repo.Update(ctx, &l))
	got, err := repo.Get(ctx, "l2")
	require.NoError(t, err)
	require.Equal(t, lead.StatusConverted, got.Status)
	require.Equal(t, "Instagram", got.Source)
}

func TestProjectRepository_AttachesClientAndTasks(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	seedClient(t, db, "c1", "Padaria Sol", t0)
	deadline := t0.AddDate(0, 1, 0)
	require.NoError(t, projects.Create(ctx, &project.Project{
		ID: "p1", Name: "Site", ClientID: "c1", Status: project.StatusInProgress,
		Value: decimal.RequireFromString("1500.50"), Deadline: &deadline, CreatedAt: t0,
	}))
	seedProject(t, db, "p2", "c1", project.StatusPending, 800, t0.Add(time.Hour))

	for i, title := range []string{"Logo", "Copy", "Deploy"} {
		require.NoError(t, tasks.Create(ctx, &task.Task{
			ID: title, ProjectID: "p1", Title: title, Status: task.StatusPending, CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := projects.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Padaria Sol", got.ClientName)
	require.True(t, got.Value.Equal(decimal.RequireFromString("1500.5")))
	require.NotNil(t, got.Deadline)
	require.True(t, got.Deadline.Equal(deadline))
	require.Len(t, got.Tasks, 3)
	require.Equal(t, "Logo", got.Tasks[0].Title)

	list, err := projects.List(ctx, project.ListOptions{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "p2", list[0].ID)
	require.Empty(t, list[0].Tasks)
	require.Len(t, list[1].Tasks, 3)

	list, err = projects.List(ctx, project.ListOptions{Statuses: []project.Status{project.StatusPending}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].Deadline)
}

func TestProjectRepository_ForeignKeys(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	err := NewProjectRepository(db).Create(ctx, &project.Project{ID: "p1", Name: "Orphan", ClientID: "ghost", Status: project.StatusPending, CreatedAt: t0})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	err = NewTaskRepository(db).Create(ctx, &task.Task{ID: "t1", ProjectID: "ghost", Title: "x", Status: task.StatusPending, CreatedAt: t0})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestClientDeleteCascades(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedClient(t, db, "c1", "Padaria Sol", t0)
	seedProject(t, db, "p1", "c1", project.StatusPending, 100, t0)
	require.NoError(t, NewTaskRepository(db).Create(ctx, &task.Task{ID: "t1", ProjectID: "p1", Title: "Logo", Status: task.StatusPending, CreatedAt: t0}))
	pid := "p1"
	txs := NewTransactionRepository(db)
	require.NoError(t, txs.Create(ctx, &finance.Transaction{
		ID: "x1", Description: "Entrada", Amount: decimal.NewFromInt(100), Type: finance.TypeIncome, Date: t0, ProjectID: &pid, CreatedAt: t0,
	}))

	require.NoError(t, NewClientRepository(db).Delete(ctx, "c1"))

	_, err := NewProjectRepository(db).Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = NewTaskRepository(db).Get(ctx, "t1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	tx, err := txs.Get(ctx, "x1")
	require.NoError(t, err)
	require.Nil(t, tx.ProjectID)
}

func TestTransactionRepository_StatusFilter(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	seedClient(t, db, "c1", "Padaria Sol", t0)
	seedProject(t, db, "p1", "c1", project.StatusInProgress, 100, t0)
	pid := "p1"

	rows := []finance.Transaction{
		{ID: "a", Description: "Entrada", Amount: decimal.NewFromInt(1000), Type: finance.TypeIncome, Status: finance.StatusPaid, Date: t0, ProjectID: &pid},
		{ID: "b", Description: "Parcela", Amount: decimal.NewFromInt(500), Type: finance.TypeIncome, Status: finance.StatusPending, Date: t0.AddDate(0, 0, 1), ProjectID: &pid},
		{ID: "c", Description: "Hospedagem", Amount: decimal.NewFromInt(300), Type: finance.TypeExpense, Date: t0.AddDate(0, 0, 2)},
	}
	for i := range rows {
		rows[i].CreatedAt = t0
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}

	all, err := repo.List(ctx, finance.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "c", all[0].ID)
	require.Equal(t, finance.Status(""), all[0].Status)
	require.Equal(t, "Project p1", all[1].ProjectName)

	paid, err := repo.List(ctx, finance.ListOptions{Status: finance.StatusPaid})
	require.NoError(t, err)
	require.Len(t, paid, 2)

	pending, err := repo.List(ctx, finance.ListOptions{Status: finance.StatusPending, Type: finance.TypeIncome})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.True(t, pending[0].Amount.Equal(decimal.NewFromInt(500)))

	linked, err := repo.List(ctx, finance.ListOptions{ProjectIDs: []string{"p1"}})
	require.NoError(t, err)
	require.Len(t, linked, 2)

	none, err := repo.List(ctx, finance.ListOptions{ProjectIDs: []string{}})
	require.NoError(t, err)
	require.Empty(t, none)

	b := pending[0]
	b.Status = finance.StatusPaid
	require.NoError(t, repo.Update(ctx, &b))
	pending, err = repo.List(ctx, finance.ListOptions{Status: finance.StatusPending})
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestActivityRepository_LogAndFilter(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	for i, typ := range []activity.ActivityType{activity.TypeLeadCreated, activity.TypeLeadStatusChanged, activity.TypeTaskToggled} {
		entity := activity.EntityLead
		if typ == activity.TypeTaskToggled {
			entity = activity.EntityTask
		}
		require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
			ID: string(typ), Actor: "ana", EntityType: entity, EntityID: "e1",
			ActivityType: typ, Summary: "s", CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, activity.TypeTaskToggled, all[0].ActivityType)

	entity := activity.EntityLead
	leads, err := repo.List(ctx, activity.ListActivityOptions{EntityType: &entity})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	page, err := repo.List(ctx, activity.ListActivityOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, activity.TypeLeadCreated, page[0].ActivityType)
}

func TestAPIKeyRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "secret-token", "ana", "laptop"))

	id, err := repo.ResolveActor(ctx, "secret-token")
	require.NoError(t, err)
	require.Equal(t, "ana", id)

	_, err = repo.ResolveActor(ctx, "wrong")
	require.ErrorIs(t, err, actor.ErrUnauthenticated)

	require.ErrorIs(t, repo.Add(ctx, "secret-token", "bia", ""), repository.ErrUniqueViolation)

	require.NoError(t, repo.Revoke(ctx, "ana"))
	_, err = repo.ResolveActor(ctx, "secret-token")
	require.ErrorIs(t, err, actor.ErrUnauthenticated)
}

func TestPostgres_Migrate(t *testing.T) {
	dsn := os.Getenv("AGENCYOPS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AGENCYOPS_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, DialectPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	clients := NewClientRepository(db)
	c := &client.Client{ID: "pg-" + time.Now().Format("150405.000000"), Name: "PG", CreatedAt: time.Now()}
	require.NoError(t, clients.Create(ctx, c))
	t.Cleanup(func() { _ = clients.Delete(ctx, c.ID) })

	err = NewProjectRepository(db).Create(ctx, &project.Project{ID: c.ID + "-p", Name: "x", ClientID: "ghost", Status: project.StatusPending, CreatedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
