package admin

import (
	"context"
	"strings"
	"testing"

	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// scriptedRunner returns the rows registered for the first matching query
// fragment and records everything it executed.
type scriptedRunner struct {
	responses map[string][]graph.Row
	queries   []string
}

func (f *scriptedRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]graph.Row, error) {
	f.queries = append(f.queries, cypher)
	for fragment, rows := range f.responses {
		if strings.Contains(cypher, fragment) {
			return rows, nil
		}
	}
	return nil, nil
}

type fakeTx struct {
	runner *scriptedRunner
}

func (f *fakeTx) WriteTx(ctx context.Context, fn func(graph.Runner) error) error {
	return fn(f.runner)
}

func newTestService(t *testing.T, runner *scriptedRunner) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Graph: runner, Tx: &fakeTx{runner: runner}})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func userRow(id, fullName, role string, approved bool) graph.Row {
	return graph.Row{
		"u": map[string]any{
			"id":         id,
			"fullName":   fullName,
			"email":      id + "@example.com",
			"isApproved": approved,
			"createdAt":  "2025-06-01T12:00:00Z",
		},
		"roleName":  role,
		"role":      role,
		"storeName": nil,
	}
}

func TestStatsCountsRolesAndPending(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"r.name AS roleName": {
			userRow("c1", "Client Un", "Client", true),
			userRow("c2", "Client Deux", "Client", true),
			userRow("p1", "Presta Un", "Prestataire", true),
			userRow("p2", "Presta Deux", "Prestataire", false),
		},
		"totalProducts": {{
			"totalProducts": int64(7),
			"totalOrders":   int64(3),
			"totalRevenue":  420.5,
			"pendingOrders": int64(2),
		}},
	}}
	svc := newTestService(t, runner)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalClients != 2 || stats.TotalPrestataires != 2 || stats.PendingPrestataires != 1 {
		t.Fatalf("unexpected user breakdown: %+v", stats)
	}
	if stats.TotalProducts != 7 || stats.TotalOrders != 3 || stats.TotalRevenue != 420.5 || stats.PendingOrders != 2 {
		t.Fatalf("unexpected catalog aggregates: %+v", stats)
	}
}

func TestListPendingPrestatairesFilters(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"normalizedName: 'PRESTATAIRE'": {
			userRow("p1", "Approuvé", "Prestataire", true),
			userRow("p2", "En Attente", "Prestataire", false),
		},
	}}
	svc := newTestService(t, runner)

	pending, err := svc.ListPendingPrestataires(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Count != 1 || pending.TotalPrestataires != 2 {
		t.Fatalf("unexpected counts: %+v", pending)
	}
	if pending.Prestataires[0].ID != "p2" {
		t.Fatalf("expected p2 pending, got %+v", pending.Prestataires)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, &scriptedRunner{})

	err := svc.DeleteUser(context.Background(), "ghost")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApprovePrestataireNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, &scriptedRunner{})

	err := svc.ApprovePrestataire(context.Background(), "ghost")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApprovePrestataireCreatesStoreAndNotifies(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"SET u.isApproved = true": {{"fullName": "Amal Fleuriste"}},
	}}
	svc := newTestService(t, runner)

	if err := svc.ApprovePrestataire(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawStore, sawNotification bool
	for _, q := range runner.queries {
		if strings.Contains(q, "MERGE (st:Store {prestataireId: $userId})") {
			sawStore = true
		}
		if strings.Contains(q, ":Notification") {
			sawNotification = true
		}
	}
	if !sawStore {
		t.Fatal("expected store merge query")
	}
	if !sawNotification {
		t.Fatal("expected vendor notification write")
	}
}

func TestFixDataRunsAllStepsOnce(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{}

	applied, err := FixData(context.Background(), &fakeTx{runner: runner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(applied) != len(fixSteps) {
		t.Fatalf("expected %d steps, got %d", len(fixSteps), len(applied))
	}
	if len(runner.queries) != len(fixSteps) {
		t.Fatalf("expected %d queries, got %d", len(fixSteps), len(runner.queries))
	}
}
