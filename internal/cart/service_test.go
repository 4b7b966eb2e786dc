package cart

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

type scriptedRunner struct {
	responses map[string][]graph.Row
	queries   []string
	params    []map[string]any
}

func (f *scriptedRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]graph.Row, error) {
	f.queries = append(f.queries, cypher)
	f.params = append(f.params, params)
	for fragment, rows := range f.responses {
		if strings.Contains(cypher, fragment) {
			return rows, nil
		}
	}
	return nil, nil
}

type fakeTx struct {
	runner   *scriptedRunner
	rollback bool
}

func (f *fakeTx) WriteTx(ctx context.Context, fn func(graph.Runner) error) error {
	err := fn(f.runner)
	if err != nil {
		f.rollback = true
	}
	return err
}

func newTestService(t *testing.T, runner *scriptedRunner) (Service, *fakeTx) {
	t.Helper()
	tx := &fakeTx{runner: runner}
	svc, err := NewService(ServiceParams{
		Graph: runner,
		Tx:    tx,
		Now:   func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, tx
}

func cartRow(productID, quantity, stock int64, price float64) graph.Row {
	return graph.Row{
		"item": map[string]any{
			"id":        "item-1",
			"userId":    "user-1",
			"productId": productID,
			"quantity":  quantity,
			"addedAt":   "2025-06-01T10:00:00Z",
		},
		"p": map[string]any{
			"id":       productID,
			"name":     "Orchidée",
			"price":    price,
			"stock":    stock,
			"isActive": true,
		},
		"st":      map[string]any{"id": int64(1234), "name": "Chez Nour", "address": "Rabat", "prestataireId": "presta-1"},
		"storeId": int64(1234),
	}
}

func TestGetComputesTotals(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"ORDER BY item.addedAt": {
			cartRow(42, 2, 10, 15.0),
			cartRow(43, 1, 5, 8.0),
		},
	}}
	svc, _ := newTestService(t, runner)

	view, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalItems != 3 {
		t.Fatalf("expected 3 items, got %d", view.TotalItems)
	}
	if view.TotalPrice != 38.0 {
		t.Fatalf("expected total 38.0, got %v", view.TotalPrice)
	}
	if view.Items[0].TotalPrice != 30.0 {
		t.Fatalf("expected line total 30.0, got %v", view.Items[0].TotalPrice)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, &scriptedRunner{})

	err := svc.Add(context.Background(), "user-1", AddToCartRequest{ProductID: 42, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddMergesQuantity(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"MATCH (p:Product {id: $productId})\n\t\tRETURN p": {{"p": map[string]any{"id": int64(42)}}},
		"MERGE (u)-[:HAS_CART_ITEM]":                       {{"id": "item-1"}},
	}}
	svc, _ := newTestService(t, runner)

	if err := svc.Add(context.Background(), "user-1", AddToCartRequest{ProductID: 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merge := runner.queries[len(runner.queries)-1]
	if !strings.Contains(merge, "ON MATCH SET item.quantity = item.quantity + $quantity") {
		t.Fatalf("expected quantity merge, got %s", merge)
	}
	if got := runner.params[len(runner.params)-1]["quantity"]; got != int64(1) {
		t.Fatalf("expected default quantity 1, got %v", got)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"DETACH DELETE item": {{"deletedId": "item-1"}},
	}}
	svc, _ := newTestService(t, runner)

	if err := svc.UpdateQuantity(context.Background(), "user-1", 42, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(runner.queries[0], "DETACH DELETE item") {
		t.Fatalf("expected removal, got %s", runner.queries[0])
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, &scriptedRunner{})

	err := svc.UpdateQuantity(context.Background(), "user-1", 42, 3)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()
	svc, tx := newTestService(t, &scriptedRunner{})

	_, err := svc.Checkout(context.Background(), "user-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !tx.rollback {
		t.Fatal("expected transaction rollback")
	}
}

func TestCheckoutInsufficientStockAbortsAll(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"RETURN item, p, st.id AS storeId": {
			cartRow(42, 2, 10, 15.0),
			cartRow(43, 9, 5, 8.0),
		},
		"RETURN o.id AS orderId": {{"orderId": int64(111)}},
	}}
	svc, tx := newTestService(t, runner)

	_, err := svc.Checkout(context.Background(), "user-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if meta := pkgerrors.MetadataFor(typed.Code()); meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("insufficient stock must map to 400, got %d", meta.HTTPStatus)
	}
	if !tx.rollback {
		t.Fatal("expected rollback so no partial orders commit")
	}
	for _, q := range runner.queries {
		if strings.Contains(q, "DETACH DELETE item") {
			t.Fatal("cart must not be cleared when checkout fails")
		}
	}
}

func TestCheckoutCreatesOrderPerLine(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{responses: map[string][]graph.Row{
		"RETURN item, p, st.id AS storeId": {
			cartRow(42, 2, 10, 15.0),
			cartRow(43, 1, 5, 8.0),
		},
		"RETURN o.id AS orderId": {{"orderId": int64(111)}},
	}}
	svc, _ := newTestService(t, runner)

	resp, err := svc.Checkout(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderCount != 2 || len(resp.OrderIDs) != 2 {
		t.Fatalf("expected 2 orders, got %+v", resp)
	}

	orderQueries := 0
	cleared := false
	for _, q := range runner.queries {
		if strings.Contains(q, "CREATE (o:Order") {
			orderQueries++
			if !strings.Contains(q, "p.stock = p.stock - $quantity") {
				t.Fatal("checkout must decrement stock")
			}
		}
		if strings.Contains(q, "DETACH DELETE item") {
			cleared = true
		}
	}
	if orderQueries != 2 {
		t.Fatalf("expected 2 order creations, got %d", orderQueries)
	}
	if !cleared {
		t.Fatal("expected cart cleanup in the same transaction")
	}
}
