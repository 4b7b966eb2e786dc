package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", envelope)
	}
}

func TestWriteErrorExposesClientMessages(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	err := pkgerrors.New(pkgerrors.CodeNotFound, "Produit introuvable")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if envelope.Error.Message != "Produit introuvable" {
		t.Fatalf("expected domain message, got %q", envelope.Error.Message)
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	err := pkgerrors.New(pkgerrors.CodeInternal, "connection pool exhausted")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if envelope.Error.Message == "connection pool exhausted" {
		t.Fatal("internal message must not leak to clients")
	}
}

func TestWriteErrorIncludesDetailsWhenAllowed(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	err := pkgerrors.New(pkgerrors.CodeStateConflict, "Veuillez vérifier votre email avant de vous connecter. Un nouveau code a été envoyé.").
		WithDetails(map[string]any{"requiresEmailVerification": true})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok || details["requiresEmailVerification"] != true {
		t.Fatalf("expected details to pass through, got %+v", envelope.Error.Details)
	}
}
