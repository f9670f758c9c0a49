package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/store/jsonstore"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCheckCollection(t *testing.T) {
	for _, c := range docstore.Collections {
		if err := docstore.CheckCollection(c); err != nil {
			t.Errorf("CheckCollection(%q): %v", c, err)
		}
	}
	if err := docstore.CheckCollection("audit_events"); !errors.Is(err, docstore.ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestReadAll_DecodeError(t *testing.T) {
	ctx := context.Background()
	s := jsonstore.NewMemory(zap.NewNop())

	// progress stored as a string cannot decode into Project.Progress
	bad := bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "progress", Value: "half"}}
	if err := s.Write(ctx, docstore.Projects, []any{bad}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := docstore.ReadAll[models.Project](ctx, s, docstore.Projects); err == nil {
		t.Error("expected decode error")
	}
}

func TestWriteAll_Empty(t *testing.T) {
	ctx := context.Background()
	s := jsonstore.NewMemory(zap.NewNop())

	if err := docstore.WriteAll(ctx, s, docstore.Contractors, []models.Contractor(nil)); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	got, err := docstore.ReadAll[models.Contractor](ctx, s, docstore.Contractors)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no contractors, got %d", len(got))
	}
}

func TestWriteAll_KeepsPassword(t *testing.T) {
	ctx := context.Background()
	s := jsonstore.NewMemory(zap.NewNop())

	c := models.Contractor{ID: primitive.NewObjectID(), Username: "raj", Password: "admin123"}
	if err := docstore.WriteAll(ctx, s, docstore.Contractors, []models.Contractor{c}); err != nil {
		t.Fatal(err)
	}
	got, err := docstore.ReadAll[models.Contractor](ctx, s, docstore.Contractors)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Password != "admin123" {
		t.Errorf("password must survive persistence, got %+v", got)
	}
}
