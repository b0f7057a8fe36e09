package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/store"
	"github.com/goliatone/go-formdoc/pkg/store/memory"
	"github.com/goliatone/go-formdoc/pkg/store/storetest"
)

func TestMemoryStoresContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (store.TemplateStore, store.SubmissionStore) {
		return memory.NewTemplates(), memory.NewSubmissions()
	})
}

func TestMemoryTemplates_UsesClock(t *testing.T) {
	pinned := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	templates := memory.NewTemplates(memory.WithClock(func() time.Time { return pinned }))

	saved, err := templates.Put(context.Background(), store.Template{Markup: "{{a:text}}"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !saved.CreatedAt.Equal(pinned) || !saved.UpdatedAt.Equal(pinned) {
		t.Fatalf("expected pinned timestamps, got %+v", saved)
	}
}

func TestMemorySubmissions_ReturnsCopies(t *testing.T) {
	submissions := memory.NewSubmissions()
	ctx := context.Background()

	saved, err := submissions.Put(ctx, store.Submission{TemplateID: "t", Data: model.Values{"a": "1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	saved.Data["a"] = "changed"

	got, err := submissions.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Data.Text("a") != "1" {
		t.Fatalf("stored submission was mutated through returned value: %+v", got.Data)
	}
}
