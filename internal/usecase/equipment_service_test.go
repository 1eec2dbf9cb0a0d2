package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

func newTestEquipmentService(eq *fakeEquipment, users *fakeUsers) *EquipmentService {
	return NewEquipmentService(NewStaticSnapshot(testSnapshot()), eq, users, logger.NewNop())
}

func TestSplitEquipmentList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"commas", "Oven, blender", []string{"blender", "oven"}},
		{"semicolons and lines", "oven;\nFrying   Pan\r\n", []string{"frying pan", "oven"}},
		{"duplicates", "oven, OVEN , oven", []string{"oven"}},
		{"blank", " , ;\n", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitEquipmentList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitEquipmentList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEquipmentService_AddText(t *testing.T) {
	ctx := context.Background()

	t.Run("adds known tools and reports unknown ones", func(t *testing.T) {
		eq := newFakeEquipment(testSnapshot())
		users := &fakeUsers{}
		svc := newTestEquipmentService(eq, users)

		report, err := svc.AddText(ctx, testUser, "Ann", "Oven, blender, spaceship")
		if err != nil {
			t.Fatalf("AddText() error = %v", err)
		}
		if want := []string{"blender", "oven"}; !reflect.DeepEqual(report.Added, want) {
			t.Errorf("Added = %v, want %v", report.Added, want)
		}
		if want := []string{"spaceship"}; !reflect.DeepEqual(report.NotFound, want) {
			t.Errorf("NotFound = %v, want %v", report.NotFound, want)
		}
		if users.users[testUser] != "Ann" {
			t.Errorf("user not registered: %v", users.users)
		}

		names, err := svc.List(ctx, testUser)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if want := []string{"blender", "oven"}; !reflect.DeepEqual(names, want) {
			t.Errorf("List() = %v, want %v", names, want)
		}
	})

	t.Run("adding twice keeps one entry", func(t *testing.T) {
		eq := newFakeEquipment(testSnapshot())
		svc := newTestEquipmentService(eq, &fakeUsers{})

		for i := 0; i < 2; i++ {
			if _, err := svc.AddText(ctx, testUser, "", "oven"); err != nil {
				t.Fatalf("AddText() error = %v", err)
			}
		}
		names, _ := svc.List(ctx, testUser)
		if len(names) != 1 {
			t.Errorf("List() = %v, want one entry", names)
		}
	})

	t.Run("only unknown names do not write", func(t *testing.T) {
		eq := newFakeEquipment(testSnapshot())
		users := &fakeUsers{}
		svc := newTestEquipmentService(eq, users)

		report, err := svc.AddText(ctx, testUser, "", "spaceship")
		if err != nil {
			t.Fatalf("AddText() error = %v", err)
		}
		if len(report.Added) != 0 || len(report.NotFound) != 1 {
			t.Errorf("report = %+v", report)
		}
		if eq.writeCalls != 0 || len(users.users) != 0 {
			t.Errorf("writes = %d, users = %v, want none", eq.writeCalls, users.users)
		}
	})

	t.Run("blank input is empty", func(t *testing.T) {
		svc := newTestEquipmentService(newFakeEquipment(testSnapshot()), &fakeUsers{})
		if _, err := svc.AddText(ctx, testUser, "", " , "); !errors.Is(err, domain.ErrEmptyStatement) {
			t.Errorf("error = %v, want ErrEmptyStatement", err)
		}
	})

	t.Run("invalid user", func(t *testing.T) {
		svc := newTestEquipmentService(newFakeEquipment(testSnapshot()), &fakeUsers{})
		if _, err := svc.AddText(ctx, 0, "", "oven"); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		eq := newFakeEquipment(testSnapshot())
		eq.err = domain.ErrStorageUnavailable
		svc := newTestEquipmentService(eq, &fakeUsers{})
		if _, err := svc.AddText(ctx, testUser, "", "oven"); !errors.Is(err, domain.ErrStorageUnavailable) {
			t.Errorf("error = %v, want ErrStorageUnavailable", err)
		}
	})
}

func TestEquipmentService_RemoveText(t *testing.T) {
	ctx := context.Background()

	eq := newFakeEquipment(testSnapshot())
	svc := newTestEquipmentService(eq, &fakeUsers{})
	if _, err := svc.AddText(ctx, testUser, "", "oven, blender"); err != nil {
		t.Fatalf("AddText() error = %v", err)
	}

	report, err := svc.RemoveText(ctx, testUser, "oven; microwave; spaceship")
	if err != nil {
		t.Fatalf("RemoveText() error = %v", err)
	}
	if want := []string{"oven"}; !reflect.DeepEqual(report.Removed, want) {
		t.Errorf("Removed = %v, want %v", report.Removed, want)
	}
	if want := []string{"microwave", "spaceship"}; !reflect.DeepEqual(report.NotFound, want) {
		t.Errorf("NotFound = %v, want %v", report.NotFound, want)
	}

	names, _ := svc.List(ctx, testUser)
	if want := []string{"blender"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}
