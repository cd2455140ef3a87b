package attributes_test

import (
	"errors"
	"testing"

	"github.com/id-contact/test-auth/internal/attributes"
)

func testStore() *attributes.Store {
	return attributes.NewStore(map[string]string{
		"email":    "tester@example.com",
		"fullname": "Test Tester",
	})
}

func TestStore_Verify_AllKnown(t *testing.T) {
	store := testStore()

	if err := store.Verify([]string{"email", "fullname"}); err != nil {
		t.Fatalf("Verify failed for known attributes: %v", err)
	}
}

func TestStore_Verify_Empty(t *testing.T) {
	store := testStore()

	if err := store.Verify(nil); err != nil {
		t.Fatalf("Verify failed for empty request: %v", err)
	}
}

func TestStore_Verify_Unknown(t *testing.T) {
	store := testStore()

	err := store.Verify([]string{"email", "bsn"})
	if err == nil {
		t.Fatal("expected error for unknown attribute")
	}
	if !errors.Is(err, attributes.ErrUnknownAttribute) {
		t.Errorf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestStore_Map(t *testing.T) {
	store := testStore()

	result, err := store.Map([]string{"email"})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 mapped attribute, got %d", len(result))
	}
	if result["email"] != "tester@example.com" {
		t.Errorf("expected email=tester@example.com, got %s", result["email"])
	}
}

func TestStore_Map_Unknown(t *testing.T) {
	store := testStore()

	_, err := store.Map([]string{"bsn"})
	if !errors.Is(err, attributes.ErrUnknownAttribute) {
		t.Errorf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestStore_Names_Sorted(t *testing.T) {
	store := testStore()

	names := store.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[0] != "email" || names[1] != "fullname" {
		t.Errorf("expected sorted names [email fullname], got %v", names)
	}
}

func TestStore_CopiesInput(t *testing.T) {
	values := map[string]string{"email": "tester@example.com"}
	store := attributes.NewStore(values)

	values["email"] = "changed@example.com"

	result, err := store.Map([]string{"email"})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if result["email"] != "tester@example.com" {
		t.Errorf("store should not observe mutations of the input map, got %s", result["email"])
	}
}
