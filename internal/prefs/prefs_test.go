package prefs

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	store, err := Open("gorillas_prefs_test")
	if err != nil {
		t.Skipf("cannot open gdata store: %v", err)
	}
	return store
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ann", "ann"},
		{"  Bob  ", "bob"},
		{"Gorilla 2", "gorilla_2"},
		{"o'neil", "o_neil"},
		{"", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.name); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewStore(nil)
	if store.Persistent() {
		t.Error("nil manager store should not be persistent")
	}

	if _, ok, err := store.Load("Ann"); ok || err != nil {
		t.Fatalf("Load() on empty store = %v, %v", ok, err)
	}

	want := ThrowSettings{Speed: 42, Angle: 60}
	if err := store.Save("Ann", want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	got, ok, err := store.Load("ann")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if err := store.Save("Ann", ThrowSettings{Speed: 1}); err != nil {
		t.Errorf("Save() on nil store = %v", err)
	}
	if _, ok, err := store.Load("Ann"); ok || err != nil {
		t.Errorf("Load() on nil store = %v, %v", ok, err)
	}
}

func TestDiskStoreSurvivesReopen(t *testing.T) {
	store := openTestStore(t)
	if !store.Persistent() {
		t.Fatal("opened store should be persistent")
	}

	if err := store.Save("Ann", ThrowSettings{Speed: 33, Angle: 50}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save("Bob", ThrowSettings{Speed: 70, Angle: 20}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save("Ann", ThrowSettings{Speed: 34, Angle: 51}); err != nil {
		t.Fatalf("Save() overwrite failed: %v", err)
	}

	reopened, err := Open("gorillas_prefs_test")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	tests := []struct {
		name string
		want ThrowSettings
	}{
		{"Ann", ThrowSettings{Speed: 34, Angle: 51}},
		{"Bob", ThrowSettings{Speed: 70, Angle: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := reopened.Load(tt.name)
			if err != nil || !ok {
				t.Fatalf("Load() = %v, %v", ok, err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, ok, _ := reopened.Load("Cy"); ok {
		t.Error("unknown player should have no settings")
	}
}
