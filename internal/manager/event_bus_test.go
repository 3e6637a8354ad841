package manager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestEventPublisher_InitAndReload_EmitsEvents(t *testing.T) {
	dir := t.TempDir()
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{Logger: zerolog.Nop(), Events: pub})
	writeFile(t, dir, "sales.yaml", "name: sales\nkind: query\nengine: statistical\n")
	if err := m.InitModels(context.Background(), dir); err != nil {
		t.Fatalf("InitModels: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "sales.yaml")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := map[string]bool{
		EventModelLoaded + "/default":           false,
		EventModelLoaded + "/linear_regression": false,
		EventModelLoaded + "/sales":             false,
		EventModelUnloaded + "/sales":           false,
		EventRegistryReloaded + "/":             false,
	}
	evts := pub.Events()
	for _, e := range evts {
		if _, ok := want[e.Name+"/"+e.Model]; ok {
			want[e.Name+"/"+e.Model] = true
		}
	}
	for k, v := range want {
		if !v {
			t.Fatalf("expected event %q to be published; got events: %+v", k, evts)
		}
	}
}

func TestSetEventPublisher_NilRestoresNoop(t *testing.T) {
	m := New(zerolog.Nop())
	m.SetEventPublisher(nil)
	if _, ok := m.events.(noopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", m.events)
	}
	m.publish(Event{Name: "x"})
}
