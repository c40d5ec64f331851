package migration

import (
	"testing"
	"testing/fstest"
)

func TestPreviousVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_create_videos.up.sql":    {Data: []byte("CREATE TABLE videos (id INT);")},
		"migrations/0001_create_videos.down.sql":  {Data: []byte("DROP TABLE videos;")},
		"migrations/0003_add_language.up.sql":     {Data: []byte("ALTER TABLE videos ADD c INT;")},
		"migrations/0002_index_status.up.sql":     {Data: []byte("CREATE INDEX i ON videos (id);")},
		"migrations/notes_without_version.up.sql": {Data: []byte("-- ignored")},
		"migrations/0002_index_status.down.sql":   {Data: []byte("DROP INDEX i ON videos;")},
	}

	tests := []struct {
		name    string
		dirty   int
		want    int
		wantErr bool
	}{
		{"first migration", 1, nilVersion, false},
		{"middle migration", 2, 1, false},
		{"unsorted entries", 3, 2, false},
		{"unknown version", 7, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := previousVersion(fsys, tc.dirty)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got version %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("previous of %d = %d; want %d", tc.dirty, got, tc.want)
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := previousVersion(migrationsFS, 1)
	if err != nil {
		t.Fatalf("embedded migrations unreadable: %v", err)
	}
	if got != nilVersion {
		t.Errorf("previous of first embedded migration = %d; want %d", got, nilVersion)
	}
}
