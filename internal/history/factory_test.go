package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  StoreConfig
		want    interface{}
		wantErr string
	}{
		{name: "disabled", config: StoreConfig{}, want: NopStore{}},
		{name: "none", config: StoreConfig{Type: "none"}, want: NopStore{}},
		{name: "json", config: StoreConfig{Type: "json", ConnectionString: filepath.Join(dir, "h.json")}, want: &FileStore{}},
		{name: "sqlite", config: StoreConfig{Type: "SQLite", ConnectionString: filepath.Join(dir, "sub", "h.db")}, want: &SQLStore{}},
		{name: "postgres without dsn", config: StoreConfig{Type: "postgres"}, wantErr: "connection string is required"},
		{name: "unknown", config: StoreConfig{Type: "mongo"}, wantErr: "unsupported store type: mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.config)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.want, store)
		})
	}
}
