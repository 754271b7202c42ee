package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "dev with nothing set",
			cfg:  Config{Env: "dev", ObjectStoreType: "local"},
		},
		{
			name:    "s3 without bucket",
			cfg:     Config{Env: "dev", ObjectStoreType: "s3"},
			wantErr: "S3_BUCKET",
		},
		{
			name: "s3 with bucket",
			cfg:  Config{Env: "dev", ObjectStoreType: "s3", S3Bucket: "records"},
		},
		{
			name:    "production without database",
			cfg:     Config{Env: "production", ObjectStoreType: "local", GeminiAPIKey: "key"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "production without model key",
			cfg:     Config{Env: "production", ObjectStoreType: "local", DatabaseURL: "postgres://x"},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name: "production fully configured",
			cfg:  Config{Env: "production", ObjectStoreType: "local", DatabaseURL: "postgres://x", GeminiAPIKey: "key"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNormalizeStoreType(t *testing.T) {
	if got := normalizeStoreType(" S3 "); got != "s3" {
		t.Fatalf("expected s3, got %q", got)
	}
	if got := normalizeStoreType("gcs"); got != "local" {
		t.Fatalf("expected local fallback, got %q", got)
	}
}
