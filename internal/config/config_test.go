package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DOCSIGHT_API_KEY", "WORKER_COUNT", "MAX_UPLOAD_PAGES", "JOB_TTL", "PATHSTORE_URL", "DB_PATH"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" || cfg.WorkerCount != 4 || cfg.MaxUploadPages != 50 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.JobTTL != time.Hour || cfg.DBPath != "docsight.db" || cfg.MirrorEnabled() {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected the pdftotext fallback on by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "9")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("MAX_CONCURRENT_DECODE", "-3")
	t.Setenv("STATS_WINDOW", "not-a-duration")

	cfg := Load()
	if cfg.WorkerCount != 9 || cfg.MaxUploadBytes != 1024 || cfg.JobTTL != 90*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected fallback disabled")
	}
	if cfg.MaxConcurrentDecode != 4 {
		t.Errorf("expected non-positive decode limit reset to 4, got %d", cfg.MaxConcurrentDecode)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected invalid duration to fall back, got %v", cfg.StatsWindow)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		serverErr bool
	}{
		{"cli defaults", Config{Port: "8090", DBPath: "x.db"}, false, true},
		{"server ok", Config{Port: "8090", DBPath: "x.db", APIKey: "k"}, false, false},
		{"mirror without key", Config{Port: "8090", DBPath: "x.db", APIKey: "k", PathstoreURL: "http://ps"}, true, true},
		{"bad port", Config{Port: "http", DBPath: "x.db", APIKey: "k"}, false, true},
		{"empty db", Config{Port: "8090", APIKey: "k"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err := tt.cfg.ValidateServer(); (err != nil) != tt.serverErr {
				t.Errorf("ValidateServer() = %v, wantErr %v", err, tt.serverErr)
			}
		})
	}
}
