package main

import (
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/muscle-plan/internal/config"
	"github.com/fdg312/muscle-plan/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)
	validateConfig(cfg)

	server, err := httpserver.New(cfg)
	if err != nil {
		log.Fatalf("FATAL startup: %v", err)
	}

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are only reported as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	log.Println("========== Muscle Plan API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)
	log.Printf("  log_level        = %s", cfg.LogLevel)

	log.Println("---- plan ----")
	log.Printf("  default_region   = %s", cfg.DefaultRegion)
	log.Printf("  session_ttl      = %dm", cfg.SessionTTLMinutes)
	log.Printf("  exports_max      = %d", cfg.ExportsMaxStored)

	log.Println("---- http ----")
	log.Printf("  cors_origins     = %s", describeOrigins(cfg.CORSAllowedOrigins))
	log.Printf("  cors_credentials = %t", cfg.CORSAllowCredentials)
	if cfg.RateLimitRPS > 0 {
		log.Printf("  rate_limit       = %d rps (burst=%d)", cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else {
		log.Printf("  rate_limit       = disabled")
	}

	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	log.Println("=====================================")
}

// validateConfig performs fatal checks before any listener is opened.
func validateConfig(cfg *config.Config) {
	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if cfg.Blob.S3.PreferPublicURL && strings.TrimSpace(cfg.Blob.S3.PublicBaseURL) == "" {
		log.Printf("WARN blob: S3_PREFER_PUBLIC_URL=1 without S3_PUBLIC_BASE_URL, presigned URLs will be used")
	}

	isProd := cfg.Env == "production" || cfg.Env == "staging"
	if isProd && len(cfg.CORSAllowedOrigins) == 0 {
		log.Printf("WARN http: no CORS_ALLOWED_ORIGINS in %s, browsers on other origins will be blocked", cfg.Env)
	}
}

func describeOrigins(origins []string) string {
	if len(origins) == 0 {
		return "(none)"
	}
	return strings.Join(origins, ",")
}
