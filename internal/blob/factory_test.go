package blob

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	appcfg "github.com/fdg312/muscle-plan/internal/config"
)

func readyS3Config() appcfg.S3Config {
	return appcfg.S3Config{
		Endpoint:          "http://127.0.0.1:9000",
		Region:            "eu-west-3",
		Bucket:            "muscle-plan-exports",
		AccessKeyID:       "minio",
		SecretAccessKey:   "minio-secret",
		PublicBaseURL:     "https://cdn.example.com/exports/",
		PresignTTLSeconds: 900,
	}
}

func TestNewBlobStoreLocalForced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeLocal}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal || store != nil {
		t.Fatalf("expected nil store and mode=local, got %v %s", store, mode)
	}
	if !strings.Contains(buf.String(), "mode=local (forced)") {
		t.Fatalf("expected local mode log, got: %s", buf.String())
	}
}

func TestNewBlobStoreEmptyModeIsLocal(t *testing.T) {
	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{}, nil)
	if err != nil || store != nil || mode != appcfg.BlobModeLocal {
		t.Fatalf("expected local mode, got store=%v mode=%q err=%v", store, mode, err)
	}
}

func TestNewBlobStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeAuto}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal || store != nil {
		t.Fatalf("expected local fallback, got store=%v mode=%s", store, mode)
	}

	logOut := buf.String()
	if !strings.Contains(logOut, "code=s3_not_configured") {
		t.Fatalf("expected s3_not_configured diagnostics, got: %s", logOut)
	}
	if !strings.Contains(logOut, "mode=local (auto, S3 not configured)") {
		t.Fatalf("expected auto fallback to local log, got: %s", logOut)
	}
}

func TestNewBlobStoreAutoConfiguredUsesS3(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   readyS3Config(),
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeS3 {
		t.Fatalf("expected mode=s3, got %s", mode)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Fatalf("expected *S3Store, got %T", store)
	}
	if strings.Contains(buf.String(), "minio-secret") {
		t.Fatal("secret access key leaked into logs")
	}
}

func TestNewBlobStoreS3MissingRequiredReturnsError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3:   appcfg.S3Config{Endpoint: "http://127.0.0.1:9000"},
	}, logger)
	if err == nil {
		t.Fatal("expected error when mode=s3 and required env are missing")
	}
	if store != nil || mode != "" {
		t.Fatalf("expected nil store and empty mode on error, got store=%v mode=%q", store, mode)
	}
	if !strings.Contains(err.Error(), "missing required config") {
		t.Fatalf("expected missing required config error, got: %v", err)
	}
	if !strings.Contains(buf.String(), "code=s3_config_incomplete") {
		t.Fatalf("expected FATAL diagnostics, got: %s", buf.String())
	}
}

func TestNewBlobStoreUnsupportedMode(t *testing.T) {
	if _, _, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: "gcs"}, nil); err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestNewS3StoreIncompleteConfig(t *testing.T) {
	cfg := readyS3Config()
	cfg.Bucket = ""
	if _, err := NewS3Store(context.Background(), cfg); !errors.Is(err, ErrIncompleteConfig) {
		t.Fatalf("expected ErrIncompleteConfig, got %v", err)
	}
}

func TestS3StorePublicURL(t *testing.T) {
	store, err := NewS3Store(context.Background(), readyS3Config())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	url, ok := store.PublicURL("exports/abc.pdf")
	if !ok || url != "https://cdn.example.com/exports/exports/abc.pdf" {
		t.Fatalf("unexpected public URL %q (ok=%t)", url, ok)
	}

	cfg := readyS3Config()
	cfg.PublicBaseURL = ""
	store, err = NewS3Store(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := store.PublicURL("exports/abc.pdf"); ok {
		t.Fatal("expected no public URL without a base URL")
	}
}
