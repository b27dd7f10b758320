package db

import (
	"context"
	"testing"

	"github.com/akhdar/akhdar-bi/internal/testutil"
)

func TestMetadataRoundTrip(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr, "metadata")
	defer testutil.DropTestDB(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))

	pool := testutil.ConnectTestDB(t, connStr)
	defer pool.Close()
	ctx := context.Background()

	exists, err := MetadataExists(ctx, pool)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if exists {
		t.Fatal("Expected no metadata table in a fresh database")
	}

	if err := SaveMetadata(ctx, pool, map[string]string{"initialized": "true"}); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	exists, err = MetadataExists(ctx, pool)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if !exists {
		t.Fatal("Expected metadata table after save")
	}

	v, err := GetMetadataValue(ctx, pool, "initialized")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if v != "true" {
		t.Errorf("Expected initialized=true, got %q", v)
	}

	if err := SaveBuildMetadata(ctx, pool, "warehouse", "2 unmapped products"); err != nil {
		t.Fatalf("SaveBuildMetadata failed: %v", err)
	}

	all, err := GetAllMetadata(ctx, pool)
	if err != nil {
		t.Fatalf("GetAllMetadata failed: %v", err)
	}
	if all["published_schema"] != "warehouse" {
		t.Errorf("Expected published_schema=warehouse, got %q", all["published_schema"])
	}
	if all["findings"] != "2 unmapped products" {
		t.Errorf("Expected findings recorded, got %q", all["findings"])
	}
	if all["built_at"] == "" {
		t.Error("Expected built_at to be recorded")
	}
	if all["version"] == "" {
		t.Error("Expected builder version to be recorded")
	}

	if err := DropMetadata(ctx, pool); err != nil {
		t.Fatalf("DropMetadata failed: %v", err)
	}
	exists, err = MetadataExists(ctx, pool)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if exists {
		t.Error("Expected metadata table gone after drop")
	}
}
