package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"farmcore/internal/infra/blob"
)

func TestMockPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if store.Driver() != blob.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	put, err := store.Put(ctx, "snapshots/farm.json", strings.NewReader(`{"crops":[]}`), blob.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if put.Key != "snapshots/farm.json" || put.Size != int64(len(`{"crops":[]}`)) {
		t.Fatalf("unexpected put info: %+v", put)
	}
	info, rc, err := store.Get(ctx, "snapshots/farm.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != `{"crops":[]}` {
		t.Fatalf("unexpected body %q", body)
	}
	if info.ContentType != "application/json" {
		t.Fatalf("content type lost: %+v", info)
	}
}

func TestMockPutRefusesExistingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, err := store.Put(ctx, "k.json", strings.NewReader("one"), blob.PutOptions{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(ctx, "k.json", strings.NewReader("two"), blob.PutOptions{}); err == nil {
		t.Fatal("expected error on existing key")
	}
}

func TestMockListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	for _, key := range []string{"snapshots/b.json", "snapshots/a.json", "other/c.json"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), blob.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "snapshots/a.json" || infos[1].Key != "snapshots/b.json" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestMockDeleteThenGetFails(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, err := store.Put(ctx, "k.json", strings.NewReader("x"), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Delete(ctx, "k.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Get(ctx, "k.json"); err == nil {
		t.Fatal("expected get to fail after delete")
	}
}
