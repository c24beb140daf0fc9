package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func TestGenerateRespectsRanges(t *testing.T) {
	props, err := New(Config{Seed: 7, Now: fixedNow}).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(props) != 50 {
		t.Fatalf("expected 50 listings, got %d", len(props))
	}
	ids := map[string]struct{}{}
	for _, p := range props {
		if _, dup := ids[p.ID]; dup {
			t.Fatalf("duplicate id %s", p.ID)
		}
		ids[p.ID] = struct{}{}

		if p.PricePerDay < 1000 || p.PricePerDay > 10000 || p.PricePerDay != float64(int(p.PricePerDay)) {
			t.Errorf("price out of range: %v", p.PricePerDay)
		}
		lo, hi := 20, 100
		switch p.Type {
		case domain.PropertyHouse, domain.PropertyApartment:
			lo, hi = 4, 8
		case domain.PropertyVilla:
			lo, hi = 8, 15
		}
		if p.Capacity < lo || p.Capacity > hi {
			t.Errorf("%s capacity %d outside [%d,%d]", p.Type, p.Capacity, lo, hi)
		}
		if p.Status != domain.PropertyActive || p.OwnerID != SampleOwnerID || !p.Type.Valid() {
			t.Errorf("unexpected listing %+v", p)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, _ := New(Config{Seed: 99, Count: 5, Now: fixedNow}).Generate(context.Background())
	b, _ := New(Config{Seed: 99, Count: 5, Now: fixedNow}).Generate(context.Background())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical output for identical seeds")
	}
	c, _ := New(Config{Seed: 100, Count: 5, Now: fixedNow}).Generate(context.Background())
	if reflect.DeepEqual(a, c) {
		t.Fatal("expected different output for different seeds")
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Config{Seed: 1}).Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSeedWritesCollections(t *testing.T) {
	dir := t.TempDir()
	repos := repository.Open(repository.Options{DataDir: dir})
	ctx := context.Background()

	props, err := New(Config{Seed: 3, Count: 10, OwnerID: "owner-1", Now: fixedNow}).Seed(ctx, repos)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	stored, err := repos.Properties.List(ctx, repository.PropertyFilter{OwnerID: "owner-1"})
	if err != nil || len(stored) != len(props) {
		t.Fatalf("expected %d stored listings, got %d (err=%v)", len(props), len(stored), err)
	}
	for _, name := range []string{repository.UsersFile, repository.BookingsFile, repository.ReviewsFile, repository.SessionsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	if _, err := New(Config{Seed: 4, Count: 2}).Seed(ctx, repos); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("expected ErrAlreadySeeded, got %v", err)
	}
	if _, err := New(Config{Seed: 4, Count: 2, Force: true}).Seed(ctx, repos); err != nil {
		t.Fatalf("forced seed: %v", err)
	}
	stored, _ = repos.Properties.List(ctx, repository.PropertyFilter{})
	if len(stored) != 2 {
		t.Fatalf("expected forced seed to replace listings, got %d", len(stored))
	}
}

func TestEncode(t *testing.T) {
	props, _ := New(Config{Seed: 5, Count: 2, Now: fixedNow}).Generate(context.Background())
	var buf bytes.Buffer
	if err := Encode(&buf, props); err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[0]["owner_id"] != SampleOwnerID || decoded[0]["status"] != "active" {
		t.Fatalf("unexpected encoding %v", decoded)
	}
}
