package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"buildit/internal/database"
	"buildit/internal/resume"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func sampleResume() *resume.Document {
	d := resume.New()
	d.Name = "Grace Hopper"
	d.ContactInfo = "grace@example.com | https://example.com"

	exp := resume.NewSection(resume.SectionExperience)
	exp.Title = "Experience"
	exp.Experience[0].Position = "Rear Admiral"
	exp.Experience[0].Company = "US Navy"
	exp.Experience[0].StartYear = "1943"
	exp.Experience[0].EndType = resume.EndSpecific
	exp.Experience[0].EndYear = "1986"
	exp.Experience[0].BulletPoints = []string{"COBOL"}

	d.Sections = append(d.Sections, exp)
	d.Normalize()
	return &d
}

// 保存后读取应与原文档一致（除 email 与 last_updated 外）。
func assertRoundTrip(t *testing.T, s Store, stamp time.Time) {
	t.Helper()
	ctx := context.Background()

	in := sampleResume()
	want := in.Clone()

	if err := s.Save(ctx, " Grace@Example.com ", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if in.Email != "grace@example.com" || in.LastUpdated == nil || !in.LastUpdated.Equal(stamp) {
		t.Fatalf("save should stamp email and last_updated, got %q %v", in.Email, in.LastUpdated)
	}

	got, err := s.Get(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "grace@example.com" {
		t.Fatalf("email = %q", got.Email)
	}
	if got.LastUpdated == nil || !got.LastUpdated.Equal(stamp) {
		t.Fatalf("last_updated = %v, want %v", got.LastUpdated, stamp)
	}

	got.Email, got.LastUpdated = "", nil
	if !reflect.DeepEqual(*got, want) {
		a, _ := json.Marshal(got)
		b, _ := json.Marshal(want)
		t.Fatalf("round trip mismatch:\n got=%s\nwant=%s", a, b)
	}
}

func TestGormStoreRoundTrip(t *testing.T) {
	stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s := NewGormStore(newTestDB(t))
	s.now = fixedClock(stamp)

	assertRoundTrip(t, s, stamp)
}

func TestGormStoreNotFound(t *testing.T) {
	s := NewGormStore(newTestDB(t))

	_, err := s.Get(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStoreRequiresEmail(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	d := resume.New()

	if err := s.Save(context.Background(), "  ", &d); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := s.Get(context.Background(), ""); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestGormStoreOverwritesOnSave(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	ctx := context.Background()

	first := resume.New()
	first.Name = "First"
	if err := s.Save(ctx, "a@example.com", &first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	later := time.Now().Add(time.Hour).UTC()
	s.now = fixedClock(later)
	second := resume.New()
	second.Name = "Second"
	if err := s.Save(ctx, "A@example.com", &second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := s.Get(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Second" {
		t.Fatalf("name = %q, want Second", got.Name)
	}
	if !got.LastUpdated.Equal(later) {
		t.Fatalf("last_updated not refreshed: %v", got.LastUpdated)
	}

	var count int64
	db.Model(&database.ResumeRecord{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single record per email, got %d", count)
	}
}

func TestGormStoreConcurrentSavesLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	// sqlite 共享内存库不支持并发写，串行化连接
	sqlDB.SetMaxOpenConns(1)
	s := NewGormStore(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := resume.New()
			d.Name = fmt.Sprintf("writer-%d", i)
			errs <- s.Save(ctx, "race@example.com", &d)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent save: %v", err)
		}
	}
	got, err := s.Get(ctx, "race@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name == "" {
		t.Fatal("expected one of the writers to win")
	}
}

func TestBSONConversionRoundTrip(t *testing.T) {
	in := sampleResume()
	ts := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	in.LastUpdated = &ts
	in.Email = "grace@example.com"

	body, err := toBSON(in)
	if err != nil {
		t.Fatalf("toBSON: %v", err)
	}
	if _, ok := body["last_updated"].(time.Time); !ok {
		t.Fatalf("last_updated should be stored as a date, got %T", body["last_updated"])
	}
	body["_id"] = "internal"

	out, err := fromBSON(body)
	if err != nil {
		t.Fatalf("fromBSON: %v", err)
	}
	out.Normalize()
	if !reflect.DeepEqual(*out, *in) {
		a, _ := json.Marshal(out)
		b, _ := json.Marshal(in)
		t.Fatalf("bson round trip mismatch:\n got=%s\nwant=%s", a, b)
	}
}

func TestMongoStoreRoundTrip(t *testing.T) {
	uri := os.Getenv("BUILDIT_MONGO_TEST_URI")
	if uri == "" {
		t.Skip("set BUILDIT_MONGO_TEST_URI to run mongo store tests")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(fmt.Sprintf("buildit_test_%d", time.Now().UnixNano()))
	defer func() { _ = db.Drop(ctx) }()

	stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s := NewMongoStore(db)
	s.now = fixedClock(stamp)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	assertRoundTrip(t, s, stamp)

	if _, err := s.Get(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
