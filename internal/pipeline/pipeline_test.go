package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/story"
	"github.com/lumabyte/storypipe/internal/types"
)

type stubAI struct {
	text string
	err  error
}

func (s *stubAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubBucket struct {
	name    string
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newStubBucket(name string) *stubBucket {
	return &stubBucket{name: name, objects: map[string][]byte{}}
}

func (s *stubBucket) UploadObject(ctx context.Context, key string, r io.Reader, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *stubBucket) DownloadObject(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	b, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *stubBucket) PublicURL(key string) string {
	return "https://storage.googleapis.com/" + s.name + "/" + key
}

func (s *stubBucket) BucketName() string {
	return s.name
}

type stubLedger struct {
	rows        []*types.StoryRecord
	ensureCalls int
	ensureErr   error
	createErr   error
}

func (s *stubLedger) EnsureSchema(ctx context.Context) error {
	s.ensureCalls++
	return s.ensureErr
}

func (s *stubLedger) Create(ctx context.Context, rec *types.StoryRecord) (*types.StoryRecord, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	rec.ID = uint(len(s.rows) + 1)
	s.rows = append(s.rows, rec)
	return rec, nil
}

func (s *stubLedger) ListRecent(ctx context.Context, limit int) ([]*types.StoryRecord, error) {
	return s.rows, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func failureCode(t *testing.T, err error) FailureCode {
	t.Helper()
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StageError, got %T: %v", err, err)
	}
	return se.Code
}

func TestPipelineEndToEnd(t *testing.T) {
	log := testLogger(t)
	text := "Title Line\nOnce upon a time..."
	bucket := newStubBucket("stories")
	ledger := &stubLedger{}

	gen := NewGenerator(log, &stubAI{text: text}, bucket, story.DefaultPromptSet(), "bedtime-stories/")
	rec := NewRecorder(log, bucket, ledger)

	handle, err := gen.GenerateAndUpload(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("stage 1: %v", err)
	}
	if handle.Bucket != "stories" {
		t.Fatalf("handle bucket: %q", handle.Bucket)
	}
	if !strings.HasPrefix(handle.ObjectKey, "bedtime-stories/story-") || !strings.HasSuffix(handle.ObjectKey, ".txt") {
		t.Fatalf("handle key: %q", handle.ObjectKey)
	}
	if got := string(bucket.objects[handle.ObjectKey]); got != text {
		t.Fatalf("stored object: want=%q got=%q", text, got)
	}

	if _, err := rec.ExtractAndRecord(context.Background(), handle); err != nil {
		t.Fatalf("stage 2: %v", err)
	}
	if len(ledger.rows) != 1 {
		t.Fatalf("rows: want=1 got=%d", len(ledger.rows))
	}
	row := ledger.rows[0]
	if row.Title != "Title Line" {
		t.Fatalf("title: %q", row.Title)
	}
	if want := len(strings.Fields(text)); row.LengthWords != want {
		t.Fatalf("words: want=%d got=%d", want, row.LengthWords)
	}
	if row.LengthChars != len(text) {
		t.Fatalf("chars: want=%d got=%d", len(text), row.LengthChars)
	}
	if row.ObjectURL != handle.URL {
		t.Fatalf("object_url: want=%q got=%q", handle.URL, row.ObjectURL)
	}
	if row.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
	if ledger.ensureCalls != 1 {
		t.Fatalf("ensure calls: want=1 got=%d", ledger.ensureCalls)
	}
}

func TestGenerationFailure(t *testing.T) {
	log := testLogger(t)
	bucket := newStubBucket("stories")
	gen := NewGenerator(log, &stubAI{err: errors.New("rate limited")}, bucket, story.DefaultPromptSet(), "")

	_, err := gen.GenerateAndUpload(context.Background(), "run-1")
	if code := failureCode(t, err); code != FailureGeneration {
		t.Fatalf("code: want=%s got=%s", FailureGeneration, code)
	}
	if len(bucket.objects) != 0 {
		t.Fatal("no object should be written when generation fails")
	}
}

func TestUploadFailureReturnsNoHandle(t *testing.T) {
	log := testLogger(t)
	bucket := newStubBucket("stories")
	bucket.putErr = errors.New("bucket unavailable")
	gen := NewGenerator(log, &stubAI{text: "some story"}, bucket, story.DefaultPromptSet(), "")

	handle, err := gen.GenerateAndUpload(context.Background(), "run-1")
	if code := failureCode(t, err); code != FailureUpload {
		t.Fatalf("code: want=%s got=%s", FailureUpload, code)
	}
	if handle != (types.ObjectHandle{}) {
		t.Fatalf("handle must be empty on upload failure: %+v", handle)
	}
}

func TestRetrievalFailureInsertsNothing(t *testing.T) {
	log := testLogger(t)
	bucket := newStubBucket("stories")
	bucket.getErr = errors.New("object missing")
	ledger := &stubLedger{}
	rec := NewRecorder(log, bucket, ledger)

	handle := types.ObjectHandle{Bucket: "stories", ObjectKey: "k.txt", URL: "https://x/k.txt"}
	_, err := rec.ExtractAndRecord(context.Background(), handle)
	if code := failureCode(t, err); code != FailureRetrieval {
		t.Fatalf("code: want=%s got=%s", FailureRetrieval, code)
	}
	if len(ledger.rows) != 0 {
		t.Fatal("no row may be inserted when fetch fails")
	}
	if ledger.ensureCalls != 0 {
		t.Fatal("schema must not be touched when fetch fails")
	}
}

func TestEmptyHandleRejected(t *testing.T) {
	log := testLogger(t)
	rec := NewRecorder(log, newStubBucket("stories"), &stubLedger{})

	_, err := rec.ExtractAndRecord(context.Background(), types.ObjectHandle{})
	if code := failureCode(t, err); code != FailureRetrieval {
		t.Fatalf("code: want=%s got=%s", FailureRetrieval, code)
	}
}

func TestSchemaFailure(t *testing.T) {
	log := testLogger(t)
	bucket := newStubBucket("stories")
	bucket.objects["k.txt"] = []byte("story text")
	ledger := &stubLedger{ensureErr: errors.New("permission denied")}
	rec := NewRecorder(log, bucket, ledger)

	_, err := rec.ExtractAndRecord(context.Background(), types.ObjectHandle{Bucket: "stories", ObjectKey: "k.txt"})
	if code := failureCode(t, err); code != FailureSchema {
		t.Fatalf("code: want=%s got=%s", FailureSchema, code)
	}
	if len(ledger.rows) != 0 {
		t.Fatal("no row may be inserted when schema ensure fails")
	}
}

func TestPersistenceFailure(t *testing.T) {
	log := testLogger(t)
	bucket := newStubBucket("stories")
	bucket.objects["k.txt"] = []byte("story text")
	ledger := &stubLedger{createErr: errors.New("connection reset")}
	rec := NewRecorder(log, bucket, ledger)

	_, err := rec.ExtractAndRecord(context.Background(), types.ObjectHandle{Bucket: "stories", ObjectKey: "k.txt"})
	if code := failureCode(t, err); code != FailurePersistence {
		t.Fatalf("code: want=%s got=%s", FailurePersistence, code)
	}
	if len(ledger.rows) != 0 {
		t.Fatal("ledger must stay empty when insert fails")
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := stageFailure(FailureUpload, cause)
	if !errors.Is(err, cause) {
		t.Fatal("StageError must unwrap to its cause")
	}
}
