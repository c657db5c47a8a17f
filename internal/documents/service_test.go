package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

type fakeStore struct {
	objects map[string][]byte
	mime    string
}

func newFakeStore(mime string) *fakeStore {
	return &fakeStore{objects: make(map[string][]byte), mime: mime}
}

func (s *fakeStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := fmt.Sprintf("%s/%s", userID, fileName)
	s.objects[key] = data
	return key, int64(len(data)), s.mime, nil
}

func (s *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestUploadPlainText(t *testing.T) {
	store := newFakeStore("text/plain")
	svc := NewService(store, NewMemoryRepo())

	content := "Submit the enrollment form by Friday."
	doc, err := svc.Upload(context.Background(), "guest:abc", "memo.txt", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected generated document id")
	}
	if doc.ExtractedText != content {
		t.Fatalf("extracted text = %q, want %q", doc.ExtractedText, content)
	}
	if doc.SizeBytes != int64(len(content)) {
		t.Fatalf("size = %d, want %d", doc.SizeBytes, len(content))
	}

	got, err := svc.GetByID(context.Background(), "guest:abc", doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Filename != "memo.txt" {
		t.Fatalf("filename = %q", got.Filename)
	}
}

func TestUploadUnsupportedFormat(t *testing.T) {
	store := newFakeStore("image/gif")
	svc := NewService(store, NewMemoryRepo())

	_, err := svc.Upload(context.Background(), "guest:abc", "pic.gif", strings.NewReader("GIF89a"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestUploadEmptyDocument(t *testing.T) {
	store := newFakeStore("text/plain")
	svc := NewService(store, NewMemoryRepo())

	_, err := svc.Upload(context.Background(), "guest:abc", "blank.txt", strings.NewReader("   \n\t "))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestGetByIDOwnership(t *testing.T) {
	store := newFakeStore("text/plain")
	svc := NewService(store, NewMemoryRepo())

	doc, err := svc.Upload(context.Background(), "guest:owner", "memo.txt", strings.NewReader("Pay the fee today."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "guest:other", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for foreign user", err)
	}
}
