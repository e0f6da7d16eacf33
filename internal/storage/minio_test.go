package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestUploadImageRejectsUnsupportedType(t *testing.T) {
	store := &MinIOStore{maxBytes: 1 << 20, log: zerolog.Nop()}

	_, err := store.UploadImage(context.Background(), "classes", "application/pdf", 100, strings.NewReader("x"))
	if !errors.Is(err, ErrUnsupportedImageType) {
		t.Fatalf("expected ErrUnsupportedImageType, got %v", err)
	}
}

func TestUploadImageRejectsOversizedFile(t *testing.T) {
	store := &MinIOStore{maxBytes: 10, log: zerolog.Nop()}

	_, err := store.UploadImage(context.Background(), "classes", "image/png", 11, strings.NewReader("x"))
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}
