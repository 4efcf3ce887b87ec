package objstore

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tabular/domain/frame"
	"tabular/domain/series"
	apperrors "tabular/internal/errors"
)

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{AccessKeyID: "k", SecretAccessKey: "s", Bucket: "b"})
	if apperrors.GetCode(err) != apperrors.CodeUnreachable {
		t.Errorf("Expected unreachable code for missing endpoint, got %v", err)
	}

	_, err = New(Config{EndpointURL: "http://localhost:9000", Bucket: "b"})
	if apperrors.GetCode(err) != apperrors.CodeAuthInvalid {
		t.Errorf("Expected auth code for missing credentials, got %v", err)
	}

	_, err = New(Config{EndpointURL: "http://localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"})
	if apperrors.GetCode(err) != apperrors.CodeBucketNotFound {
		t.Errorf("Expected bucket code for missing bucket, got %v", err)
	}

	s, err := New(Config{
		EndpointURL:     "http://localhost:9000",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Bucket:          "frames",
	})
	if err != nil || s == nil {
		t.Fatalf("Valid config should build a store, got %v", err)
	}
}

func TestCSVCodecRoundTrip(t *testing.T) {
	temp, err := series.FromValues("temp", []any{1.5, nil})
	if err != nil {
		t.Fatalf("Fixture error: %v", err)
	}
	f, err := frame.New(series.Strings("city", "oslo", "lima"), temp)
	if err != nil {
		t.Fatalf("Fixture error: %v", err)
	}

	var buf bytes.Buffer
	if err := encodeCSV(f, &buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := decodeCSV(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.NRows() != 2 {
		t.Fatalf("Expected 2 rows, got %d", got.NRows())
	}
	col, _ := got.Column("temp")
	if col.Kind() != series.Float || !col.IsNA(1) {
		t.Errorf("Expected float column with trailing NA, got %s", col.Kind())
	}
}

func TestDecodeCSVEmpty(t *testing.T) {
	if _, err := decodeCSV(context.Background(), nil); err == nil {
		t.Error("Empty artifact should fail")
	}
}

func TestClassifyErrorFallbacks(t *testing.T) {
	err := classifyError(errors.New("dial tcp: connection refused"))
	if apperrors.GetCode(err) != apperrors.CodeUnreachable {
		t.Errorf("Expected unreachable code, got %s", apperrors.GetCode(err))
	}

	err = classifyError(errors.New("the object does not exist"))
	if apperrors.GetCode(err) != apperrors.CodeObjectNotFound {
		t.Errorf("Expected object-not-found code, got %s", apperrors.GetCode(err))
	}

	err = classifyError(errors.New("disk quota exceeded"))
	if apperrors.GetCode(err) != apperrors.CodeIOError {
		t.Errorf("Expected io code, got %s", apperrors.GetCode(err))
	}
}
