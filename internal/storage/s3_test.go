package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func TestErrorCode(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	wrapped := fmt.Errorf("get object: %w", apiErr)

	if got := ErrorCode(wrapped); got != "NoSuchKey" {
		t.Fatalf("expected NoSuchKey, got %q", got)
	}
	if got := ErrorCode(errors.New("connection reset")); got != "" {
		t.Fatalf("expected empty code, got %q", got)
	}
}
