package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"no documents", ErrNoDocumentsFound, ClassNoDocuments},
		{"wrapped no documents", fmt.Errorf("run: %w", ErrNoDocumentsFound), ClassNoDocuments},
		{"deadline", context.DeadlineExceeded, ClassTimeout},
		{"wrapped deadline", fmt.Errorf("ensure index: %w", context.DeadlineExceeded), ClassTimeout},
		{"os deadline", os.ErrDeadlineExceeded, ClassTimeout},
		{"net timeout", &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}}, ClassTimeout},
		{"canceled", context.Canceled, ClassInternal},
		{"plain", errors.New("boom"), ClassInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "internal", ClassInternal.String())
	assert.Equal(t, "no_documents", ClassNoDocuments.String())
	assert.Equal(t, "timeout", ClassTimeout.String())
}
