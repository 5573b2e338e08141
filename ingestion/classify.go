package ingestion

import (
	"context"
	"errors"
	"net"
	"os"
)

// Class is the caller-facing category of a failed run.
type Class int

const (
	// ClassInternal covers every failure without a more specific class.
	ClassInternal Class = iota
	// ClassNoDocuments means the corpus was empty.
	ClassNoDocuments
	// ClassTimeout means a collaborator connection timed out.
	ClassTimeout
)

func (c Class) String() string {
	switch c {
	case ClassNoDocuments:
		return "no_documents"
	case ClassTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Classify maps a run error to its Class.
func Classify(err error) Class {
	if errors.Is(err, ErrNoDocumentsFound) {
		return ClassNoDocuments
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}
	return ClassInternal
}
