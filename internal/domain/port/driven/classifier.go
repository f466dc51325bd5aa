package driven

import (
	"context"

	"github.com/legitsystems/askari-relay/internal/domain/model"
)

// Classifier turns free text into an intent plus extracted entities.
// A (nil, nil) return means the classifier produced no usable result; the
// caller must answer with the unrecognized-input response rather than fail
// the request.
type Classifier interface {
	Classify(ctx context.Context, text string) (*model.Classification, error)
}
