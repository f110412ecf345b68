package oracle

import (
	"MeatSafe-Backend/domain"
	"context"
)

// VerdictOracle is the external classifier. It is opaque: given an image it
// always answers with some verdict (its failure sentinel is meat type unknown,
// level 5, safety unknown), so an error from either call means the transport
// or the response shape failed, never the meat.
type VerdictOracle interface {
	Classify(ctx context.Context, image []byte, mimeType string, pro bool) (domain.Verdict, error)
	Refine(ctx context.Context, prior domain.Verdict, reading domain.SensoryReading, pro bool) (domain.Verdict, error)
}
