// Package extract defines the asset metadata extraction boundary.
//
// Real codec and channel sniffing lives outside frameline. Implementations
// only have to report what they found or fail with ErrExtractionFailed.
package extract

import (
	"context"
	"errors"
	"fmt"
)

var ErrExtractionFailed = errors.New("extraction failed")

// Attributes are the media properties an extractor reports for one asset.
type Attributes struct {
	Codec         string
	AudioChannels int
	Resolution    string
}

type Extractor interface {
	Extract(ctx context.Context, data []byte) (Attributes, error)
}

// Static reports fixed attributes for every non-empty asset. It is the
// configured extractor when no real probe is wired in.
type Static struct {
	Codec         string
	AudioChannels int
	Resolution    string
}

func (s Static) Extract(ctx context.Context, data []byte) (Attributes, error) {
	if err := ctx.Err(); err != nil {
		return Attributes{}, err
	}
	if len(data) == 0 {
		return Attributes{}, fmt.Errorf("%w: empty asset", ErrExtractionFailed)
	}
	if s.Codec == "" {
		return Attributes{}, fmt.Errorf("%w: no codec detected", ErrExtractionFailed)
	}
	return Attributes{
		Codec:         s.Codec,
		AudioChannels: s.AudioChannels,
		Resolution:    s.Resolution,
	}, nil
}

// Func adapts a plain function to Extractor.
type Func func(ctx context.Context, data []byte) (Attributes, error)

func (f Func) Extract(ctx context.Context, data []byte) (Attributes, error) {
	return f(ctx, data)
}
