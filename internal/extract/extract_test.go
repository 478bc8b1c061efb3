package extract

import (
	"context"
	"errors"
	"testing"
)

func TestStatic(t *testing.T) {
	s := Static{Codec: "H.264", AudioChannels: 2, Resolution: "1920x1080"}
	got, err := s.Extract(context.Background(), []byte("frames"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Codec != "H.264" || got.AudioChannels != 2 || got.Resolution != "1920x1080" {
		t.Fatalf("unexpected attributes %+v", got)
	}
	if _, err := s.Extract(context.Background(), nil); !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("empty asset should fail extraction, got %v", err)
	}
	if _, err := (Static{}).Extract(context.Background(), []byte("x")); !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("missing codec should fail extraction, got %v", err)
	}
}

func TestStaticHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Static{Codec: "H.264"}).Extract(ctx, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	f := Func(func(ctx context.Context, data []byte) (Attributes, error) {
		return Attributes{Codec: string(data)}, nil
	})
	got, err := f.Extract(context.Background(), []byte("ProRes"))
	if err != nil || got.Codec != "ProRes" {
		t.Fatalf("got %+v, %v", got, err)
	}
}
