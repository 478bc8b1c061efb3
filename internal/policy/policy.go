// Package policy derives asset metadata policies from project types and checks
// extracted asset attributes against them.
package policy

import (
	"context"
	"fmt"
	"slices"

	"frameline/internal/domain"
	"frameline/internal/extract"
)

var defaultAudioChannels = []int{2, 6}

// Resolve returns the metadata policy for a project type. Every type other
// than FULL_LENGTH_VIDEO, including unknown ones, gets the short-form policy.
func Resolve(t domain.ProjectType) domain.MetadataConfig {
	cfg := domain.MetadataConfig{
		AllowedAudioChannels: append([]int(nil), defaultAudioChannels...),
	}
	if t == domain.ProjectTypeFullLengthVideo {
		cfg.AllowedCodecs = []string{"H.265"}
		cfg.AllowedResolutions = []string{"3840x2160"}
	} else {
		cfg.AllowedCodecs = []string{"H.264"}
		cfg.AllowedResolutions = []string{"3840x2160", "1080x1920"}
	}
	return cfg
}

// Validate checks codec and audio channel count against cfg. A violated rule
// becomes a warning; Validate itself never fails.
func Validate(codec string, audioChannels int, cfg domain.MetadataConfig) domain.MetadataValidationResult {
	warnings := []string{}
	if !slices.Contains(cfg.AllowedCodecs, codec) {
		warnings = append(warnings, fmt.Sprintf("Invalid codec: %s", codec))
	}
	if !slices.Contains(cfg.AllowedAudioChannels, audioChannels) {
		warnings = append(warnings, fmt.Sprintf("Invalid audio channels: %d", audioChannels))
	}
	return domain.MetadataValidationResult{
		Codec:         codec,
		AudioChannels: audioChannels,
		Warnings:      warnings,
	}
}

// ValidateAsset extracts attributes from data and validates them. Extraction
// failures are returned as errors wrapping extract.ErrExtractionFailed.
func ValidateAsset(ctx context.Context, x extract.Extractor, data []byte, cfg domain.MetadataConfig) (extract.Attributes, domain.MetadataValidationResult, error) {
	attrs, err := x.Extract(ctx, data)
	if err != nil {
		return extract.Attributes{}, domain.MetadataValidationResult{}, err
	}
	return attrs, Validate(attrs.Codec, attrs.AudioChannels, cfg), nil
}
