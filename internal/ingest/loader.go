// Package ingest reads a followers export and a following export and normalizes both.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/f-sync/followback/internal/exportparser"
	"github.com/f-sync/followback/internal/relationship"
)

const (
	errMessagePayloadTooLarge = "export file exceeds the size limit"
	errMessageOpenSource      = "open"
	errMessageReadSource      = "read"
	slotErrorFormat           = "%s file %q: %v"
)

// ErrPayloadTooLarge indicates that a source holds more bytes than PairRequest.MaxPayloadBytes.
var ErrPayloadTooLarge = errors.New(errMessagePayloadTooLarge)

// SlotError attributes a failure to the slot and file that caused it.
type SlotError struct {
	Slot Slot
	Name string
	Err  error
}

func (slotError *SlotError) Error() string {
	return fmt.Sprintf(slotErrorFormat, slotError.Slot, slotError.Name, slotError.Err)
}

// Unwrap exposes the underlying read or normalization error.
func (slotError *SlotError) Unwrap() error {
	return slotError.Err
}

// PairRequest describes the two exports to load.
type PairRequest struct {
	Followers Source
	Following Source
	Format    exportparser.FormatKind
	// Diagnostics receives normalization diagnostics from both files concurrently.
	Diagnostics exportparser.DiagnosticSink
	// MaxPayloadBytes bounds each file; zero or negative disables the limit.
	MaxPayloadBytes int64
}

// Pair holds the canonical lists of a successfully loaded request.
type Pair struct {
	Followers exportparser.CanonicalList
	Following exportparser.CanonicalList
}

// LoadPair reads and normalizes both sources concurrently. The pair fails as a whole: when either file
// cannot be read or normalized the first error is returned, wrapped in a *SlotError, and no lists are
// returned.
func LoadPair(ctx context.Context, request PairRequest) (Pair, error) {
	if request.Followers == nil || request.Following == nil {
		return Pair{}, ErrIncompletePair
	}
	normalizer := exportparser.NewNormalizer(exportparser.Config{Diagnostics: request.Diagnostics})

	var pair Pair
	group, groupContext := errgroup.WithContext(ctx)
	group.Go(func() error {
		identifiers, err := loadSlot(groupContext, normalizer, request, SlotFollowers, request.Followers)
		if err != nil {
			return err
		}
		pair.Followers = identifiers
		return nil
	})
	group.Go(func() error {
		identifiers, err := loadSlot(groupContext, normalizer, request, SlotFollowing, request.Following)
		if err != nil {
			return err
		}
		pair.Following = identifiers
		return nil
	})
	if err := group.Wait(); err != nil {
		return Pair{}, err
	}
	return pair, nil
}

// Analyze loads the pair and runs the relationship analysis on it.
func Analyze(ctx context.Context, request PairRequest) (relationship.AnalysisResult, error) {
	pair, err := LoadPair(ctx, request)
	if err != nil {
		return relationship.AnalysisResult{}, err
	}
	return relationship.Analyze(pair.Followers, pair.Following), nil
}

func loadSlot(ctx context.Context, normalizer exportparser.Normalizer, request PairRequest, slot Slot, source Source) (exportparser.CanonicalList, error) {
	wrap := func(err error) error {
		return &SlotError{Slot: slot, Name: source.Name(), Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap(err)
	}
	payload, err := readSource(source, request.MaxPayloadBytes)
	if err != nil {
		return nil, wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap(err)
	}
	identifiers, err := normalizer.Normalize(payload, request.Format)
	if err != nil {
		return nil, wrap(err)
	}
	return identifiers, nil
}

func readSource(source Source, maxPayloadBytes int64) ([]byte, error) {
	reader, err := source.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMessageOpenSource, err)
	}
	defer reader.Close()

	var limited io.Reader = reader
	if maxPayloadBytes > 0 {
		limited = io.LimitReader(reader, maxPayloadBytes+1)
	}
	payload, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMessageReadSource, err)
	}
	if maxPayloadBytes > 0 && int64(len(payload)) > maxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}
	return payload, nil
}
