package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/internal/hash"
	"github.com/HaiderBassem/dupfinder/internal/imaging"
	"github.com/HaiderBassem/dupfinder/internal/progress"
	"github.com/HaiderBassem/dupfinder/internal/similarity"
	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// hashOutcome is one worker's result for one photo: either a Fusion
// hash (fresh or served from cache) or a hash error.
type hashOutcome struct {
	path     string
	size     int64
	modified time.Time
	width    int
	height   int
	fusion   hash.Fusion
	cacheHit bool
	err      *api.HashError
}

// hashAll runs the hashing phase (C3+C4+C5, with C6 cache and C11
// events, honouring ctx cancellation) across photos using a fixed worker pool, the only
// parallel phase per the spec's concurrency model. Fresh hashes are
// flushed to the cache in api.CacheChunkSize batches; a failed batch
// logs a Hash.Error event without failing the run. Returns the hashed
// photos, the cache-hit count, and whether ctx was cancelled before the
// phase finished.
func (p *Pipeline) hashAll(ctx context.Context, photos []api.PhotoFile, result *api.PipelineResult) ([]similarity.Hashed, int, bool) {
	p.bus.Send(events.Event{Kind: events.HashStarted, TotalPhotos: len(photos)})

	pathIndex := make(map[string]int, len(photos))
	for i, photo := range photos {
		pathIndex[photo.Path] = i
	}

	jobs := make(chan api.PhotoFile)
	outcomes := make(chan hashOutcome, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for photo := range jobs {
				outcomes <- p.hashOne(photo)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, photo := range photos {
			select {
			case <-ctx.Done():
				return
			case jobs <- photo:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var hashed []similarity.Hashed
	var pending []api.CacheEntry
	cacheHits := 0
	completed := 0
	wasCancelled := false
	throttle := events.NewThrottle(len(photos))
	tracker := progress.NewTracker(len(photos))

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := p.cache.SetBatch(pending); err != nil {
			p.bus.Send(events.Event{Kind: events.HashError, ErrMessage: err.Error()})
		}
		pending = pending[:0]
	}

	for outcome := range outcomes {
		completed++

		if outcome.err != nil {
			result.Errors = append(result.Errors, outcome.err.Error())
			p.bus.Send(events.Event{Kind: events.HashError, ErrPath: outcome.path, ErrMessage: outcome.err.Error()})
		} else {
			hashed = append(hashed, similarity.Hashed{Path: outcome.path, Fusion: outcome.fusion})
			if outcome.width > 0 && outcome.height > 0 {
				if idx, ok := pathIndex[outcome.path]; ok {
					photos[idx].Width = outcome.width
					photos[idx].Height = outcome.height
				}
			}
			if outcome.cacheHit {
				cacheHits++
				p.bus.Send(events.Event{Kind: events.HashCacheHit, CurrentPath: outcome.path})
			} else {
				pending = append(pending, cacheEntryFor(outcome))
				if len(pending) >= api.CacheChunkSize {
					flush()
				}
			}
		}

		tracker.Update(completed)
		if throttle.ShouldEmit(completed) {
			p.bus.Send(events.Event{
				Kind:               events.HashProgress,
				HashCompletedCount: completed,
				CacheHitCount:      cacheHits,
				ETASeconds:         tracker.ETA().Seconds(),
			})
		}

		if !wasCancelled && cancelled(ctx) {
			wasCancelled = true
		}
	}

	flush()
	p.bus.Send(events.Event{Kind: events.HashCompleted, HashCompletedCount: completed, CacheHitCount: cacheHits})
	return hashed, cacheHits, wasCancelled
}

// hashOne hashes a single photo, consulting the cache first.
func (p *Pipeline) hashOne(photo api.PhotoFile) hashOutcome {
	base := hashOutcome{path: photo.Path, size: photo.Size, modified: photo.Modified}

	if entry, err := p.cache.Get(photo.Path, photo.Size, photo.Modified); err == nil && entry != nil {
		if fusion, ok := hash.FusionFromBytes(entry.Hash); ok {
			base.fusion = fusion
			base.cacheHit = true
			return base
		}
	}

	img, err := imaging.Decode(photo.Path, photo.Format)
	if err != nil {
		base.err = asHashError(photo.Path, api.HashDecodeError, err)
		return base
	}

	bounds := img.Bounds()
	base.width, base.height = bounds.Dx(), bounds.Dy()

	frame, err := imaging.Resize(imaging.ToLuma(img), api.HashWorkingSize, api.HashWorkingSize)
	if err != nil {
		base.err = asHashError(photo.Path, api.HashDecodeError, err)
		return base
	}

	fusion, err := hash.ComputeFusion(frame, api.DefaultHashSize)
	if err != nil {
		base.err = asHashError(photo.Path, api.HashComputationFailed, err)
		return base
	}

	base.fusion = fusion
	return base
}

func asHashError(path string, fallbackKind api.HashErrorKind, err error) *api.HashError {
	if hashErr, ok := err.(*api.HashError); ok {
		return hashErr
	}
	return &api.HashError{Kind: fallbackKind, Path: path, Reason: err.Error()}
}

func cacheEntryFor(outcome hashOutcome) api.CacheEntry {
	return api.CacheEntry{
		Path:         outcome.path,
		Hash:         outcome.fusion.ToBytes(),
		Algorithm:    api.AlgorithmFusion,
		FileSize:     outcome.size,
		FileModified: outcome.modified,
		CachedAt:     time.Now(),
	}
}
