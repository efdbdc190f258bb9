// Package events defines the typed message carried on the pipeline's
// event bus: scan, hash, compare and pipeline-level phases, each with a
// small immutable payload. Grounded on the original implementation's
// event enum (src/events/types.rs) and shaped into idiomatic Go as a
// tagged struct with a Kind discriminant instead of an algebraic enum.
package events

import "github.com/HaiderBassem/dupfinder/pkg/api"

// Kind discriminates which event payload is populated.
type Kind int

const (
	ScanStarted Kind = iota
	ScanProgress
	ScanPhotoFound
	ScanError
	ScanCompleted

	HashStarted
	HashProgress
	HashPhotoHashed
	HashCacheHit
	HashError
	HashCompleted

	CompareStarted
	CompareProgress
	CompareDuplicateFound
	CompareCompleted

	PipelineStarted
	PipelinePhaseChanged
	PipelineCompleted
	PipelineCancelled
	PipelineError
)

func (k Kind) String() string {
	switch k {
	case ScanStarted:
		return "scan.started"
	case ScanProgress:
		return "scan.progress"
	case ScanPhotoFound:
		return "scan.photo_found"
	case ScanError:
		return "scan.error"
	case ScanCompleted:
		return "scan.completed"
	case HashStarted:
		return "hash.started"
	case HashProgress:
		return "hash.progress"
	case HashPhotoHashed:
		return "hash.photo_hashed"
	case HashCacheHit:
		return "hash.cache_hit"
	case HashError:
		return "hash.error"
	case HashCompleted:
		return "hash.completed"
	case CompareStarted:
		return "compare.started"
	case CompareProgress:
		return "compare.progress"
	case CompareDuplicateFound:
		return "compare.duplicate_found"
	case CompareCompleted:
		return "compare.completed"
	case PipelineStarted:
		return "pipeline.started"
	case PipelinePhaseChanged:
		return "pipeline.phase_changed"
	case PipelineCompleted:
		return "pipeline.completed"
	case PipelineCancelled:
		return "pipeline.cancelled"
	case PipelineError:
		return "pipeline.error"
	default:
		return "unknown"
	}
}

// Phase is the pipeline orchestrator's current stage.
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseHashing
	PhaseComparing
	PhaseReporting
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseHashing:
		return "hashing"
	case PhaseComparing:
		return "comparing"
	case PhaseReporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// Event is a single tagged message on the bus. Exactly the fields
// relevant to Kind are populated; the rest are zero-valued.
type Event struct {
	Kind Kind

	// Scan payloads
	Roots             []string
	DirectoriesCount  int
	PhotosFound       int
	CurrentPath       string
	TotalPhotos       int

	// Hash payloads
	HashCompletedCount int
	CacheHitCount      int
	ETASeconds         float64

	// Compare payloads
	ComparisonsDone  int
	ComparisonsTotal int
	GroupsFound      int
	GroupID          string
	PhotoCount       int
	TotalDuplicates  int

	// Pipeline payloads
	Phase   Phase
	Summary api.PipelineSummary

	// Shared error payload (scan/hash/pipeline)
	ErrPath    string
	ErrMessage string
}
