package report

import (
	"sort"
	"time"

	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// PhotoInfo is the subset of a PhotoFile's metadata the representative
// selector and explanation builder need. Quality is optional: it is a
// secondary tiebreak signal, never consulted by SelectRepresentative
// itself (see KeepReason) nor by the explanation builder, and the
// pipeline leaves it nil.
type PhotoInfo struct {
	Path     string
	Width    int
	Height   int
	Size     int64
	Format   api.Format
	Created  time.Time
	Modified time.Time
	Quality  *api.ImageQuality
}

// resolution returns width*height, or 0 if either dimension is unknown.
func (p PhotoInfo) resolution() int64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 0
	}
	return int64(p.Width) * int64(p.Height)
}

// ageTimestamp is the timestamp used for the "oldest wins" tiebreak:
// created time when known, falling back to modified time.
func (p PhotoInfo) ageTimestamp() time.Time {
	if !p.Created.IsZero() {
		return p.Created
	}
	return p.Modified
}

// KeepReason names why SelectRepresentative chose a particular photo.
// Grounded on the original's KeepReason enum
// (src/core/reporter/mod.rs), trimmed to the tiebreaks this
// implementation actually evaluates: OriginalFormat and BestMetadata
// from the original are never produced here, since neither format
// provenance nor EXIF completeness is tracked by this repo's PhotoFile
// (the EXIF reader is dropped per SPEC_FULL.md's Non-goals).
type KeepReason int

const (
	KeepHighestResolution KeepReason = iota
	KeepLargestFileSize
	KeepOldestTimestamp
	KeepFirstAlphabetically
)

func (r KeepReason) String() string {
	switch r {
	case KeepHighestResolution:
		return "highest resolution"
	case KeepLargestFileSize:
		return "largest file size (best quality)"
	case KeepOldestTimestamp:
		return "oldest file (likely original)"
	case KeepFirstAlphabetically:
		return "first alphabetically"
	default:
		return "unknown"
	}
}

// SelectRepresentative picks which photo in a duplicate group should be
// kept. Grounded on the original's select_representative
// (src/core/reporter/mod.rs): prefer a photo with a uniquely highest
// resolution; otherwise a photo whose file size beats the runner-up by
// more than 10%; otherwise the photo with the oldest created-or-modified
// timestamp; otherwise the lexicographically first path. Panics on an
// empty slice, mirroring the original, since a representative is only
// ever selected from a non-empty DuplicateGroup.
func SelectRepresentative(photos []PhotoInfo) (string, KeepReason) {
	if len(photos) == 0 {
		panic("report: cannot select a representative from an empty photo list")
	}

	var maxRes int64
	for _, p := range photos {
		if r := p.resolution(); r > maxRes {
			maxRes = r
		}
	}
	if maxRes > 0 {
		var atMax []PhotoInfo
		for _, p := range photos {
			if p.resolution() == maxRes {
				atMax = append(atMax, p)
			}
		}
		if len(atMax) == 1 {
			return atMax[0].Path, KeepHighestResolution
		}
	}

	largest := photos[0]
	for _, p := range photos[1:] {
		if p.Size > largest.Size {
			largest = p
		}
	}
	var secondLargest int64 = -1
	for _, p := range photos {
		if p.Path == largest.Path {
			continue
		}
		if p.Size > secondLargest {
			secondLargest = p.Size
		}
	}
	if secondLargest < 0 || largest.Size > secondLargest*110/100 {
		return largest.Path, KeepLargestFileSize
	}

	oldest := photos[0]
	oldestTime := oldest.ageTimestamp()
	for _, p := range photos[1:] {
		t := p.ageTimestamp()
		if !t.IsZero() && (oldestTime.IsZero() || t.Before(oldestTime)) {
			oldest = p
			oldestTime = t
		}
	}
	if !oldestTime.IsZero() {
		return oldest.Path, KeepOldestTimestamp
	}

	sorted := make([]PhotoInfo, len(photos))
	copy(sorted, photos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return sorted[0].Path, KeepFirstAlphabetically
}
