package scanner

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/pkg/api"
)

// Result is the output of a Walk: every accepted PhotoFile plus any
// per-entry errors collected along the way (C2).
type Result struct {
	Photos []api.PhotoFile
	Errors []*api.ScanError
}

// Walker walks one or more root directories and emits PhotoFile
// records for every accepted entry, honouring ScanConfig's
// follow-symlinks, hidden-file and max-depth policy. Grounded on the
// teacher's internal/scanner/scanner.go walk loop, rewritten as a
// depth-aware recursion over os.ReadDir instead of the teacher's
// worker-pool directory dispatch, since the spec requires strict per-entry
// filtering and depth limiting that the teacher's scanner didn't do.
type Walker struct {
	config api.ScanConfig
	filter *Filter
	bus    *events.Bus
}

// NewWalker builds a Walker for the given scan configuration, emitting
// progress onto bus (use events.NullBus() for silent operation).
func NewWalker(cfg api.ScanConfig, bus *events.Bus) *Walker {
	return &Walker{config: cfg, filter: NewFilter(cfg), bus: bus}
}

// Walk scans every root and returns the aggregate result. It respects
// ctx cancellation, checked at the top of each directory iteration.
func (w *Walker) Walk(ctx context.Context, roots []string) Result {
	var result Result
	throttle := events.NewThrottle(1)
	directoriesScanned := 0

	w.bus.Send(events.Event{Kind: events.ScanStarted, Roots: roots})

	for _, root := range roots {
		if err := w.walkRoot(ctx, root, &result, &directoriesScanned, throttle); err != nil {
			if err == context.Canceled {
				break
			}
		}
	}

	w.bus.Send(events.Event{Kind: events.ScanCompleted, TotalPhotos: len(result.Photos)})
	return result
}

func (w *Walker) walkRoot(ctx context.Context, root string, result *Result, directoriesScanned *int, throttle *events.Throttle) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			result.Errors = append(result.Errors, &api.ScanError{Kind: api.ScanDirectoryNotFound, Path: root})
		} else if os.IsPermission(err) {
			result.Errors = append(result.Errors, &api.ScanError{Kind: api.ScanPermissionDenied, Path: root})
		} else {
			result.Errors = append(result.Errors, &api.ScanError{Kind: api.ScanReadDirectory, Path: root, Cause: err})
		}
		return nil
	}
	if !info.IsDir() {
		if w.filter.AcceptsFile(filepath.Base(root)) {
			w.considerFile(root, info, result)
		}
		return nil
	}

	return w.walkDir(ctx, root, root, 0, result, directoriesScanned, throttle)
}

func (w *Walker) walkDir(ctx context.Context, root, dir string, depth int, result *Result, directoriesScanned *int, throttle *events.Throttle) error {
	select {
	case <-ctx.Done():
		return context.Canceled
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			result.Errors = append(result.Errors, &api.ScanError{Kind: api.ScanPermissionDenied, Path: dir})
		} else {
			result.Errors = append(result.Errors, &api.ScanError{Kind: api.ScanReadDirectory, Path: dir, Cause: err})
		}
		return nil
	}
	*directoriesScanned++

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		full := filepath.Join(dir, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			if !w.config.FollowSymlinks {
				continue
			}
			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if w.withinDepth(depth+1) && w.filter.AcceptsDir(entry.Name()) {
					if err := w.walkDir(ctx, root, full, depth+1, result, directoriesScanned, throttle); err != nil {
						return err
					}
				}
				continue
			}
			if !w.filter.AcceptsFile(entry.Name()) {
				continue
			}
			w.considerFile(full, info, result)
			continue
		}

		if entry.IsDir() {
			if !w.withinDepth(depth+1) || !w.filter.AcceptsDir(entry.Name()) {
				continue
			}
			if err := w.walkDir(ctx, root, full, depth+1, result, directoriesScanned, throttle); err != nil {
				return err
			}
			continue
		}

		if !w.filter.AcceptsFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		w.considerFile(full, info, result)

		if throttle.ShouldEmit(len(result.Photos)) {
			w.bus.Send(events.Event{
				Kind:             events.ScanProgress,
				DirectoriesCount: *directoriesScanned,
				PhotosFound:      len(result.Photos),
				CurrentPath:      full,
			})
		}
	}
	return nil
}

func (w *Walker) withinDepth(depth int) bool {
	return w.config.MaxDepth <= 0 || depth <= w.config.MaxDepth
}

func (w *Walker) considerFile(path string, info os.FileInfo, result *Result) {
	photo := api.PhotoFile{
		Path:     path,
		Size:     info.Size(),
		Modified: info.ModTime(),
		Created:  creationTime(path),
		Format:   api.FormatFromExtension(filepath.Ext(path)),
	}
	result.Photos = append(result.Photos, photo)
	w.bus.Send(events.Event{Kind: events.ScanPhotoFound, CurrentPath: path})
}

// creationTime best-effort resolves a file's creation time. The Go
// standard library only exposes mtime portably; Linux has no true birth
// time without statx, so this uses ctime (inode change time) as the
// closest available proxy, consistent with internal/imaging's existing
// use of golang.org/x/sys/unix. Returns the zero Time on any stat
// failure; callers already fall back to Modified in that case (see
// report.PhotoInfo.ageTimestamp).
func creationTime(path string) time.Time {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return time.Time{}
	}
	return time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec))
}
