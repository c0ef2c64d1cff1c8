package frames

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/ciallothu/bcm2711-deskpet-panel/internal/log"
)

// framePattern matches video_<digits>.<ext> with a case-insensitive
// extension (jpg, jpeg, png).
var framePattern = regexp.MustCompile(`(?i)^video_([0-9]+)\.(jpe?g|png)$`)

// Scan walks root recursively and groups matching frame files by the
// relative path of their parent directory. Frames directly under root go
// under RootKey. Directories with no valid frames are omitted.
//
// Scan never caches: every call re-reads the filesystem and returns a
// fresh Catalog. Callers decide when to re-scan; sequences already handed
// out are immutable snapshots and unaffected.
func Scan(root string) (Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	var (
		mu     sync.Mutex
		groups = make(map[string][]Frame)
	)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries below the root do not abort the scan.
			log.Warn("frame scan: skipping entry", "path", path, "err", err)
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		m := framePattern.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}

		idx, perr := strconv.ParseUint(m[1], 10, 64)
		if perr != nil {
			log.Warn("frame scan: unparseable frame index", "path", path, "err", perr)
			return nil
		}

		rel, rerr := filepath.Rel(root, filepath.Dir(path))
		if rerr != nil {
			log.Warn("frame scan: skipping entry", "path", path, "err", rerr)
			return nil
		}
		key := rel
		if key == "." {
			key = RootKey
		}

		mu.Lock()
		groups[key] = append(groups[key], Frame{Path: path, Index: idx})
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walk %s: %v", ErrInvalidRoot, root, walkErr)
	}

	catalog := make(Catalog, len(groups))
	for key, fr := range groups {
		sort.Slice(fr, func(i, j int) bool {
			if fr[i].Index != fr[j].Index {
				return fr[i].Index < fr[j].Index
			}
			return fr[i].Path < fr[j].Path
		})
		catalog[key] = Sequence{Key: key, Frames: fr}
	}

	log.Debug("frame scan complete", "root", root, "sequences", len(catalog))
	return catalog, nil
}
