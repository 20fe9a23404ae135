package workspace

import (
	"path/filepath"

	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Dir is one directory the run depends on.
type Dir struct {
	Path string
	// AlwaysOwn re-asserts ownership on every run; otherwise ownership is
	// only set when the directory is created.
	AlwaysOwn bool
}

// Dirs lists the workspace directories for b: home and data root are
// always owned by the target user, the parents of the two checkouts only
// when this run creates them. Duplicates are folded together.
func Dirs(b hostconfig.Bundle) []Dir {
	candidates := []Dir{
		{Path: b.HomeDir, AlwaysOwn: true},
		{Path: b.DataRoot, AlwaysOwn: true},
		{Path: filepath.Dir(b.RepoLocalPath)},
		{Path: filepath.Dir(b.BridgeProjectDir)},
	}

	dirs := make([]Dir, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	for _, c := range candidates {
		c.Path = filepath.Clean(c.Path)
		if c.Path == "/" {
			continue
		}
		if i, ok := index[c.Path]; ok {
			dirs[i].AlwaysOwn = dirs[i].AlwaysOwn || c.AlwaysOwn
			continue
		}
		index[c.Path] = len(dirs)
		dirs = append(dirs, c)
	}
	return dirs
}

// Steps returns one DirStep per workspace directory of b.
func Steps(b hostconfig.Bundle, owner ports.Account, fs ports.FileSystem) []step.Step {
	dirs := Dirs(b)
	steps := make([]step.Step, 0, len(dirs))
	for _, d := range dirs {
		steps = append(steps, NewDirStep(d, owner, fs))
	}
	return steps
}
