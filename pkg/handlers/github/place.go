package github

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// placement is the set of files and links an install puts in place
type placement struct {
	files []placedFile
	links []placedLink
	tree  *placedTree
}

type placedFile struct {
	source string
	target string
	mode   os.FileMode
}

type placedLink struct {
	// target is the path of the link, source what it points to
	target string
	source string
}

func (p *placement) addFile(source, target string, mode os.FileMode) {
	p.files = append(p.files, placedFile{source: source, target: target, mode: mode})
}

func (p *placement) addLink(source, target string) {
	p.links = append(p.links, placedLink{source: source, target: target})
}

// placedTree is a release tree staged next to dest. It replaces dest only
// after every other file and link is in place.
type placedTree struct {
	staged string
	dest   string
}

// swap moves the staged tree to dest. The previous tree is restored when
// the move fails and removed once it succeeds.
func (t *placedTree) swap() error {
	if err := os.MkdirAll(t.staged, 0755); err != nil {
		return err
	}
	old := t.dest + ".dotinstall-old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}

	hadOld := false
	if _, err := os.Lstat(t.dest); err == nil {
		if err := os.Rename(t.dest, old); err != nil {
			return err
		}
		hadOld = true
	}
	if err := os.Rename(t.staged, t.dest); err != nil {
		if hadOld {
			_ = os.Rename(old, t.dest)
		}
		return err
	}
	return os.RemoveAll(old)
}

// targets lists every path the placement creates
func (p *placement) targets() []string {
	out := make([]string, 0, len(p.files)+len(p.links))
	for _, f := range p.files {
		out = append(out, p.final(f.target))
	}
	for _, l := range p.links {
		out = append(out, p.final(l.target))
	}
	return out
}

// final maps a staged path to where it ends up after the swap
func (p *placement) final(path string) string {
	if p.tree == nil {
		return path
	}
	rel, err := filepath.Rel(p.tree.staged, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.Join(p.tree.dest, rel)
}

// apply writes everything in one synthfs pipeline, replacing existing
// files and links, and rolls back on failure
func (p *placement) apply(ctx context.Context, id string) error {
	logger := logging.GetLogger("handlers.github")

	osfs := filesystem.NewOSFileSystem("/")
	target := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(p.files)+len(p.links))

	for i, f := range p.files {
		f := f
		opID := fmt.Sprintf("%s_file_%d_%s", id, i, filepath.Base(f.target))
		ops = append(ops, sfs.CustomOperationWithID(opID, func(ctx context.Context, fsys filesystem.FileSystem) error {
			data, err := os.ReadFile(f.source)
			if err != nil {
				return err
			}
			if err := fsys.MkdirAll(filepath.Dir(f.target), 0755); err != nil {
				return err
			}
			if err := fsys.Remove(f.target); err != nil && !os.IsNotExist(err) {
				return err
			}
			return fsys.WriteFile(f.target, data, f.mode)
		}))
	}

	for i, l := range p.links {
		l := l
		opID := fmt.Sprintf("%s_link_%d_%s", id, i, filepath.Base(l.target))
		ops = append(ops, sfs.CustomOperationWithID(opID, func(ctx context.Context, fsys filesystem.FileSystem) error {
			if err := fsys.MkdirAll(filepath.Dir(l.target), 0755); err != nil {
				return err
			}
			if err := fsys.Remove(l.target); err != nil && !os.IsNotExist(err) {
				return err
			}
			return fsys.Symlink(l.source, l.target)
		}))
	}

	if len(ops) == 0 {
		return nil
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	logger.Debug().Int("operationCount", len(ops)).Msg("Placing release files")
	result, err := synthfs.RunWithOptions(ctx, target, options, ops...)
	if err != nil {
		if p.tree != nil {
			_ = os.RemoveAll(p.tree.staged)
		}
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to place files: %s", failedOps(result))
	}

	if p.tree != nil {
		if err := p.tree.swap(); err != nil {
			_ = os.RemoveAll(p.tree.staged)
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", p.tree.dest)
		}
		logger.Debug().Str("dest", p.tree.dest).Msg("Replaced release tree")
	}
	return nil
}

func failedOps(result *synthfs.Result) string {
	if result == nil {
		return "no result"
	}
	var failed []string
	for _, op := range result.GetOperations() {
		if r, ok := op.(synthfs.OperationResult); ok && r.Status != synthfs.StatusSuccess {
			failed = append(failed, string(r.OperationID))
		}
	}
	if len(failed) == 0 {
		return "pipeline error"
	}
	return strings.Join(failed, ", ")
}

// addTree plans copying every file and symlink under root into a staging
// directory beside dest, swapped in by apply
func (p *placement) addTree(root, dest string) error {
	staged := dest + ".dotinstall-new"
	if err := os.RemoveAll(staged); err != nil {
		return err
	}
	p.tree = &placedTree{staged: staged, dest: dest}
	dest = staged

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			p.addLink(link, target)
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			p.addFile(path, target, info.Mode().Perm())
		}
		return nil
	})
}
