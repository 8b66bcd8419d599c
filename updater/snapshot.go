package updater

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"emperror.dev/errors"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mochi-sys/teatally/assets"
)

// GitSnapshotter materializes the remote asset collection with a shallow
// clone, then copies every recognized image into the destination directory.
type GitSnapshotter struct {
	URL    string
	Branch string

	sugar *zap.SugaredLogger
}

var _ Snapshotter = (*GitSnapshotter)(nil)

// NewGitSnapshotter creates a snapshotter cloning from url. branch may be
// empty to use the remote's default branch.
func NewGitSnapshotter(url, branch string, sugar *zap.SugaredLogger) *GitSnapshotter {
	return &GitSnapshotter{
		URL:    url,
		Branch: branch,
		sugar:  sugar.Named("snapshot"),
	}
}

// Snapshot clones the repository into a temporary directory and copies its
// images into dest, preserving relative paths. It returns the number of
// files copied. The temporary clone is always removed.
func (g *GitSnapshotter) Snapshot(ctx context.Context, dest string) (copied int, err error) {
	tmp := filepath.Join(os.TempDir(), "teatally-clone-"+uuid.New().String())
	defer os.RemoveAll(tmp)

	opts := &git.CloneOptions{
		URL:   g.URL,
		Depth: 1,
	}
	if g.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.Branch)
		opts.SingleBranch = true
	}

	_, err = git.PlainCloneContext(ctx, tmp, false, opts)
	if err != nil {
		return 0, errors.Wrap(err, "cloning repository")
	}

	err = filepath.WalkDir(tmp, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == git.GitDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !assets.IsImage(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(tmp, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dest, rel)); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, errors.Wrap(err, "copying images")
	}

	g.sugar.Infof("Copied %v images into %v", copied, dest)
	return copied, nil
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
