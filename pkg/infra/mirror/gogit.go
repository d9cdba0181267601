package mirror

import (
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/m-mizutani/goerr/v2"
)

// Helpers for interacting with gogit storage.

func openOrInit(dir, remote string) (*git.Repository, error) {
	var repo *git.Repository

	if fi, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "failed to stat clone directory", goerr.V("dir", dir))
		}
		r, err := git.PlainInit(dir, true)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init clone", goerr.V("dir", dir))
		}
		repo = r
	} else if !fi.IsDir() {
		return nil, goerr.New("clone path is not a directory", goerr.V("dir", dir))
	} else {
		r, err := openRepository(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open clone", goerr.V("dir", dir))
		}
		repo = r
	}

	if remote != "" {
		if err := initializeOrigin(repo, remote); err != nil {
			return nil, goerr.Wrap(err, "failed to configure origin", goerr.V("dir", dir))
		}
	}

	return repo, nil
}

func openRepository(dir string) (*git.Repository, error) {
	dot := osfs.New(dir)
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())
	return git.Open(storage, dot)
}

func initializeOrigin(repo *git.Repository, address string) error {
	cfg, err := repo.Config()
	if err != nil {
		return err
	}

	current := cfg.Remotes[originName]
	if current != nil && len(current.URLs) == 1 && current.URLs[0] == address {
		return nil
	}

	cfg.Remotes[originName] = &gitconfig.RemoteConfig{
		Name:  originName,
		URLs:  []string{address},
		Fetch: headsFetchSpec,
	}

	return repo.SetConfig(cfg)
}
