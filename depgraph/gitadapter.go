package depgraph

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/veridic/ARGX/errors"
)

// GitAdapter builds a tool adapter that registers every file in a
// repository's HEAD tree as a tracked resource. Re-syncing updates
// already tracked files instead of duplicating them, so each sync
// bumps the version of files whose blob hash it observes.
//
// args["repo_path"] overrides the construction-time path for one sync.
func GitAdapter(repoPath string) ToolAdapter {
	return func(tracker *Tracker, args map[string]interface{}) ([]string, error) {
		path := repoPath
		if override, ok := args["repo_path"].(string); ok && override != "" {
			path = override
		}

		repo, err := git.PlainOpen(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open repository %s", path)
		}

		head, err := repo.Head()
		if err != nil {
			return nil, errors.Wrap(err, "resolve HEAD")
		}
		commit, err := repo.CommitObject(head.Hash())
		if err != nil {
			return nil, errors.Wrap(err, "load HEAD commit")
		}
		tree, err := commit.Tree()
		if err != nil {
			return nil, errors.Wrap(err, "load HEAD tree")
		}

		// Location-keyed view of what previous syncs registered
		known := map[string]*Resource{}
		for _, resource := range tracker.QueryResources(KindFile, "git", "") {
			known[resource.Location] = resource
		}

		var synced []string
		err = tree.Files().ForEach(func(file *object.File) error {
			location := filepath.Join(path, file.Name)
			metadata := map[string]interface{}{
				"commit": head.Hash().String(),
				"blob":   file.Hash.String(),
				"branch": head.Name().Short(),
			}

			if existing, ok := known[location]; ok {
				if existing.Metadata["blob"] != metadata["blob"] {
					if _, err := tracker.UpdateResource(existing.ResourceID, metadata); err != nil {
						return err
					}
				}
				synced = append(synced, existing.ResourceID)
				return nil
			}

			resource, err := tracker.RegisterResource(KindFile, file.Name, location, "git", metadata, "")
			if err != nil {
				return err
			}
			synced = append(synced, resource.ResourceID)
			return nil
		})
		if err != nil {
			return synced, errors.Wrap(err, "walk HEAD tree")
		}
		return synced, nil
	}
}
