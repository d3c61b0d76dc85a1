package packver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/packmill/packmill/internal/logger"
)

const (
	// VersionJSONFilename is the manifest-style version file checked second.
	VersionJSONFilename = "version.json"
	// VersionFilename is the plain version file checked third.
	VersionFilename = "VERSION"

	// envPackVersion is the workflow-provided version override.
	envPackVersion = "PACK_VERSION"
	// envRefType and envRefName describe the CI checkout reference.
	envRefType = "GITHUB_REF_TYPE"
	envRefName = "GITHUB_REF_NAME"
)

// ErrNoVersionSource is returned when every source in the chain comes up empty.
var ErrNoVersionSource = errors.New("no pack version source resolvable")

// Source resolves a pack version from one place. An empty version with a
// nil error means "this source has nothing", and the chain moves on.
type Source struct {
	// Name identifies the source in diagnostics.
	Name string
	// Resolve attempts to produce a version string.
	Resolve func(ctx context.Context, dir string) (string, error)
}

// Sources returns the ordered version source chain. The explicit override
// is prepended by Resolve; the rest is tried in priority order, first
// non-empty result wins.
func Sources() []Source {
	return []Source{
		{Name: "environment", Resolve: fromEnvironment},
		{Name: VersionJSONFilename, Resolve: fromVersionJSON},
		{Name: VersionFilename, Resolve: fromVersionFile},
		{Name: "ci-tag-ref", Resolve: fromCIRef},
		{Name: "git-tag", Resolve: fromGitTag},
	}
}

// Resolve walks the version source chain rooted at dir.
// It returns the version, the name of the source that produced it, and an
// error naming every source tried when the chain is exhausted.
func Resolve(ctx context.Context, dir, override string) (string, string, error) {
	if v := strings.TrimSpace(override); v != "" {
		return v, "override", nil
	}

	sources := Sources()
	tried := make([]string, 0, len(sources)+1)
	tried = append(tried, "override")

	for _, source := range sources {
		version, err := source.Resolve(ctx, dir)
		if err != nil {
			return "", "", fmt.Errorf("version source %s: %w", source.Name, err)
		}

		if version != "" {
			return version, source.Name, nil
		}

		logger.DebugKV(ctx, "Version source empty, trying next", "source", source.Name)
		tried = append(tried, source.Name)
	}

	return "", "", fmt.Errorf("%w (tried: %s)", ErrNoVersionSource, strings.Join(tried, ", "))
}

// fromEnvironment reads the workflow-provided PACK_VERSION variable.
func fromEnvironment(_ context.Context, _ string) (string, error) {
	return strings.TrimSpace(os.Getenv(envPackVersion)), nil
}

// fromVersionJSON reads version.json and accepts the first populated key
// among "version", "pack_version" and "name".
func fromVersionJSON(_ context.Context, dir string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(filepath.Join(dir, VersionJSONFilename)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("read %s: %w", VersionJSONFilename, err)
	}

	var doc struct {
		Version     string `json:"version"`
		PackVersion string `json:"pack_version"`
		Name        string `json:"name"`
	}

	if err = json.Unmarshal(contents, &doc); err != nil {
		// A broken version.json should not mask the remaining sources.
		return "", nil
	}

	for _, candidate := range []string{doc.Version, doc.PackVersion, doc.Name} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v, nil
		}
	}

	return "", nil
}

// fromVersionFile reads a plain VERSION file.
func fromVersionFile(_ context.Context, dir string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(filepath.Join(dir, VersionFilename)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("read %s: %w", VersionFilename, err)
	}

	return strings.TrimSpace(string(contents)), nil
}

// fromCIRef uses the CI checkout reference when the workflow runs on a tag.
func fromCIRef(_ context.Context, _ string) (string, error) {
	if os.Getenv(envRefType) != "tag" {
		return "", nil
	}

	return strings.TrimSpace(os.Getenv(envRefName)), nil
}

// fromGitTag returns the most recent tag reachable from HEAD, walking the
// commit history until a tagged commit is found.
func fromGitTag(_ context.Context, dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}

		return "", fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		// Empty repository, detached state without commits, etc.
		return "", nil //nolint:nilerr // Absence of history means absence of a tag source.
	}

	tagsByCommit, err := collectTags(repo)
	if err != nil {
		return "", err
	}

	if len(tagsByCommit) == 0 {
		return "", nil
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", fmt.Errorf("walk history: %w", err)
	}

	defer iter.Close()

	var found string

	for {
		commit, iterErr := iter.Next()
		if iterErr != nil {
			break
		}

		if tag, ok := tagsByCommit[commit.Hash]; ok {
			found = tag
			break
		}
	}

	return found, nil
}

// collectTags maps commit hashes to tag names, resolving annotated tags to
// their targets.
func collectTags(repo *git.Repository) (map[plumbing.Hash]string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	defer tags.Close()

	tagsByCommit := make(map[plumbing.Hash]string)

	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()

		if tagObject, tagErr := repo.TagObject(ref.Hash()); tagErr == nil {
			target = tagObject.Target
		}

		tagsByCommit[target] = ref.Name().Short()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tagsByCommit, nil
}
