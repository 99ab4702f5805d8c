// Package sessionstore persists the authentication cookies of one account
// under the platform cache directory, so a login survives across runs.
package sessionstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// cacheDirName matches the location the original perl distribution used, so
// sessions established by it keep working.
const cacheDirName = "webservice-idonethis-perl"

type Store struct {
	path string
	jar  *Jar
}

// Open resolves the per-user session file under the platform cache root and
// loads any previously persisted session into a fresh jar. Failure to create
// the cache directories is fatal to the caller: there is no point
// constructing a client whose session can never be saved.
func Open(username string) (*Store, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache root: %w", err)
	}
	return OpenAt(root, username)
}

// OpenAt is Open with an explicit cache root.
func OpenAt(root, username string) (*Store, error) {
	dir := filepath.Join(root, cacheDirName, username)
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("create session dir %q: %w", dir, err)
	}

	jar, err := NewJar()
	if err != nil {
		return nil, err
	}

	s := &Store{
		path: filepath.Join(dir, "cookies"),
		jar:  jar,
	}
	err = s.load()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Jar returns the cookie jar backing this store. The jar is owned by exactly
// one client at a time.
func (s *Store) Jar() *Jar {
	return s.jar
}

func (s *Store) load() error {
	contents, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}

	var cookies []persistedCookie
	err = json.Unmarshal(contents, &cookies)
	if err != nil {
		// a corrupt session file is the same as no session: the client
		// will just fall back to a fresh login and overwrite it
		slog.Warn("discarding unreadable session file", "path", s.path, "err", err)
		return nil
	}

	s.jar.restore(cookies)
	return nil
}

// Save writes the current session to disk. The write goes through a temp
// file and a rename so a crash mid-write cannot clobber a valid session.
func (s *Store) Save() error {
	contents, err := json.MarshalIndent(s.jar.snapshot(), "", "\t")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	err = os.WriteFile(tmp, contents, 0o600)
	if err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	err = os.Rename(tmp, s.path)
	if err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
