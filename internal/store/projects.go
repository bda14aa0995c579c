package store

import "fmt"

// Project represents a cached input tree.
type Project struct {
	Name      string
	UpdatedAt string
	RootPath  string
}

// UpsertProject creates or updates a project record.
func (s *Store) UpsertProject(name, rootPath string) error {
	_, err := s.q.Exec(`
		INSERT INTO projects (name, updated_at, root_path) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at=excluded.updated_at, root_path=excluded.root_path`,
		name, Now(), rootPath)
	return err
}

// GetProject returns a project by name.
func (s *Store) GetProject(name string) (*Project, error) {
	var p Project
	err := s.q.QueryRow("SELECT name, updated_at, root_path FROM projects WHERE name=?", name).
		Scan(&p.Name, &p.UpdatedAt, &p.RootPath)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects in this database.
func (s *Store) ListProjects() ([]*Project, error) {
	rows, err := s.q.Query("SELECT name, updated_at, root_path FROM projects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Name, &p.UpdatedAt, &p.RootPath); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// DeleteProject deletes a project and all associated data (CASCADE).
func (s *Store) DeleteProject(name string) error {
	_, err := s.q.Exec("DELETE FROM projects WHERE name=?", name)
	return err
}

// FileHash is the content hash an input had when it was last unminified
// successfully, together with the rule list it was unminified with.
type FileHash struct {
	Project string
	RelPath string
	Hash    string
	Rules   string
}

// UpsertFileHashBatch stores many hashes in one transaction.
func (s *Store) UpsertFileHashBatch(hashes []FileHash) error {
	if len(hashes) == 0 {
		return nil
	}
	return s.WithTransaction(func(tx *Store) error {
		for _, h := range hashes {
			if _, err := tx.q.Exec(`
				INSERT INTO file_hashes (project, rel_path, hash, rules) VALUES (?, ?, ?, ?)
				ON CONFLICT(project, rel_path) DO UPDATE SET hash=excluded.hash, rules=excluded.rules`,
				h.Project, h.RelPath, h.Hash, h.Rules); err != nil {
				return fmt.Errorf("upsert file hash %s: %w", h.RelPath, err)
			}
		}
		return nil
	})
}

// GetFileHashes returns all file hashes for a project keyed by relative path.
func (s *Store) GetFileHashes(project string) (map[string]FileHash, error) {
	rows, err := s.q.Query("SELECT rel_path, hash, rules FROM file_hashes WHERE project=?", project)
	if err != nil {
		return nil, fmt.Errorf("get file hashes: %w", err)
	}
	defer rows.Close()
	result := make(map[string]FileHash)
	for rows.Next() {
		h := FileHash{Project: project}
		if err := rows.Scan(&h.RelPath, &h.Hash, &h.Rules); err != nil {
			return nil, err
		}
		result[h.RelPath] = h
	}
	return result, rows.Err()
}

// DeleteFileHash deletes a single file hash entry.
func (s *Store) DeleteFileHash(project, relPath string) error {
	_, err := s.q.Exec("DELETE FROM file_hashes WHERE project=? AND rel_path=?", project, relPath)
	return err
}

// DeleteFileHashes deletes all file hashes for a project.
func (s *Store) DeleteFileHashes(project string) error {
	_, err := s.q.Exec("DELETE FROM file_hashes WHERE project=?", project)
	return err
}
