package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// writeSnapshot atomically replaces path with the JSON encoding of v: the
// data is written to a uniquely named temp file next to the snapshot and
// renamed over it, so a failed write never leaves a truncated snapshot.
func writeSnapshot(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Mark(errors.Wrap(err, "encode snapshot"), ErrPersist)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Mark(errors.Wrapf(err, "write snapshot %s", tmp), ErrPersist)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return errors.Mark(errors.Wrapf(err, "replace snapshot %s", path), ErrPersist)
	}

	return nil
}

// readSnapshot loads path into v. A missing file is not an error: it is the
// distinguished fresh-store case, reported through fresh=true. Unreadable
// or undecodable content is a genuine failure.
func readSnapshot(path string, v any) (fresh bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}

	if err != nil {
		return false, errors.Wrapf(err, "read snapshot %s", path)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Mark(errors.Wrapf(err, "decode snapshot %s", path), ErrCorruptSnapshot)
	}

	return false, nil
}
