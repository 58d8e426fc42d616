package commands

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

const maxInput = 1 << 20

var errInputTooLarge = errors.Errorf("input exceeds %d bytes", maxInput)

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxInput+1))
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	if len(b) > maxInput {
		return nil, errInputTooLarge
	}
	return b, nil
}

func readJSONFile(path string, v any) error {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = readAllStdin()
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(b, v), "parse %s", path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any, perm os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), perm)
}
