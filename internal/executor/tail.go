package executor

import (
	"bufio"

	"github.com/spf13/afero"
)

// maxLogLine bounds a single log line.
const maxLogLine = 1 << 20

// Tail returns the last n lines of the file at path.
func Tail(fs afero.Fs, path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)
	for scanner.Scan() {
		if len(ring) == n {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, scanner.Text())
	}
	return ring, scanner.Err()
}
