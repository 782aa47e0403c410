package solver

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Artifact holds the recognized lines of a solver output file.
// Unrecognized lines (agent paths, comments) are ignored.
type Artifact struct {
	Cost     int
	Makespan int
	Solved   bool
	HasCost  bool
}

// ParseArtifact reads a solver output file and extracts soc=, makespan=
// and solved= lines. Strict mode (the default) returns an ArtifactError
// when the file is unreadable or carries no soc= line; lenient mode
// reproduces the original harness and falls back to zero, which is
// indistinguishable from a genuine zero-cost result.
func ParseArtifact(path string, lenient bool) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		if lenient {
			return &Artifact{}, nil
		}
		return nil, &ArtifactError{Path: path, Missing: true, Reason: err.Error()}
	}
	defer f.Close()

	art := &Artifact{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "soc="):
			if n, err := strconv.Atoi(strings.TrimSpace(line[len("soc="):])); err == nil {
				art.Cost = n
				art.HasCost = true
			}
		case strings.HasPrefix(line, "makespan="):
			if n, err := strconv.Atoi(strings.TrimSpace(line[len("makespan="):])); err == nil {
				art.Makespan = n
			}
		case strings.HasPrefix(line, "solved="):
			art.Solved = strings.TrimSpace(line[len("solved="):]) == "1"
		}
	}
	if err := sc.Err(); err != nil && !lenient {
		return nil, &ArtifactError{Path: path, Reason: err.Error()}
	}
	if !art.HasCost && !lenient {
		return nil, &ArtifactError{Path: path, Reason: "no soc= line"}
	}
	return art, nil
}
