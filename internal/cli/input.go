package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/synastry/internal/domain/chart"
)

// readInput reads a file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return data, nil
}

func readPerson(stdin io.Reader, path string) (chart.Person, error) {
	data, err := readInput(stdin, path)
	if err != nil {
		return chart.Person{}, err
	}
	p, err := chart.NormalizePerson(data)
	if err != nil {
		return chart.Person{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
