package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lshigami/litdrill/internal/dto"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Decode reads a question bank document. JSON is accepted as a YAML subset.
func Decode(r io.Reader) (dto.QuestionImportDTO, error) {
	var bank dto.QuestionImportDTO
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bank); err != nil {
		if errors.Is(err, io.EOF) {
			return bank, errors.New("empty question bank")
		}
		return bank, fmt.Errorf("decode question bank: %w", err)
	}
	return bank, nil
}

// ImportFile loads a question bank file and inserts it through the service.
func ImportFile(ctx context.Context, questions service.QuestionService, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bank, err := Decode(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	created, err := questions.Import(ctx, bank)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().Str("file", path).Int("created", created).Msg("Question bank imported")
	return created, nil
}
