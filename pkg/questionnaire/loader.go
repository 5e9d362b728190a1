// pkg/questionnaire/loader.go
package questionnaire

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/questions.yaml defaults/tone_matrix.yaml
var defaults embed.FS

const (
	defaultQuestionsFile = "defaults/questions.yaml"
	defaultToneFile      = "defaults/tone_matrix.yaml"
)

// Load builds a Store from the given files. An empty path selects the
// embedded default for that file.
func Load(questionsPath, toneMatrixPath string) (*Store, error) {
	def, err := LoadDefinition(questionsPath)
	if err != nil {
		return nil, err
	}
	tone, err := LoadToneMatrix(toneMatrixPath)
	if err != nil {
		return nil, err
	}
	return New(def, tone)
}

// Default returns a Store over the embedded questionnaire.
func Default() (*Store, error) {
	return Load("", "")
}

func LoadDefinition(path string) (*Definition, error) {
	var def Definition
	if err := readInto(path, defaultQuestionsFile, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func LoadToneMatrix(path string) (ToneMatrix, error) {
	var tone ToneMatrix
	if err := readInto(path, defaultToneFile, &tone); err != nil {
		return nil, err
	}
	return tone, nil
}

func readInto(path, fallback string, out interface{}) error {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "" {
		name = fallback
		data, err = defaults.ReadFile(fallback)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := decode(name, data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// decode picks JSON or YAML by file extension; unknown extensions are
// read as YAML, which also accepts JSON documents.
func decode(name string, data []byte, out interface{}) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return json.Unmarshal(data, out)
	default:
		return yaml.Unmarshal(data, out)
	}
}
