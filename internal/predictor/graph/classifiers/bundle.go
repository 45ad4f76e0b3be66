package classifiers

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

// Artifact file names inside a model directory.
const (
	FileAbandonment   = "abandonment.yaml"
	FileReason        = "reason.yaml"
	FileConversion    = "conversion.yaml"
	FileIntervention  = "intervention.yaml"
	FileReasonEncoder = "reason_encoder.yaml"
)

//go:embed artifacts/*.yaml
var embedded embed.FS

// Bundle is the set of collaborators the inference graph needs.
type Bundle struct {
	Abandonment   Classifier
	Reason        Classifier
	Conversion    Classifier
	Intervention  Classifier
	ReasonDecoder LabelDecoder
}

// Load reads artifacts from dir, or the embedded defaults when dir is empty.
func Load(dir string) (*Bundle, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "artifacts")
		if err != nil {
			return nil, err
		}
		logx.Info().Msg("loading embedded model artifacts")
		return LoadFS(sub)
	}
	logx.Info().Str("dir", dir).Msg("loading model artifacts")
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads and cross-checks all five artifacts from fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	abandon, err := loadLinear(fsys, FileAbandonment)
	if err != nil {
		return nil, err
	}
	reason, err := loadLinear(fsys, FileReason)
	if err != nil {
		return nil, err
	}
	conversion, err := loadLinear(fsys, FileConversion)
	if err != nil {
		return nil, err
	}
	intervention, err := loadLinear(fsys, FileIntervention)
	if err != nil {
		return nil, err
	}

	var encArt LabelEncoderArtifact
	if err := readYAML(fsys, FileReasonEncoder, &encArt); err != nil {
		return nil, err
	}
	encoder, err := NewLabelEncoder(encArt)
	if err != nil {
		return nil, errx.WrapArtifact(FileReasonEncoder, err)
	}

	for file, c := range map[string]*LinearClassifier{
		FileAbandonment:  abandon,
		FileConversion:   conversion,
		FileIntervention: intervention,
	} {
		for _, class := range c.Classes() {
			if class != 0 && class != 1 {
				return nil, errx.WrapArtifact(file, fmt.Errorf("binary classifier emits class %d", class))
			}
		}
	}
	for _, class := range reason.Classes() {
		if _, err := encoder.InverseTransform(class); err != nil {
			return nil, errx.WrapArtifact(FileReason, fmt.Errorf("class %d cannot be decoded: %w", class, err))
		}
	}

	return &Bundle{
		Abandonment:   abandon,
		Reason:        reason,
		Conversion:    conversion,
		Intervention:  intervention,
		ReasonDecoder: encoder,
	}, nil
}

func loadLinear(fsys fs.FS, file string) (*LinearClassifier, error) {
	var a LinearArtifact
	if err := readYAML(fsys, file, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		a.Name = file
	}
	c, err := NewLinearClassifier(a)
	if err != nil {
		return nil, errx.WrapArtifact(file, err)
	}
	return c, nil
}

func readYAML(fsys fs.FS, file string, dst any) error {
	b, err := fs.ReadFile(fsys, file)
	if err != nil {
		return errx.WrapArtifact(file, err)
	}
	if err := yaml.Unmarshal(b, dst); err != nil {
		return errx.WrapArtifact(file, fmt.Errorf("decode yaml: %w", err))
	}
	return nil
}
