package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"go.viam.com/iso17123/logging"
)

// Read reads a config from the given file. Environment variables referenced as ${VAR} are
// substituted before decoding.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(bytes.NewReader(buf))
}

// FromReader reads a config from the given reader. The input is JSON5, so hand-written run
// files may carry comments and trailing commas. Unknown fields are rejected and defaults are
// applied to unset optional fields. The config is not validated.
func FromReader(r io.Reader) (*Config, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Config")
	}
	var raw interface{}
	if err := json5.Unmarshal(buf, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json5")
	}
	canonical, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json5")
	}

	// An alpha key present in the file, even a zero one, overrides the default.
	cfg := Config{Alpha: DefaultAlpha}
	dec := json.NewDecoder(bytes.NewReader(canonical))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// MetadataKeys are the keys of the metadata mapping, in report order.
var MetadataKeys = []string{
	"device", "manufacturer", "serial_number", "FW_version", "operator",
	"datetime", "temp", "humidity", "pressure", "comment",
}

// Metadata describes the instrument and the conditions of a test. Every value is kept as text
// so that it can be written to reports unchanged.
type Metadata struct {
	Device       string
	Manufacturer string
	SerialNumber string
	FWVersion    string
	Operator     string
	Datetime     string
	Temp         string
	Humidity     string
	Pressure     string
	Comment      string
}

// Get returns the value stored under one of MetadataKeys.
func (m *Metadata) Get(key string) string {
	if f := m.field(key); f != nil {
		return *f
	}
	return ""
}

func (m *Metadata) field(key string) *string {
	switch key {
	case "device":
		return &m.Device
	case "manufacturer":
		return &m.Manufacturer
	case "serial_number":
		return &m.SerialNumber
	case "FW_version":
		return &m.FWVersion
	case "operator":
		return &m.Operator
	case "datetime":
		return &m.Datetime
	case "temp":
		return &m.Temp
	case "humidity":
		return &m.Humidity
	case "pressure":
		return &m.Pressure
	case "comment":
		return &m.Comment
	default:
		return nil
	}
}

type metadataFile struct {
	Metadata map[string]interface{} `yaml:"metadata"`
}

// ReadMetadata reads a YAML file holding a top-level "metadata" mapping. Missing keys are left
// empty and reported at warn level.
func ReadMetadata(path string, logger logging.Logger) (Metadata, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "failed to open metadata file")
	}
	defer f.Close()
	return MetadataFromReader(f, logger)
}

// MetadataFromReader decodes metadata from r. See ReadMetadata.
func MetadataFromReader(r io.Reader, logger logging.Logger) (Metadata, error) {
	var doc metadataFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Metadata{}, errors.New("metadata file is empty")
		}
		return Metadata{}, errors.Wrap(err, "failed to decode metadata from yaml")
	}
	if doc.Metadata == nil {
		return Metadata{}, errors.New(`metadata file has no top-level "metadata" mapping`)
	}

	var md Metadata
	var missing []string
	for _, key := range MetadataKeys {
		v, ok := doc.Metadata[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		value, err := cast.ToStringE(v)
		if err != nil {
			return Metadata{}, errors.Wrapf(err, "metadata key %q", key)
		}
		*md.field(key) = value
	}
	if len(missing) > 0 {
		logger.Warnw("metadata keys missing, left empty", "keys", missing)
	}
	return md, nil
}
