package loader

import (
	"bytes"
	"strings"

	"github.com/joho/godotenv"
	"github.com/junioryono/lazydi"
	"github.com/spf13/viper"
)

// decoders by file extension, without the dot.
var decoders = map[string]func([]byte, string) (lazydi.Tree, error){
	"json": decodeConfig,
	"yaml": decodeConfig,
	"yml":  decodeConfig,
	"toml": decodeConfig,
	"env":  decodeEnv,
}

// isDataFile reports whether ext names a decodable file type.
func isDataFile(ext string) bool {
	_, ok := decoders[strings.ToLower(ext)]
	return ok
}

// decode decodes data by its extension.
func decode(data []byte, ext string) (lazydi.Tree, error) {
	ext = strings.ToLower(ext)
	return decoders[ext](data, ext)
}

// decodeConfig reads structured settings through a private viper instance.
// Keys are lowercased.
func decodeConfig(data []byte, ext string) (lazydi.Tree, error) {
	v := viper.New()
	v.SetConfigType(ext)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return v.AllSettings(), nil
}

// decodeEnv reads KEY=value lines. Keys keep their case.
func decodeEnv(data []byte, _ string) (lazydi.Tree, error) {
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := make(lazydi.Tree, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out, nil
}
