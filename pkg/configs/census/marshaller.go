package census

import (
	"os"

	"gopkg.in/yaml.v3"
)

// load census server/collector config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *CensusConfig, error:
//
//	When loading success, returns `(*CensusConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadCensusConfig(filepath string) (*CensusConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (out *CensusConfig, err error) {
	var _out *CensusConfigMarshall
	err = yaml.Unmarshal(conf, &_out)
	if err != nil {
		return nil, err
	}
	out = TrySeal(_out)
	return out, nil
}
