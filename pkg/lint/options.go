package lint

import "github.com/go-viper/mapstructure/v2"

// DecodeOptions decodes rule options into a struct tagged with mapstructure
// keys. Unknown keys and values of the wrong type are reported as a
// *ConfigError for the rule.
func DecodeOptions(ruleID string, opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(opts); err != nil {
		return &ConfigError{RuleID: ruleID, Err: err}
	}
	return nil
}
