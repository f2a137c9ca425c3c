package manifest

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/arthur-debert/dotinstall/pkg/tags"
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/go-viper/mapstructure/v2"
)

// recordFields are the package-level keys of a record
type recordFields struct {
	Default     string   `mapstructure:"default"`
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Tags        []string `mapstructure:"tags"`
	Check       string   `mapstructure:"check"`
	After       []string `mapstructure:"after"`
}

var methodType = reflect.TypeOf(types.Method(""))

// methodHookFunc validates method names while decoding
func methodHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != methodType || from.Kind() != reflect.String {
			return data, nil
		}
		return types.ParseMethod(data.(string))
	}
}

func decode(input interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			methodHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// decodePackage turns one raw record into a Package. Problems are returned
// as readable strings so a manifest reports all of them at once.
func decodePackage(key string, value interface{}) (*Package, []string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, []string{"empty package name"}
	}

	pkg := &Package{
		Key:       key,
		Platforms: make(map[string]Override),
	}

	switch v := value.(type) {
	case nil:
		return pkg, nil
	case string:
		pkg.Default = strings.TrimSpace(v)
		return pkg, nil
	case map[string]interface{}:
		return pkg, fillPackage(pkg, v)
	default:
		return nil, []string{fmt.Sprintf("%s: record must be a mapping, got %T", key, value)}
	}
}

func fillPackage(pkg *Package, raw map[string]interface{}) []string {
	var problems []string

	recordMap := make(map[string]interface{})
	baseMap := make(map[string]interface{})
	platformKeys := make([]string, 0)

	for k, v := range raw {
		lk := strings.ToLower(k)
		switch {
		case recordKeys[lk]:
			recordMap[lk] = v
		case overrideKeys[lk]:
			baseMap[lk] = v
		default:
			platformKeys = append(platformKeys, k)
		}
	}

	var rec recordFields
	if err := decode(recordMap, &rec); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", pkg.Key, err))
	}
	pkg.Default = strings.TrimSpace(rec.Default)
	if pkg.Default == "" {
		pkg.Default = strings.TrimSpace(rec.Name)
	}
	pkg.Description = rec.Description
	pkg.Tags = tags.Normalize(rec.Tags)
	pkg.Check = strings.TrimSpace(rec.Check)
	for _, a := range rec.After {
		if a = strings.TrimSpace(a); a != "" {
			pkg.After = append(pkg.After, a)
		}
	}

	if err := decode(baseMap, &pkg.Base); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", pkg.Key, err))
	}

	sort.Strings(platformKeys)
	logger := logging.GetLogger("manifest")
	for _, k := range platformKeys {
		id := platform.Normalize(k)
		if !platform.Known(id) {
			logger.Warn().
				Str("package", pkg.Key).
				Str("key", k).
				Msg("Unknown platform in manifest record, check for a misspelled field")
		}
		o, err := decodeOverride(raw[k])
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s.%s: %v", pkg.Key, k, err))
			continue
		}
		if _, dup := pkg.Platforms[id]; dup {
			problems = append(problems, fmt.Sprintf("%s.%s: duplicate platform %q", pkg.Key, k, id))
			continue
		}
		pkg.Platforms[id] = o
	}

	return problems
}

// decodeOverride accepts a full sub-record or one of the shorthands:
// false or "skip" skip the platform, a method name switches the method and
// any other string renames the package
func decodeOverride(value interface{}) (Override, error) {
	switch v := value.(type) {
	case nil:
		return Override{}, nil
	case bool:
		return Override{Skip: !v}, nil
	case string:
		s := strings.TrimSpace(v)
		switch {
		case strings.EqualFold(s, "skip"):
			return Override{Skip: true}, nil
		case types.IsKnown(s):
			m, _ := types.ParseMethod(s)
			return Override{Method: m}, nil
		case s == "":
			return Override{}, nil
		default:
			return Override{Name: s}, nil
		}
	case map[string]interface{}:
		var o Override
		if err := decode(v, &o); err != nil {
			return Override{}, err
		}
		return o, nil
	default:
		return Override{}, fmt.Errorf("platform entry must be a mapping, a string or a boolean, got %T", value)
	}
}
