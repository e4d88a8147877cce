package fogbugz

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// DefaultSettingsPrefix is prepended to every setting name when looking it
// up in a Source.
const DefaultSettingsPrefix = "AUTH_FOGBUGZ_"

// Setting names.
const (
	SettingServer             = "SERVER"
	SettingEnableProfile      = "ENABLE_PROFILE"
	SettingEnableProfileToken = "ENABLE_PROFILE_TOKEN"
	SettingAllowCommunity     = "ALLOW_COMMUNITY"
	SettingAutoCreateUsers    = "AUTO_CREATE_USERS"
	SettingServerUsesLDAP     = "SERVER_USES_LDAP"
	SettingMapAdminAsSuper    = "MAP_ADMIN_AS_SUPER"
	SettingMapAdminAsStaff    = "MAP_ADMIN_AS_STAFF"

	// SettingLegacyTokenProfile enables both profile settings at once.
	SettingLegacyTokenProfile = "ENABLE_TOKEN_PROFILE"
)

// Source is a read-only key/value settings provider.
type Source interface {
	Lookup(key string) (any, bool)
}

// MapSource serves settings from memory.
type MapSource map[string]any

func (m MapSource) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvSource serves settings from the process environment.
type EnvSource struct{}

func (EnvSource) Lookup(key string) (any, bool) {
	return os.LookupEnv(key)
}

// TOMLSource serves the top level keys of a TOML document.
type TOMLSource map[string]any

func (s TOMLSource) Lookup(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// LoadTOMLSource decodes the TOML file at path.
func LoadTOMLSource(path string) (TOMLSource, error) {
	src := TOMLSource{}
	if _, err := toml.DecodeFile(path, &src); err != nil {
		return nil, wrapError(ErrInvalidConfiguration, err, map[string]any{"path": path})
	}
	return src, nil
}

// DecodeTOMLSource decodes a TOML document held in memory.
func DecodeTOMLSource(data string) (TOMLSource, error) {
	src := TOMLSource{}
	if _, err := toml.Decode(data, &src); err != nil {
		return nil, wrapError(ErrInvalidConfiguration, err, nil)
	}
	return src, nil
}

// ChainSource looks keys up in order, the first source holding a key wins.
type ChainSource []Source

func (c ChainSource) Lookup(key string) (any, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Settings is the resolved configuration of the provider. It is a value,
// copies are independent.
type Settings struct {
	Server             string
	EnableProfile      bool
	EnableProfileToken bool
	AllowCommunity     bool
	AutoCreateUsers    bool
	ServerUsesLDAP     bool
	MapAdminAsSuper    bool
	MapAdminAsStaff    bool
}

// PersistToken reports whether the session token is cached on the profile.
func (s Settings) PersistToken() bool {
	return s.EnableProfile && s.EnableProfileToken
}

// Validate checks the resolved values.
func (s Settings) Validate() error {
	if err := validateServer(s.Server); err != nil {
		return wrapError(ErrInvalidConfiguration, err, map[string]any{"setting": SettingServer})
	}
	return nil
}

// SettingsOption customizes LoadSettings.
type SettingsOption func(*settingsLoader)

// WithSettingsPrefix replaces DefaultSettingsPrefix.
func WithSettingsPrefix(prefix string) SettingsOption {
	return func(l *settingsLoader) {
		l.prefix = prefix
	}
}

type settingsLoader struct {
	prefix string
	source Source
}

type option struct {
	name     string
	fallback any
	validate func(value any) (any, error)
	assign   func(s *Settings, value any)
}

func settingsSchema(legacyProfile bool) []option {
	boolOption := func(name string, fallback bool, assign func(*Settings, bool)) option {
		return option{
			name:     name,
			fallback: fallback,
			validate: func(value any) (any, error) { return parseBool(value) },
			assign:   func(s *Settings, value any) { assign(s, value.(bool)) },
		}
	}

	return []option{
		{
			name: SettingServer,
			validate: func(value any) (any, error) {
				server := strings.TrimSpace(stringValue(value))
				return server, validateServer(server)
			},
			assign: func(s *Settings, value any) { s.Server = value.(string) },
		},
		boolOption(SettingEnableProfile, legacyProfile, func(s *Settings, v bool) { s.EnableProfile = v }),
		boolOption(SettingEnableProfileToken, legacyProfile, func(s *Settings, v bool) { s.EnableProfileToken = v }),
		boolOption(SettingAllowCommunity, false, func(s *Settings, v bool) { s.AllowCommunity = v }),
		boolOption(SettingAutoCreateUsers, false, func(s *Settings, v bool) { s.AutoCreateUsers = v }),
		boolOption(SettingServerUsesLDAP, false, func(s *Settings, v bool) { s.ServerUsesLDAP = v }),
		boolOption(SettingMapAdminAsSuper, false, func(s *Settings, v bool) { s.MapAdminAsSuper = v }),
		boolOption(SettingMapAdminAsStaff, false, func(s *Settings, v bool) { s.MapAdminAsStaff = v }),
	}
}

// LoadSettings resolves every setting from src, falling back to the schema
// default for missing keys. A value failing its validator returns
// ErrInvalidConfiguration.
func LoadSettings(src Source, opts ...SettingsOption) (Settings, error) {
	loader := &settingsLoader{prefix: DefaultSettingsPrefix, source: src}
	for _, opt := range opts {
		if opt != nil {
			opt(loader)
		}
	}
	if loader.source == nil {
		loader.source = MapSource{}
	}

	legacy, err := loader.legacyProfile()
	if err != nil {
		return Settings{}, err
	}

	var settings Settings
	for _, opt := range settingsSchema(legacy) {
		key := loader.prefix + opt.name
		value, ok := loader.source.Lookup(key)
		if !ok {
			value = opt.fallback
		}

		resolved, err := opt.validate(value)
		if err != nil {
			return Settings{}, wrapError(ErrInvalidConfiguration, err, map[string]any{
				"setting": key,
			})
		}
		opt.assign(&settings, resolved)
	}

	return settings, nil
}

// MustLoadSettings is LoadSettings for startup code, it panics on error.
func MustLoadSettings(src Source, opts ...SettingsOption) Settings {
	settings, err := LoadSettings(src, opts...)
	if err != nil {
		panic(err)
	}
	return settings
}

func (l *settingsLoader) legacyProfile() (bool, error) {
	key := l.prefix + SettingLegacyTokenProfile
	value, ok := l.source.Lookup(key)
	if !ok {
		return false, nil
	}

	enabled, err := parseBool(value)
	if err != nil {
		return false, wrapError(ErrInvalidConfiguration, err, map[string]any{"setting": key})
	}
	return enabled, nil
}

func validateServer(server string) error {
	return validation.Validate(server,
		validation.Required,
		is.URL,
		validation.By(requireHTTPURL),
	)
}

func requireHTTPURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return stderrors.New("must use the http or https scheme")
	}

	if u.Host == "" {
		return stderrors.New("must include a host")
	}

	return nil
}

func parseBool(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return false, nil
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("unsupported boolean value %v (%T)", value, value)
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
