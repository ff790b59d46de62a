// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSeed = errors.New("invalid seed")

// LoadSeed reads a JSON or YAML seed file (by extension) and validates it.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseSeedYAML(data)
	default:
		return ParseSeedJSON(data)
	}
}

// ParseSeedJSON validates and decodes a JSON seed document.
func ParseSeedJSON(data []byte) (*Seed, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse json: %v", ErrInvalidSeed, err)
	}
	return decode(doc)
}

// ParseSeedYAML validates and decodes a YAML seed document.
func ParseSeedYAML(data []byte) (*Seed, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidSeed, err)
	}
	return decode(doc)
}

func decode(doc interface{}) (*Seed, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func validateDocument(doc interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		sort.Strings(errs)
		return fmt.Errorf("%w: %s", ErrInvalidSeed, strings.Join(errs, "; "))
	}
	return nil
}

// SaveSeed validates seed and writes it as JSON or YAML depending on the extension.
func SaveSeed(path string, seed *Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(toYAML(seed))
	default:
		data, err = json.MarshalIndent(seed, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

type yamlActivity struct {
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants,omitempty"`
}

type yamlSeed struct {
	Version    string                  `yaml:"version,omitempty"`
	Activities map[string]yamlActivity `yaml:"activities"`
}

func toYAML(seed *Seed) yamlSeed {
	out := yamlSeed{Version: seed.Version, Activities: make(map[string]yamlActivity, len(seed.Activities))}
	for name, def := range seed.Activities {
		out.Activities[name] = yamlActivity(def)
	}
	return out
}

// Validate enforces the registry invariants: at least one activity, non-empty
// names and unique participants per activity.
func (s *Seed) Validate() error {
	if len(s.Activities) == 0 {
		return fmt.Errorf("%w: no activities defined", ErrInvalidSeed)
	}
	for name, def := range s.Activities {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty activity name", ErrInvalidSeed)
		}
		if def.MaxParticipants < 0 {
			return fmt.Errorf("%w: %s: negative max_participants", ErrInvalidSeed, name)
		}
		seen := make(map[string]struct{}, len(def.Participants))
		for _, email := range def.Participants {
			if _, dup := seen[email]; dup {
				return fmt.Errorf("%w: %s: duplicate participant %s", ErrInvalidSeed, name, email)
			}
			seen[email] = struct{}{}
		}
	}
	return nil
}

// Names returns the activity names in sorted order.
func (s *Seed) Names() []string {
	names := make([]string, 0, len(s.Activities))
	for name := range s.Activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the built-in Mergington High School activities.
func Default() *Seed {
	return &Seed{
		Version: "1",
		Activities: map[string]ActivityDefinition{
			"Chess Club": {
				Description:     "Learn strategies and compete in chess tournaments",
				Schedule:        "Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
				Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
			},
			"Programming Class": {
				Description:     "Learn programming fundamentals and build software projects",
				Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
			},
			"Gym Class": {
				Description:     "Physical education and sports activities",
				Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
				MaxParticipants: 30,
				Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
			},
			"Soccer Team": {
				Description:     "Join the school soccer team and compete in matches",
				Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 22,
				Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
			},
			"Basketball Team": {
				Description:     "Practice and play basketball with the school team",
				Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 15,
				Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
			},
			"Art Club": {
				Description:     "Explore your creativity through painting and drawing",
				Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 15,
				Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
			},
			"Drama Club": {
				Description:     "Act, direct, and produce plays and performances",
				Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
			},
			"Math Club": {
				Description:     "Solve challenging problems and participate in math competitions",
				Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 10,
				Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
			},
			"Debate Team": {
				Description:     "Develop public speaking and argumentation skills",
				Schedule:        "Fridays, 4:00 PM - 5:30 PM",
				MaxParticipants: 12,
				Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
			},
		},
	}
}
