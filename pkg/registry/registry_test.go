package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSONSeed = `{
  "version": "2",
  "activities": {
    "Chess Club": {
      "description": "Learn strategies",
      "schedule": "Fridays",
      "max_participants": 12,
      "participants": ["michael@mergington.edu"]
    },
    "Robotics": {
      "description": "Build robots",
      "schedule": "Mondays",
      "max_participants": 8
    }
  }
}`

const validYAMLSeed = `
version: "2"
activities:
  Chess Club:
    description: Learn strategies
    schedule: Fridays
    max_participants: 12
    participants:
      - michael@mergington.edu
      - daniel@mergington.edu
`

func TestDefault_IsValid(t *testing.T) {
	seed := Default()
	require.NoError(t, seed.Validate())
	require.Contains(t, seed.Activities, "Chess Club")
	assert.Equal(t, "michael@mergington.edu", seed.Activities["Chess Club"].Participants[0])
	assert.Len(t, seed.Names(), 9)
}

func TestParseSeedJSON_Valid(t *testing.T) {
	seed, err := ParseSeedJSON([]byte(validJSONSeed))
	require.NoError(t, err)

	assert.Equal(t, "2", seed.Version)
	assert.Equal(t, []string{"Chess Club", "Robotics"}, seed.Names())
	assert.Equal(t, 12, seed.Activities["Chess Club"].MaxParticipants)
	assert.Empty(t, seed.Activities["Robotics"].Participants)
}

func TestParseSeedYAML_Valid(t *testing.T) {
	seed, err := ParseSeedYAML([]byte(validYAMLSeed))
	require.NoError(t, err)

	chess := seed.Activities["Chess Club"]
	assert.Equal(t, "Fridays", chess.Schedule)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)
}

func TestParseSeedJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{`},
		{name: "missing activities", doc: `{"version": "1"}`},
		{name: "empty activities", doc: `{"activities": {}}`},
		{name: "missing schedule", doc: `{"activities": {"A": {"description": "d", "max_participants": 1}}}`},
		{name: "negative capacity", doc: `{"activities": {"A": {"description": "d", "schedule": "s", "max_participants": -1}}}`},
		{name: "fractional capacity", doc: `{"activities": {"A": {"description": "d", "schedule": "s", "max_participants": 1.5}}}`},
		{name: "duplicate participants", doc: `{"activities": {"A": {"description": "d", "schedule": "s", "max_participants": 3, "participants": ["x@y.z", "x@y.z"]}}}`},
		{name: "unknown field", doc: `{"activities": {"A": {"description": "d", "schedule": "s", "max_participants": 3, "capacity": 4}}}`},
		{name: "empty name", doc: `{"activities": {"": {"description": "d", "schedule": "s", "max_participants": 3}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSeed)
		})
	}
}

func TestSeedValidate_BlankName(t *testing.T) {
	seed := &Seed{Activities: map[string]ActivityDefinition{"  ": {Description: "d", Schedule: "s"}}}
	assert.ErrorIs(t, seed.Validate(), ErrInvalidSeed)
}

func TestLoadSeed_ByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "seed.json")
	yamlPath := filepath.Join(dir, "seed.yml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(validJSONSeed), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte(validYAMLSeed), 0o600))

	fromJSON, err := LoadSeed(jsonPath)
	require.NoError(t, err)
	assert.Len(t, fromJSON.Activities, 2)

	fromYAML, err := LoadSeed(yamlPath)
	require.NoError(t, err)
	assert.Len(t, fromYAML.Activities, 1)

	_, err = LoadSeed(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSaveSeed_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"seed.json", "seed.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveSeed(path, Default()))

			loaded, err := LoadSeed(path)
			require.NoError(t, err)
			assert.Equal(t, Default().Activities, loaded.Activities)
		})
	}
}

func TestSaveSeed_RejectsInvalid(t *testing.T) {
	err := SaveSeed(filepath.Join(t.TempDir(), "seed.json"), &Seed{})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}
