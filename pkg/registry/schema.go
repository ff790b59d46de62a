// pkg/registry/schema.go
package registry

// Seed is the document the activity registry is initialized from.
type Seed struct {
	Version    string                        `json:"version,omitempty"`
	Activities map[string]ActivityDefinition `json:"activities"`
}

// ActivityDefinition describes one activity and its initial roster.
type ActivityDefinition struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// seedSchema is the JSON schema every seed file must satisfy.
const seedSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["activities"],
  "properties": {
    "version": {"type": "string"},
    "activities": {
      "type": "object",
      "minProperties": 1,
      "propertyNames": {"minLength": 1},
      "additionalProperties": {
        "type": "object",
        "required": ["description", "schedule", "max_participants"],
        "additionalProperties": false,
        "properties": {
          "description": {"type": "string"},
          "schedule": {"type": "string"},
          "max_participants": {"type": "integer", "minimum": 0},
          "participants": {
            "type": "array",
            "items": {"type": "string", "minLength": 1},
            "uniqueItems": true
          }
        }
      }
    }
  },
  "additionalProperties": false
}`
