// internal/activities/models.go
package activities

import "activity-signup/pkg/registry"

const (
	OperationSignup     = "signup"
	OperationUnregister = "unregister"
)

// Activity is the public view of one registry entry.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Registry maps activity name to activity.
type Registry map[string]Activity

// MessageResponse is returned by successful roster mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

func fromDefinition(def registry.ActivityDefinition) Activity {
	participants := make([]string, len(def.Participants))
	copy(participants, def.Participants)
	return Activity{
		Description:     def.Description,
		Schedule:        def.Schedule,
		MaxParticipants: def.MaxParticipants,
		Participants:    participants,
	}
}

func (a Activity) clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}
