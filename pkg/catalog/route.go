package catalog

import "time"

// Route is a documented API endpoint of an application. Routes are pure
// catalog metadata; the graph only surfaces their count per node.
type Route struct {
	ID            int64  `json:"id" bson:"id"`
	ApplicationID int64  `json:"application_id" bson:"application_id"`
	Path          string `json:"path" bson:"path"`
	Method        string `json:"method" bson:"method"`

	Summary     string `json:"summary,omitempty" bson:"summary,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	RequiresAuth  bool     `json:"requires_auth" bson:"requires_auth"`
	RequiredRoles []string `json:"required_roles,omitempty" bson:"required_roles,omitempty"`

	Tags     []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Category string   `json:"category,omitempty" bson:"category,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
