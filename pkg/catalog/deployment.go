package catalog

import "time"

// Deployment records where an application component runs in a given
// environment, with its last-known health.
type Deployment struct {
	ID            int64 `json:"id" bson:"id"`
	ApplicationID int64 `json:"application_id" bson:"application_id"`

	Environment string `json:"environment" bson:"environment"`
	Component   string `json:"component,omitempty" bson:"component,omitempty"`

	ServerName string `json:"server_name,omitempty" bson:"server_name,omitempty"`
	ServerIP   string `json:"server_ip,omitempty" bson:"server_ip,omitempty"`
	Port       int    `json:"port,omitempty" bson:"port,omitempty"`

	URL            string `json:"url,omitempty" bson:"url,omitempty"`
	HealthCheckURL string `json:"health_check_url,omitempty" bson:"health_check_url,omitempty"`

	IsActive     bool   `json:"is_active" bson:"is_active"`
	HealthStatus string `json:"health_status,omitempty" bson:"health_status,omitempty"`
	Notes        string `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
