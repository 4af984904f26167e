package catalog

import (
	"time"

	"github.com/sysmap/sam/pkg/errors"
)

// Dependency is a directed requirement edge from a consumer application to
// either another application (ProviderID set) or an external resource
// (ProviderID nil). External dependencies never enter graph traversal but
// still count toward the consumer's dependency total.
type Dependency struct {
	ID         int64  `json:"id" bson:"id"`
	ConsumerID int64  `json:"consumer_id" bson:"consumer_id"`
	ProviderID *int64 `json:"provider_id,omitempty" bson:"provider_id,omitempty"`

	Name        string         `json:"name" bson:"name"`
	Type        DependencyType `json:"type" bson:"type"`
	Criticality Criticality    `json:"criticality" bson:"criticality"`

	Description       string `json:"description,omitempty" bson:"description,omitempty"`
	Reason            string `json:"reason,omitempty" bson:"reason,omitempty"`
	VersionConstraint string `json:"version_constraint,omitempty" bson:"version_constraint,omitempty"`

	// External resource pointers, only meaningful when ProviderID is nil.
	ExternalURL  string `json:"external_url,omitempty" bson:"external_url,omitempty"`
	ExternalDocs string `json:"external_docs,omitempty" bson:"external_docs,omitempty"`

	Notes string `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsExternal reports whether this dependency points at an external resource
// rather than a cataloged application.
func (d *Dependency) IsExternal() bool { return d.ProviderID == nil }

// Validate checks the fields a caller controls on create/update.
// Referential checks (consumer and provider existing) are the store's and
// the graph builder's job; Validate only covers record-local rules.
func (d *Dependency) Validate() error {
	if err := errors.ValidateDisplayName(d.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid dependency name")
	}
	if d.ConsumerID <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "consumer_id is required")
	}
	if d.ProviderID != nil && *d.ProviderID <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "provider_id must be a valid application id or omitted")
	}
	if !d.Type.Known() {
		return errors.New(errors.ErrCodeInvalidType, "unknown dependency type: %q", d.Type)
	}
	if !d.Criticality.Known() {
		return errors.New(errors.ErrCodeInvalidCriticality, "unknown criticality: %q", d.Criticality)
	}
	return nil
}
