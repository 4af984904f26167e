package catalog

import (
	"time"

	"github.com/sysmap/sam/pkg/errors"
)

// Application is a cataloged internal service, the vertex type of the
// dependency graph. ID and Code are both unique; Code is the short
// human-facing key ("ULM", "SAM") used in URLs and path results.
type Application struct {
	ID          int64     `json:"id" bson:"id"`
	Code        string    `json:"code" bson:"code"`
	Name        string    `json:"name" bson:"name"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Purpose     string    `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Type        AppType   `json:"type" bson:"type"`
	Status      AppStatus `json:"status" bson:"status"`

	// Category groups applications in stats; empty means uncategorized.
	Category   string `json:"category,omitempty" bson:"category,omitempty"`
	OwnerTeam  string `json:"owner_team,omitempty" bson:"owner_team,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty" bson:"owner_email,omitempty"`
	Version    string `json:"version,omitempty" bson:"version,omitempty"`

	FrontendURL string `json:"frontend_url,omitempty" bson:"frontend_url,omitempty"`
	BackendURL  string `json:"backend_url,omitempty" bson:"backend_url,omitempty"`
	DocsURL     string `json:"docs_url,omitempty" bson:"docs_url,omitempty"`
	RepoURL     string `json:"repo_url,omitempty" bson:"repo_url,omitempty"`

	TechStack []string `json:"tech_stack,omitempty" bson:"tech_stack,omitempty"`
	Tags      []string `json:"tags,omitempty" bson:"tags,omitempty"`

	// Presentation hints passed through to clients untouched.
	Icon  string `json:"icon,omitempty" bson:"icon,omitempty"`
	Color string `json:"color,omitempty" bson:"color,omitempty"`

	// DisplayOrder sorts listings; nil sorts after every explicit order.
	DisplayOrder *int `json:"display_order,omitempty" bson:"display_order,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the fields a caller controls on create/update.
// Returns an INVALID_INPUT error naming the first offending field.
func (a *Application) Validate() error {
	if err := errors.ValidateApplicationCode(a.Code); err != nil {
		return err
	}
	if err := errors.ValidateDisplayName(a.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid name")
	}
	if err := errors.ValidateDisplayName(a.DisplayName); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid display_name")
	}
	if !a.Type.Known() {
		return errors.New(errors.ErrCodeInvalidType, "unknown application type: %q", a.Type)
	}
	if !a.Status.Known() {
		return errors.New(errors.ErrCodeInvalidStatus, "unknown application status: %q", a.Status)
	}
	if err := errors.ValidateHexColor(a.Color); err != nil {
		return err
	}
	if err := errors.ValidateEmail(a.OwnerEmail); err != nil {
		return err
	}
	for _, u := range []string{a.FrontendURL, a.BackendURL, a.DocsURL, a.RepoURL} {
		if err := errors.ValidateURL(u); err != nil {
			return err
		}
	}
	return nil
}

// CategoryOrUncategorized returns the category bucket this application
// belongs to in stats breakdowns. Applications without a category land in
// the "uncategorized" bucket rather than being dropped.
func (a *Application) CategoryOrUncategorized() string {
	if a.Category == "" {
		return Uncategorized
	}
	return a.Category
}

// Uncategorized is the stats bucket for applications without a category.
const Uncategorized = "uncategorized"
