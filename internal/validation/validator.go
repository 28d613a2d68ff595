// Package validation checks parsed components for problems beyond what
// the parser enforces: identifier conventions, license presence, URL
// shapes, screenshot and release consistency. Validation never blocks a
// pool refresh; it exists for authors and distributors checking their
// metadata before shipping it.
//
// # Usage Example
//
//	validator := validation.New()
//	result := validator.ValidateComponent(component)
//	if !result.Valid {
//	    for _, err := range result.Errors {
//	        fmt.Printf("%s: %s\n", err.Field, err.Message)
//	    }
//	}
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"freedesktop.org/appstream/models"
)

// Validator checks components against the metadata authoring rules.
type Validator struct {
	// structValidator enforces the `validate` struct tags on models.
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with field-level
// details.
type ValidationError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation
// operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`
}

// New creates a Validator ready to check components.
func New() *Validator {
	return &Validator{
		structValidator: validator.New(),
	}
}

// ValidateComponent runs all checks against one component.
func (v *Validator) ValidateComponent(c *models.Component) *ValidationResult {
	var errors []ValidationError

	if err := v.structValidator.Struct(c); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				errors = append(errors, ValidationError{
					Field:   strings.ToLower(fe.Field()),
					Message: fmt.Sprintf("failed constraint %q", fe.Tag()),
					Value:   fe.Value(),
				})
			}
		}
	}

	errors = append(errors, v.validateIdentity(c)...)
	errors = append(errors, v.validateText(c)...)
	errors = append(errors, v.validateURLs(c)...)
	errors = append(errors, v.validateReleases(c)...)
	errors = append(errors, v.validateScreenshots(c)...)
	errors = append(errors, v.validateRelations(c)...)

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// validateIdentity checks the id and kind conventions.
func (v *Validator) validateIdentity(c *models.Component) []ValidationError {
	var errors []ValidationError

	if c.Kind == models.ComponentKindUnknown {
		errors = append(errors, ValidationError{
			Field:   "kind",
			Message: "Component type is unknown",
		})
	}

	id := strings.TrimSpace(c.ID)
	switch {
	case id == "":
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "ID is required",
		})
	case strings.Count(id, ".") < 2:
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "ID should be in reverse-DNS form (e.g. org.example.App)",
			Value:   id,
		})
	case strings.ContainsAny(id, " \t"):
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "ID must not contain whitespace",
			Value:   id,
		})
	}

	if c.Kind == models.ComponentKindAddon && len(c.Extends) == 0 {
		errors = append(errors, ValidationError{
			Field:   "extends",
			Message: "Addon components must name at least one extended component",
		})
	}

	return errors
}

// validateText checks the translatable fields and the metadata license.
func (v *Validator) validateText(c *models.Component) []ValidationError {
	var errors []ValidationError

	if c.IsMergeComponent() {
		// Merge components inject partial data; name and summary rules
		// do not apply.
		return nil
	}

	if c.Name.IsEmpty() {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "Name is required",
		})
	}
	if c.Summary.IsEmpty() {
		errors = append(errors, ValidationError{
			Field:   "summary",
			Message: "Summary is required",
		})
	}
	for locale, summary := range c.Summary {
		if strings.Contains(summary, "\n") {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("summary[%s]", locale),
				Message: "Summary must be a single line",
				Value:   summary,
			})
		}
		if strings.HasSuffix(strings.TrimSpace(summary), ".") {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("summary[%s]", locale),
				Message: "Summary should not end with a full stop",
				Value:   summary,
			})
		}
	}
	if c.MetadataLicense == "" && c.Source == models.SourceKindMetainfo {
		errors = append(errors, ValidationError{
			Field:   "metadata_license",
			Message: "Metainfo files must declare a metadata license",
		})
	}

	return errors
}

// validateURLs checks that every url parses and uses http(s).
func (v *Validator) validateURLs(c *models.Component) []ValidationError {
	var errors []ValidationError
	for kind, raw := range c.URLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("urls[%s]", kind),
				Message: "URL must be a valid http or https address",
				Value:   raw,
			})
		}
	}
	return errors
}

// validateReleases checks version presence and ordering.
func (v *Validator) validateReleases(c *models.Component) []ValidationError {
	var errors []ValidationError
	for i, rel := range c.Releases {
		if rel.Version == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("releases[%d].version", i),
				Message: "Release version is required",
			})
		}
	}
	// Newest-first ordering is a convention readers rely on.
	for i := 1; i < len(c.Releases); i++ {
		a, b := c.Releases[i-1], c.Releases[i]
		if a.Version != "" && b.Version != "" && models.CompareVersions(a.Version, b.Version) < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("releases[%d]", i),
				Message: "Releases should be ordered newest first",
				Value:   b.Version,
			})
		}
	}
	return errors
}

// validateScreenshots checks image presence and the default marker.
func (v *Validator) validateScreenshots(c *models.Component) []ValidationError {
	var errors []ValidationError
	defaults := 0
	for i, scr := range c.Screenshots {
		if scr.Default {
			defaults++
		}
		if len(scr.Images) == 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("screenshots[%d]", i),
				Message: "Screenshot has no images",
			})
		}
	}
	if defaults > 1 {
		errors = append(errors, ValidationError{
			Field:   "screenshots",
			Message: "At most one screenshot may be marked as default",
			Value:   defaults,
		})
	}
	return errors
}

// validateRelations checks that versioned relations carry a predicate.
func (v *Validator) validateRelations(c *models.Component) []ValidationError {
	var errors []ValidationError
	for i, rel := range c.Relations {
		if rel.Value == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("relations[%d]", i),
				Message: "Relation item has no value",
			})
		}
		if rel.Version != "" && rel.Compare == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("relations[%d].version", i),
				Message: "Versioned relation needs a comparison predicate",
				Value:   rel.Version,
			})
		}
	}
	return errors
}
