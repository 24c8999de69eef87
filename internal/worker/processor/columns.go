package processor

import (
	"strings"

	"veoworker/internal/pkg/errors"
)

// Header names, matched exactly against row 1.
const (
	ColPrompt      = "Prompt"
	ColStatus      = "Statut"
	ColFormat      = "Format"
	ColType        = "Type"
	ColURL         = "URL Image"
	ColGeneratedAt = "Date génération"
)

// Status and type values.
const (
	StatusPending         = "en cours vidéo"
	StatusGenerated       = "généré"
	StatusGenerationError = "erreur génération"
	StatusErrorPrefix     = "erreur: "
	TypeVideo             = "video"

	DefaultFormat = "9:16"
)

var requiredColumns = []string{ColPrompt, ColStatus, ColFormat, ColType, ColURL}

// Columns holds 0-based header positions. GeneratedAt is -1 when the
// optional date column is absent.
type Columns struct {
	Prompt      int
	Status      int
	Format      int
	Type        int
	URL         int
	GeneratedAt int
}

// ResolveColumns locates the required headers. The first header with a
// matching name wins; a missing required header is a SCHEMA_ERROR.
func ResolveColumns(header []string) (*Columns, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, errors.MissingColumn(name)
		}
	}

	c := &Columns{
		Prompt:      idx[ColPrompt],
		Status:      idx[ColStatus],
		Format:      idx[ColFormat],
		Type:        idx[ColType],
		URL:         idx[ColURL],
		GeneratedAt: -1,
	}
	if i, ok := idx[ColGeneratedAt]; ok {
		c.GeneratedAt = i
	}
	return c, nil
}

// fits reports whether row reaches past the prompt, status and type cells.
func (c *Columns) fits(row []string) bool {
	return len(row) > max(c.Prompt, c.Status, c.Type)
}

// Eligible is the pending-video predicate.
func (c *Columns) Eligible(row []string) bool {
	if !c.fits(row) {
		return false
	}
	return strings.ToLower(row[c.Status]) == StatusPending &&
		strings.ToLower(row[c.Type]) == TypeVideo
}
