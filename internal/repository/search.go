package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediconnect/mediconnect/internal/model"
)

// The inner join drops doctors whose hospital is absent or deleted. That
// differs from ListDoctors on purpose.
const searchProvidersQuery = `
	SELECT d.id AS doctor_id, d.name AS doctor_name, d.specialization, d.experience,
	       d.contact, d.email,
	       h.id AS hospital_id, h.name AS hospital_name, h.address AS hospital_address
	FROM doctors AS d
	JOIN hospitals AS h ON d.hospital_id = h.id
	WHERE LOWER(d.name) LIKE LOWER(?) ESCAPE '!'
	   OR LOWER(d.specialization) LIKE LOWER(?) ESCAPE '!'
	   OR LOWER(h.name) LIKE LOWER(?) ESCAPE '!'
	ORDER BY d.id ASC
`

// likeEscaper makes LIKE metacharacters in a keyword match literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern builds a LIKE pattern matching any value that contains
// keyword. Case folding happens in SQL so both sides use the same LOWER.
func ContainsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// SearchProviders returns doctors whose name, specialization or hospital
// name contains keyword, ignoring case. The caller trims the keyword.
func (r *Repository) SearchProviders(ctx context.Context, keyword string) ([]model.ProviderMatch, error) {
	pattern := ContainsPattern(keyword)

	var rows []providerMatchRow
	if err := r.db.NewRaw(searchProvidersQuery, pattern, pattern, pattern).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	matches := make([]model.ProviderMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, providerMatchRowToModel(row))
	}
	return matches, nil
}
