package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"absences/internal/referencedata/models"
	"absences/pkg/domain"
	"absences/pkg/platform/sentinel"
)

// PostgresStore reads reference data and link edges from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed reference-data store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListActive returns active items of the given domains, or of every domain
// when none are given, ordered by domain and sequence number.
func (s *PostgresStore) ListActive(ctx context.Context, domains ...domain.DomainCode) ([]models.ReferenceData, error) {
	names := make([]string, 0, len(domains))
	for _, d := range domains {
		names = append(names, d.String())
	}

	query := `
		SELECT id, domain, code, description, hint_text, sequence_number, active, next_domain
		FROM reference_data
		WHERE active
		  AND (cardinality($1::text[]) = 0 OR domain = ANY($1::text[]))
		ORDER BY domain, sequence_number, code
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("list reference data: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var items []models.ReferenceData
	for rows.Next() {
		item, err := scanReferenceData(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference data: %w", err)
	}
	return items, nil
}

// ListLinks returns every link edge ordered by source and sequence number.
func (s *PostgresStore) ListLinks(ctx context.Context) ([]models.CategorisationLink, error) {
	query := `
		SELECT id, from_domain, from_id, to_domain, to_id, sequence_number
		FROM categorisation_links
		ORDER BY from_id, sequence_number
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categorisation links: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var links []models.CategorisationLink
	for rows.Next() {
		var (
			link             models.CategorisationLink
			id, fromID, toID uuid.UUID
			fromDomain       string
			toDomain         string
		)
		if err := rows.Scan(&id, &fromDomain, &fromID, &toDomain, &toID, &link.SequenceNumber); err != nil {
			return nil, fmt.Errorf("scan categorisation link: %w", err)
		}
		link.ID = domain.LinkID(id)
		link.FromDomain = domain.DomainCode(fromDomain)
		link.FromID = domain.ReferenceDataID(fromID)
		link.ToDomain = domain.DomainCode(toDomain)
		link.ToID = domain.ReferenceDataID(toID)
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categorisation links: %w", err)
	}
	return links, nil
}

// Ping checks database reachability.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func scanReferenceData(rows *sql.Rows) (models.ReferenceData, error) {
	var (
		item       models.ReferenceData
		id         uuid.UUID
		domainName string
		hintText   sql.NullString
		nextDomain sql.NullString
	)
	if err := rows.Scan(&id, &domainName, &item.Code, &item.Description, &hintText,
		&item.SequenceNumber, &item.Active, &nextDomain); err != nil {
		return models.ReferenceData{}, fmt.Errorf("scan reference data: %w", err)
	}
	item.ID = domain.ReferenceDataID(id)
	item.Domain = domain.DomainCode(domainName)
	if hintText.Valid {
		item.HintText = &hintText.String
	}
	if nextDomain.Valid && nextDomain.String != "" {
		next := domain.DomainCode(nextDomain.String)
		item.Next = &next
	}
	return item, nil
}
