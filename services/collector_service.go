package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ecoSparkAPI/internal/types/collector"
)

// Verified kabadiwala/collector directory. Curated by hand for now; a
// nomination that checks out gets promoted into this list.
var allCollectors = []collector.Collector{
	{Name: "GreenScrap Delhi", City: "Delhi", Phone: "9999988888", Verified: true},
	{Name: "EcoCycle Mumbai", City: "Mumbai", Phone: "9898989898", Verified: false},
	{Name: "RecycleHub Bangalore", City: "Bangalore", Phone: "9777799999", Verified: true},
	{Name: "GreenTech Chennai", City: "Chennai", Phone: "9666699999", Verified: true},
	{Name: "EcoCollect Pune", City: "Pune", Phone: "9555599999", Verified: false},
	{Name: "WasteWise Hyderabad", City: "Hyderabad", Phone: "9444499999", Verified: true},
}

type CollectorService struct {
	db Pool
}

func NewCollectorService(db Pool) *CollectorService {
	return &CollectorService{db: db}
}

// Directory returns collectors matching the filters plus the city list
// for the filter dropdown.
func (s *CollectorService) Directory(city string, verifiedOnly bool) *collector.DirectoryResponse {
	filtered := make([]collector.Collector, 0, len(allCollectors))
	citySet := make(map[string]bool)

	for _, c := range allCollectors {
		citySet[c.City] = true
		if city != "" && !strings.EqualFold(c.City, city) {
			continue
		}
		if verifiedOnly && !c.Verified {
			continue
		}
		filtered = append(filtered, c)
	}

	cities := make([]string, 0, len(citySet))
	for c := range citySet {
		cities = append(cities, c)
	}
	sort.Strings(cities)

	return &collector.DirectoryResponse{Collectors: filtered, Cities: cities}
}

// Nominate records a collector nomination for manual review.
func (s *CollectorService) Nominate(ctx context.Context, req *collector.NominateRequest) (*collector.Nomination, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.City) == "" {
		return nil, fmt.Errorf("nominee name and city are required")
	}

	n := &collector.Nomination{
		ID:    uuid.New().String(),
		Name:  strings.TrimSpace(req.Name),
		City:  strings.TrimSpace(req.City),
		Phone: strings.TrimSpace(req.Phone),
	}

	query := `
	INSERT INTO collector_nominations (id, name, city, phone)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query, n.ID, n.Name, n.City, n.Phone).Scan(&n.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to save nomination: %w", err)
	}

	return n, nil
}
