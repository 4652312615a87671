package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecoSparkAPI/internal/types/pickup"
)

type PickupService struct {
	db Pool
}

func NewPickupService(db Pool) *PickupService {
	return &PickupService{db: db}
}

// CreatePickup validates and stores a pickup or community drive request.
func (s *PickupService) CreatePickup(ctx context.Context, req *pickup.CreatePickupRequest) (*pickup.Pickup, error) {
	for field, value := range map[string]string{
		"name":        req.Name,
		"email":       req.Email,
		"phone":       req.Phone,
		"address":     req.Address,
		"waste_type":  req.WasteType,
		"pickup_date": req.PickupDate,
		"pickup_time": req.PickupTime,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("field %s is required", field)
		}
	}

	driveType := pickup.DriveType(req.DriveType)
	if !driveType.Valid() {
		return nil, fmt.Errorf("invalid drive_type %q", req.DriveType)
	}

	date, err := time.Parse("2006-01-02", req.PickupDate)
	if err != nil {
		return nil, fmt.Errorf("invalid pickup_date: %w", err)
	}
	if _, err := time.Parse("15:04", req.PickupTime); err != nil {
		return nil, fmt.Errorf("invalid pickup_time: %w", err)
	}

	p := &pickup.Pickup{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		WasteType:  strings.TrimSpace(req.WasteType),
		DriveType:  driveType,
		PickupDate: date,
		PickupTime: req.PickupTime,
	}

	query := `
	INSERT INTO pickups (id, name, email, phone, address, waste_type, drive_type, pickup_date, pickup_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at
	`

	err = s.db.QueryRow(
		ctx,
		query,
		p.ID,
		p.Name,
		p.Email,
		p.Phone,
		p.Address,
		p.WasteType,
		p.DriveType,
		p.PickupDate,
		p.PickupTime,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create pickup: %w", err)
	}

	return p, nil
}

// ListPickups returns recent pickup requests, newest first.
func (s *PickupService) ListPickups(ctx context.Context, limit int) ([]pickup.Pickup, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
	SELECT id, name, email, phone, address, waste_type, drive_type, pickup_date, pickup_time::text, created_at
	FROM pickups
	ORDER BY created_at DESC
	LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickups: %w", err)
	}
	defer rows.Close()

	var pickups []pickup.Pickup
	for rows.Next() {
		var p pickup.Pickup
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.WasteType, &p.DriveType, &p.PickupDate, &p.PickupTime, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pickup: %w", err)
		}
		pickups = append(pickups, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pickups: %w", err)
	}

	return pickups, nil
}
