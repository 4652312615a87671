package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ecoSparkAPI/internal/types/credit"
	"ecoSparkAPI/internal/types/device"
	"ecoSparkAPI/utils"
)

// ErrDeviceNotFound is returned when no device matches the given model.
var ErrDeviceNotFound = errors.New("device model not found")

type CreditService struct {
	db Pool
}

func NewCreditService(db Pool) *CreditService {
	return &CreditService{db: db}
}

// DeviceByModel looks a device up by model name, case-insensitively.
func (s *CreditService) DeviceByModel(ctx context.Context, modelName string) (*device.Device, error) {
	query := `
	SELECT id, model_name, metal_value
	FROM devices
	WHERE LOWER(model_name) = LOWER($1)
	`

	d := &device.Device{}
	err := s.db.QueryRow(ctx, query, modelName).Scan(&d.ID, &d.ModelName, &d.MetalValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return d, nil
}

func (s *CreditService) CreateDevice(ctx context.Context, req *device.CreateDeviceRequest) (*device.Device, error) {
	d := &device.Device{
		ID:         uuid.New().String(),
		ModelName:  req.ModelName,
		MetalValue: req.MetalValue,
	}

	query := `INSERT INTO devices (id, model_name, metal_value) VALUES ($1, $2, $3)`
	if _, err := s.db.Exec(ctx, query, d.ID, d.ModelName, d.MetalValue); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("device model already exists")
		}
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return d, nil
}

// Estimate resolves a device model to its points value and, for an
// authenticated caller, credits the points to the balance. Anonymous
// callers see the computed points but nothing is persisted.
func (s *CreditService) Estimate(ctx context.Context, clerkID string, modelName string) (*credit.EstimateResult, error) {
	d, err := s.DeviceByModel(ctx, modelName)
	if err != nil {
		return nil, err
	}

	result := &credit.EstimateResult{
		ModelName:     d.ModelName,
		MetalValue:    d.MetalValue,
		PointsAwarded: utils.DevicePoints(d.MetalValue),
	}

	if clerkID == "" {
		return result, nil
	}

	balance, err := s.AwardPoints(ctx, clerkID, result.PointsAwarded)
	if err != nil {
		return nil, err
	}
	result.Saved = true
	result.Balance = &balance

	return result, nil
}

// AwardPoints atomically adds points to a user's balance, creating the
// credit row on first award. Returns the new balance.
func (s *CreditService) AwardPoints(ctx context.Context, clerkID string, points int) (int, error) {
	query := `
	INSERT INTO user_credits (user_id, points)
	SELECT id, $2 FROM users WHERE clerk_id = $1
	ON CONFLICT (user_id) DO UPDATE SET points = user_credits.points + $2
	RETURNING points
	`

	var balance int
	if err := s.db.QueryRow(ctx, query, clerkID, points).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user not found")
		}
		return 0, fmt.Errorf("failed to award points: %w", err)
	}

	return balance, nil
}

// Balance returns the current points balance, zero when no credit row
// exists yet.
func (s *CreditService) Balance(ctx context.Context, clerkID string) (int, error) {
	query := `
	SELECT COALESCE(uc.points, 0)
	FROM users u
	LEFT JOIN user_credits uc ON uc.user_id = u.id
	WHERE u.clerk_id = $1
	`

	var balance int
	if err := s.db.QueryRow(ctx, query, clerkID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user not found")
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}
