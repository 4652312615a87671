package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ecoSparkAPI/internal/types/challenge"
	"ecoSparkAPI/utils"
)

// ErrUnknownChallenge marks a well-formed key whose challenge id does
// not exist. Like a malformed key, it can never become valid.
var ErrUnknownChallenge = errors.New("unknown challenge")

// errNoUserRow means the Clerk identity has no users row yet, which
// happens between login and the first webhook/sync delivery.
var errNoUserRow = errors.New("no user row for clerk id")

type ChallengeService struct {
	db Pool
}

func NewChallengeService(db Pool) *ChallengeService {
	return &ChallengeService{db: db}
}

func (s *ChallengeService) userIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, errNoUserRow
		}
		return uuid.Nil, fmt.Errorf("user lookup failed for clerk id: %w", err)
	}
	return userID, nil
}

// ListActive returns the active challenges in display order.
func (s *ChallengeService) ListActive(ctx context.Context) ([]challenge.Challenge, error) {
	query := `
	SELECT id, title, co2_saved, is_active, display_order, created_at
	FROM challenges
	WHERE is_active = TRUE
	ORDER BY display_order, created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []challenge.Challenge
	for rows.Next() {
		var c challenge.Challenge
		if err := rows.Scan(&c.ID, &c.Title, &c.CO2Saved, &c.IsActive, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read challenges: %w", err)
	}

	return challenges, nil
}

// CompletedKeys returns the durable completion set for a user as
// session-format "ch{id}" keys, so both lookup modes speak one language.
func (s *ChallengeService) CompletedKeys(ctx context.Context, clerkID string) ([]string, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		// A logged-in user whose row has not been synced yet simply has
		// no completions; the sync endpoint will create the row.
		if errors.Is(err, errNoUserRow) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := s.db.Query(ctx, `SELECT challenge_id FROM challenge_completions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		keys = append(keys, challenge.Key(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read completions: %w", err)
	}

	return keys, nil
}

// GetBoard assembles the challenge board for either identity mode. For an
// authenticated user pass clerkID; for an anonymous visitor pass the
// session's completion keys.
func (s *ChallengeService) GetBoard(ctx context.Context, clerkID string, sessionKeys []string) (*challenge.Board, error) {
	challenges, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	completedKeys := sessionKeys
	if clerkID != "" {
		completedKeys, err = s.CompletedKeys(ctx, clerkID)
		if err != nil {
			return nil, err
		}
	}

	completed := make(map[string]bool, len(completedKeys))
	for _, k := range completedKeys {
		completed[k] = true
	}

	board := &challenge.Board{
		Challenges: make([]challenge.View, 0, len(challenges)),
		Completed:  completedKeys,
	}
	if board.Completed == nil {
		board.Completed = []string{}
	}

	for _, c := range challenges {
		key := challenge.Key(c.ID)
		view := challenge.View{
			Key:       key,
			DBID:      c.ID,
			Title:     c.Title,
			CO2Saved:  c.CO2Saved,
			Completed: completed[key],
		}
		if view.Completed {
			board.TotalCO2 += c.CO2Saved
		}
		board.Challenges = append(board.Challenges, view)
	}

	if len(challenges) > 0 {
		board.Progress = len(completedKeys) * 100 / len(challenges)
	}
	board.Badge, board.BadgeName = utils.Badge(len(completedKeys))

	return board, nil
}

// RecordCompletion creates the completion row for (user, challenge) if it
// does not exist yet. A duplicate insert is a no-op success; the unique
// constraint keeps concurrent attempts from ever producing two rows.
// Returns true when a row was actually created.
func (s *ChallengeService) RecordCompletion(ctx context.Context, clerkID string, key string) (bool, error) {
	challengeID, err := challenge.ParseKey(key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnknownChallenge, err)
	}

	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return false, err
	}

	return s.createCompletion(ctx, userID, challengeID)
}

func (s *ChallengeService) createCompletion(ctx context.Context, userID uuid.UUID, challengeID int) (bool, error) {
	query := `
	INSERT INTO challenge_completions (id, user_id, challenge_id)
	VALUES ($1, $2, $3)
	`

	_, err := s.db.Exec(ctx, query, uuid.New(), userID, challengeID)
	if err != nil {
		if isUniqueViolation(err) {
			// Already completed, treat as success.
			return false, nil
		}
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%w: id %d", ErrUnknownChallenge, challengeID)
		}
		return false, fmt.Errorf("failed to record completion: %w", err)
	}

	return true, nil
}

// IsCompleted reports whether the user durably completed the challenge.
// The anonymous-mode counterpart is session.Store.Contains; both answer
// from the same fact as RecordCompletion's duplicate detection.
func (s *ChallengeService) IsCompleted(ctx context.Context, clerkID string, challengeID int) (bool, error) {
	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, errNoUserRow) {
			return false, nil
		}
		return false, err
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM challenge_completions WHERE user_id = $1 AND challenge_id = $2)`
	if err := s.db.QueryRow(ctx, query, userID, challengeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}

	return exists, nil
}

// MergeSessionCompletions reconciles an anonymous completion set into the
// user's durable records. Per key: malformed or unknown-challenge keys are
// dropped for good, duplicates are no-op successes, and a transient write
// failure keeps that single key for a later retry without blocking the
// rest of the set. Once the user is resolved the pass itself never fails;
// a merge hiccup must not fail the login it rides on.
func (s *ChallengeService) MergeSessionCompletions(ctx context.Context, clerkID string, sessionKeys []string) (*challenge.MergeResult, error) {
	result := &challenge.MergeResult{}
	if len(sessionKeys) == 0 {
		return result, nil
	}

	userID, err := s.userIDByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	for _, key := range sessionKeys {
		challengeID, err := challenge.ParseKey(key)
		if err != nil {
			log.Printf("ChallengeService: dropping malformed session key %q: %v", key, err)
			result.Dropped = append(result.Dropped, key)
			continue
		}

		created, err := s.createCompletion(ctx, userID, challengeID)
		if err != nil {
			if errors.Is(err, ErrUnknownChallenge) {
				log.Printf("ChallengeService: dropping session key %q: %v", key, err)
				result.Dropped = append(result.Dropped, key)
				continue
			}
			// Transient storage failure: keep the key so the next
			// reconciliation opportunity retries it.
			log.Printf("ChallengeService: retaining session key %q after write failure: %v", key, err)
			result.Retained = append(result.Retained, key)
			continue
		}
		if created {
			result.MergedCount++
		}
	}

	return result, nil
}
