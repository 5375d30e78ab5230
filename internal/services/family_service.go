package services

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
)

const (
	familyCodeLength   = 8
	familyCodeTTL      = 7 * 24 * time.Hour
	familyCodeAttempts = 5
)

// FamilyService issues and redeems the short codes that grant a parent
// read-only access to one athlete.
type FamilyService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewFamilyService constructs a FamilyService.
func NewFamilyService(db *gorm.DB) (*FamilyService, error) {
	if db == nil {
		return nil, errors.New("family service: db is required")
	}
	return &FamilyService{db: db, now: time.Now}, nil
}

// GenerateCode creates a new single-use family code for the athlete. The code
// is random; on the rare unique-index collision the insert is retried with a
// fresh code up to familyCodeAttempts times.
func (s *FamilyService) GenerateCode(ctx context.Context, athleteID string) (*models.FamilyLink, error) {
	var lastErr error
	for attempt := 0; attempt < familyCodeAttempts; attempt++ {
		code, err := randomFamilyCode()
		if err != nil {
			return nil, fmt.Errorf("family service: generate code: %w", err)
		}

		link := models.FamilyLink{
			AthleteID: athleteID,
			Code:      code,
			ExpiresAt: s.now().UTC().Add(familyCodeTTL),
		}
		if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("family service: create link: %w", err)
		}
		return &link, nil
	}

	return nil, fmt.Errorf("family service: exhausted %d code attempts: %w", familyCodeAttempts, lastErr)
}

// Redeem binds the calling parent account to the athlete behind the code.
// Expired or already-used codes are rejected.
func (s *FamilyService) Redeem(ctx context.Context, parentID, code string) (*models.FamilyLink, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.NewBadRequest("family code is required")
	}

	var link models.FamilyLink
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("family service: load link: %w", err)
		}

		now := s.now().UTC()
		if !link.Redeemable(now) {
			return apperrors.ErrFamilyCodeExpired
		}

		// The guard on redeemed_by makes redemption first-come single-use
		// even under concurrent attempts.
		result := tx.Model(&models.FamilyLink{}).
			Where("id = ? AND redeemed_by IS NULL", link.ID).
			Updates(map[string]any{"redeemed_by": parentID, "redeemed_at": now})
		if result.Error != nil {
			return fmt.Errorf("family service: redeem: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrFamilyCodeExpired
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND role = ?", parentID, models.RoleParent).
			Update("athlete_id", link.AthleteID).Error; err != nil {
			return fmt.Errorf("family service: bind parent: %w", err)
		}

		link.RedeemedBy = &parentID
		link.RedeemedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// randomFamilyCode returns an 8-character uppercase base32 code.
func randomFamilyCode() (string, error) {
	buf := make([]byte, 5) // 5 bytes -> 8 base32 characters
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// isUniqueViolation matches driver-specific unique constraint errors that
// gorm does not normalise to ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
