package auth

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/intent"
)

// Engine merges a pending onboarding intent onto a freshly created account.
//
// It runs at most once per account: the only caller is the account-created
// hook, which fires once per email by the uniqueness constraint, and a
// defensive role check skips accounts that were already provisioned.
type Engine struct {
	db      *gorm.DB
	intents *intent.Store
}

// NewEngine creates a merge engine.
func NewEngine(db *gorm.DB, intents *intent.Store) *Engine {
	return &Engine{db: db, intents: intents}
}

// AccountCreated applies the pending intent referenced by the cookie value
// to the new account. The cookie value is normally a correlation token into
// the intent store; legacy clients may still send the inline URL-encoded
// JSON intent, which is accepted as a fallback.
//
// An absent intent is not an error: the account keeps its defaults. A
// storage failure is returned to the caller but must never fail the sign-in.
func (e *Engine) AccountCreated(acc *models.Account, cookieValue string) error {
	in, err := e.intents.Consume(cookieValue)
	if err != nil {
		return fmt.Errorf("failed to consume intent: %w", err)
	}

	if in == nil {
		in = intent.DecodeCookie(cookieValue)
	}

	if in == nil {
		log.Debug().Uint64("account_id", acc.ID).Msg("no pending intent, account keeps defaults")
		return nil
	}

	// idempotence guard: never re-apply an intent to a provisioned account
	if acc.Role != models.RoleStudent {
		log.Info().
			Uint64("account_id", acc.ID).
			Str("role", string(acc.Role)).
			Msg("merge skipped, account already has a non-default role")

		return nil
	}

	// single conditional row write; the role predicate closes the race with
	// any concurrent writer
	result := e.db.Model(&models.Account{}).
		Where("id = ? AND role = ?", acc.ID, models.RoleStudent).
		Updates(map[string]interface{}{
			"role":     in.Role,
			"phone":    in.Phone,
			"id_type":  in.IDType,
			"id_value": in.IDValue,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to apply intent: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		log.Info().Uint64("account_id", acc.ID).Msg("merge skipped, account changed concurrently")
		return nil
	}

	acc.Role = in.Role
	acc.Phone = in.Phone
	acc.IDType = in.IDType
	acc.IDValue = in.IDValue

	log.Info().
		Uint64("account_id", acc.ID).
		Str("role", string(in.Role)).
		Msg("pending intent merged onto new account")

	return nil
}
