// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"invest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityAccount matches the JSON the identity service returns for each
// changed account. The invitation code is whatever referral code the member
// typed at signup; it is resolved to a local user id here.
type IdentityAccount struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Mobile         string    `json:"mobile"`
	PasswordHash   string    `json:"password_hash"`
	InvitationCode string    `json:"invitation_code,omitempty"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type identityChangesResponse struct {
	Accounts []IdentityAccount `json:"accounts"`
}

// UserSyncWorker provisions ledger users from the identity service. Identity
// owns authentication; this worker owns nothing but the mirror: it creates
// local rows (with a fresh referral code and the resolved referrer) and
// updates profile fields on existing ones. Wallet columns are never written
// by sync.
type UserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewUserSyncWorker(db *gorm.DB, identityServiceBaseURL, endpointPath, serviceToken string) *UserSyncWorker {
	return &UserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      identityServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting User Sync Worker (identity service → users)…")
	go w.run(ctx)
}

func (w *UserSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial user sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ User sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ User Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt in the local users table.
func (w *UserSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM users").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

func (w *UserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid identity service URL %q: %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to identity service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("identity service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response identityChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode identity service response: %w", err)
	}

	if len(response.Accounts) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d account(s) from identity service…", len(response.Accounts))

	var created, updated, errorCount int
	for _, account := range response.Accounts {
		isNew, err := w.upsertAccount(account)
		switch {
		case err != nil:
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert user (email=%q): %v", account.Email, err)
		case isNew:
			created++
		default:
			updated++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d account(s) (%d created, %d updated, %d errors)",
		len(response.Accounts), created, updated, errorCount)
	return nil
}

// upsertAccount creates or refreshes one ledger user. Existing rows only get
// their profile fields touched — wallets, totals, referral code and referrer
// are set once at creation and left alone afterwards.
func (w *UserSyncWorker) upsertAccount(account IdentityAccount) (bool, error) {
	var existing models.User
	err := w.db.First(&existing, "email = ?", account.Email).Error
	if err == nil {
		return false, w.db.Model(&existing).Updates(map[string]interface{}{
			"username": account.Username,
			"mobile":   account.Mobile,
			"password": account.PasswordHash,
			"is_admin": account.IsAdmin,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	user := models.User{
		Username:     account.Username,
		Email:        account.Email,
		Mobile:       account.Mobile,
		Password:     account.PasswordHash,
		ReferralCode: uuid.NewString()[:8],
		IsAdmin:      account.IsAdmin,
	}

	if account.InvitationCode != "" {
		var referrer models.User
		if err := w.db.First(&referrer, "referral_code = ?", account.InvitationCode).Error; err == nil {
			user.ReferredBy = &referrer.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		// unknown invitation codes are ignored — signup still goes through
	}

	return true, w.db.Create(&user).Error
}
