package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dotatracker/dota-tracker-be/internal/hashing"
	"github.com/dotatracker/dota-tracker-be/internal/models"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrInvalidInput       = errors.New("missing required fields")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAnswerMismatch     = errors.New("wrong answer to the secret question")
)

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	Register(email, password, username string) (models.Account, error)
	Authenticate(email, password string) (models.Account, error)
	Delete(email string) error
	SetRecoveryQuestion(email, question, answer string) error
	VerifyRecoveryAnswer(email, answer string) error
	ResetPassword(email, newPassword string) error
	LinkGameAccount(email, dotaID string) error
	GameAccountID(email string) (string, error)
}

// AccountService provides business logic for credential and account-recovery
// management over a single accounts table.
type AccountService struct {
	db     *sql.DB
	hasher hashing.Hasher
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB, hasher hashing.Hasher) *AccountService {
	return &AccountService{db: db, hasher: hasher}
}

// Register creates a new account, hashing the password. When no username is
// supplied the local part of the email is used. A duplicate email surfaces as
// ErrDuplicateEmail via the unique constraint on insert.
func (s *AccountService) Register(email, password, username string) (models.Account, error) {
	if email == "" || password == "" {
		return models.Account{}, ErrInvalidInput
	}
	if strings.TrimSpace(username) == "" {
		username = email
		if at := strings.Index(email, "@"); at >= 0 {
			username = email[:at]
		}
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	stmt, err := s.db.Prepare("INSERT INTO accounts(id, email, username, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.Account{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(account.ID, account.Email, account.Username, account.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}

	// Return account without password hash
	account.PasswordHash = ""
	return account, nil
}

// Authenticate verifies an account's credentials. An unknown email and a
// wrong password both yield ErrInvalidCredentials so callers cannot
// distinguish the two.
func (s *AccountService) Authenticate(email, password string) (models.Account, error) {
	if email == "" || password == "" {
		return models.Account{}, ErrInvalidInput
	}

	var account models.Account
	row := s.db.QueryRow("SELECT id, email, username, password_hash FROM accounts WHERE email = ?", email)
	err := row.Scan(&account.ID, &account.Email, &account.Username, &account.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Account{}, ErrInvalidCredentials
		}
		return models.Account{}, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return models.Account{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	account.PasswordHash = ""
	return account, nil
}

// Delete removes an account row permanently.
func (s *AccountService) Delete(email string) error {
	res, err := s.db.Exec("DELETE FROM accounts WHERE email = ?", email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetRecoveryQuestion overwrites the account's secret question and stores the
// hashed answer. Question and answer always change together.
func (s *AccountService) SetRecoveryQuestion(email, question, answer string) error {
	if question == "" || answer == "" {
		return ErrInvalidInput
	}

	answerHash, err := s.hasher.Hash(answer)
	if err != nil {
		return fmt.Errorf("failed to hash answer: %w", err)
	}

	res, err := s.db.Exec("UPDATE accounts SET secret_question = ?, secret_answer_hash = ? WHERE email = ?", question, answerHash, email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// VerifyRecoveryAnswer compares an answer against the stored hash. An account
// with no recovery question set fails the comparison.
func (s *AccountService) VerifyRecoveryAnswer(email, answer string) error {
	var answerHash sql.NullString
	row := s.db.QueryRow("SELECT secret_answer_hash FROM accounts WHERE email = ?", email)
	if err := row.Scan(&answerHash); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if !answerHash.Valid || !s.hasher.Verify(answer, answerHash.String) {
		return ErrAnswerMismatch
	}
	return nil
}

// ResetPassword hashes newPassword and overwrites the stored hash wholesale.
// The client is trusted to have verified the recovery answer first; nothing
// server-side binds the two calls.
func (s *AccountService) ResetPassword(email, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	res, err := s.db.Exec("UPDATE accounts SET password_hash = ? WHERE email = ?", passwordHash, email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// LinkGameAccount overwrites the linked Dota account id.
func (s *AccountService) LinkGameAccount(email, dotaID string) error {
	if dotaID == "" {
		return ErrInvalidInput
	}

	res, err := s.db.Exec("UPDATE accounts SET dota_account_id = ? WHERE email = ?", dotaID, email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// GameAccountID returns the linked Dota account id, empty when none is set.
func (s *AccountService) GameAccountID(email string) (string, error) {
	var dotaID sql.NullString
	row := s.db.QueryRow("SELECT dota_account_id FROM accounts WHERE email = ?", email)
	if err := row.Scan(&dotaID); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	return dotaID.String, nil
}

// requireAffected maps a zero-row mutation to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
