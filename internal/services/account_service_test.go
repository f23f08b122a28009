package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dotatracker/dota-tracker-be/internal/database"
	"github.com/dotatracker/dota-tracker-be/internal/hashing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	// Each in-memory sqlite connection is its own database; keep the pool at
	// one connection so every query sees the migrated schema.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T) *AccountService {
	t.Helper()
	return NewAccountService(newTestDB(t), hashing.BcryptHasher{Cost: bcrypt.MinCost})
}

func TestRegister_DefaultsUsernameToEmailLocalPart(t *testing.T) {
	s := newTestService(t)

	account, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)
	assert.Equal(t, "a", account.Username)
	assert.Equal(t, "a@x.com", account.Email)
	assert.NotEmpty(t, account.ID)
	assert.Empty(t, account.PasswordHash, "hash must not leave the service")
}

func TestRegister_KeepsSuppliedUsername(t *testing.T) {
	s := newTestService(t)

	account, err := s.Register("a@x.com", "pw1", "pudge_enjoyer")
	require.NoError(t, err)
	assert.Equal(t, "pudge_enjoyer", account.Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)

	_, err = s.Register("a@x.com", "pw2", "other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_MissingFields(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("", "pw1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Register("a@x.com", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)

	created, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)

	got, err := s.Authenticate("a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID, "login must resolve to the registered account")

	_, err = s.Authenticate("a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error as a wrong password.
	_, err = s.Authenticate("nobody@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDelete(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete("a@x.com"))

	_, err = s.Authenticate("a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, s.Delete("a@x.com"), ErrNotFound)
}

func TestRecoveryQuestionFlow(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)

	// No question set yet: the comparison fails rather than erroring.
	assert.ErrorIs(t, s.VerifyRecoveryAnswer("a@x.com", "anything"), ErrAnswerMismatch)

	require.NoError(t, s.SetRecoveryQuestion("a@x.com", "First hero played?", "pudge"))

	assert.NoError(t, s.VerifyRecoveryAnswer("a@x.com", "pudge"))
	assert.ErrorIs(t, s.VerifyRecoveryAnswer("a@x.com", "invoker"), ErrAnswerMismatch)

	assert.ErrorIs(t, s.SetRecoveryQuestion("nobody@x.com", "q", "a"), ErrNotFound)
	assert.ErrorIs(t, s.VerifyRecoveryAnswer("nobody@x.com", "a"), ErrNotFound)
}

func TestSetRecoveryQuestion_ReplacesAnswer(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)

	require.NoError(t, s.SetRecoveryQuestion("a@x.com", "First hero played?", "pudge"))
	require.NoError(t, s.SetRecoveryQuestion("a@x.com", "Favorite item?", "blink"))

	assert.ErrorIs(t, s.VerifyRecoveryAnswer("a@x.com", "pudge"), ErrAnswerMismatch)
	assert.NoError(t, s.VerifyRecoveryAnswer("a@x.com", "blink"))
}

func TestResetPassword(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("a@x.com", "old-pw", "")
	require.NoError(t, err)

	require.NoError(t, s.ResetPassword("a@x.com", "new-pw"))

	_, err = s.Authenticate("a@x.com", "old-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate("a@x.com", "new-pw")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.ResetPassword("nobody@x.com", "pw"), ErrNotFound)
	assert.ErrorIs(t, s.ResetPassword("a@x.com", ""), ErrInvalidInput)
}

func TestGameAccountLink(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register("a@x.com", "pw1", "")
	require.NoError(t, err)

	// Unset id reads back empty, not an error.
	id, err := s.GameAccountID("a@x.com")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, s.LinkGameAccount("a@x.com", "123"))

	id, err = s.GameAccountID("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "123", id)

	// Relinking overwrites.
	require.NoError(t, s.LinkGameAccount("a@x.com", "456"))
	id, err = s.GameAccountID("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "456", id)

	assert.ErrorIs(t, s.LinkGameAccount("nobody@x.com", "123"), ErrNotFound)
	assert.ErrorIs(t, s.LinkGameAccount("a@x.com", ""), ErrInvalidInput)

	_, err = s.GameAccountID("nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
